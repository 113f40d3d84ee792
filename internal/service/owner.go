package service

import (
	"context"
	"strings"

	"github.com/agentdesk/leads-api/internal/auth"
	"github.com/google/uuid"
)

func requireOwner(ctx context.Context) (uuid.UUID, error) {
	ownerID, ok := auth.OwnerID(ctx)
	if !ok {
		return uuid.Nil, ErrUnauthorized
	}
	return ownerID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
