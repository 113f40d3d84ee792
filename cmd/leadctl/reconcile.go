package main

import (
	"fmt"

	"github.com/agentdesk/leads-api/internal/config"
	"github.com/agentdesk/leads-api/internal/database"
	"github.com/agentdesk/leads-api/internal/logger"
	"github.com/agentdesk/leads-api/internal/repository"
	"github.com/agentdesk/leads-api/internal/service"
	"github.com/spf13/cobra"
)

func newReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute agent lead counters from the leads table",
		Long: `Compares every agent's assigned_leads_count with the number of leads
assigned to it and rewrites the counters that drifted. This is the same
pass the API server runs on its counter reconcile schedule.`,
		Args: cobra.NoArgs,
		RunE: runReconcile,
	}
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.LoadWithSecrets(cmd.Context(), log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database, database.Options{}, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	counters := service.NewCounterService(repository.NewAgentRepository(db), log)
	report, err := counters.Reconcile(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "drifted: %d\ncorrected: %d\nskipped: %d\n",
		report.Checked, report.Corrected, report.Skipped)
	return nil
}
