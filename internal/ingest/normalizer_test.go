package ingest_test

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/agentdesk/leads-api/internal/domain"
	"github.com/agentdesk/leads-api/internal/ingest"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.UnixMilli(1700000000123)

func newTestNormalizer() *ingest.Normalizer {
	return ingest.NewNormalizer(ingest.WithClock(func() time.Time { return fixedNow }))
}

func TestNormalize_CSVSynthesizesMissingEmail(t *testing.T) {
	n := ingest.NewNormalizer()

	res := n.Normalize([]ingest.Row{{"Name": "Jo", "Phone": "5551234"}}, ingest.FormatCSV)

	require.Len(t, res.Accepted, 1)
	assert.Empty(t, res.Rejected)
	assert.Equal(t, "Jo", res.Accepted[0].Name)
	assert.Equal(t, "5551234", res.Accepted[0].Mobile)
	assert.Regexp(t, regexp.MustCompile(`^lead\d+\d+@placeholder\.com$`), res.Accepted[0].Email)
}

func TestNormalize_CSVPlaceholderUsesClockAndRowNumber(t *testing.T) {
	n := newTestNormalizer()

	res := n.Normalize([]ingest.Row{
		{"Name": "A", "Mobile": "1", "Email": "a@example.com"},
		{"Name": "B", "Mobile": "2"},
	}, ingest.FormatCSV)

	require.Len(t, res.Accepted, 2)
	assert.Equal(t, "a@example.com", res.Accepted[0].Email)
	assert.Equal(t, "lead17000000001232@placeholder.com", res.Accepted[1].Email)
}

func TestNormalize_CSVPlaceholderDomain(t *testing.T) {
	n := ingest.NewNormalizer(
		ingest.WithClock(func() time.Time { return fixedNow }),
		ingest.WithPlaceholderDomain("imports.invalid"),
	)

	res := n.Normalize([]ingest.Row{{"name": "A", "phone": "1"}}, ingest.FormatCSV)

	require.Len(t, res.Accepted, 1)
	assert.Equal(t, "lead17000000001231@imports.invalid", res.Accepted[0].Email)
}

func TestNormalize_CSVMissingMobileRejected(t *testing.T) {
	n := newTestNormalizer()

	raw := ingest.Row{"Name": "Jo"}
	res := n.Normalize([]ingest.Row{raw}, ingest.FormatCSV)

	assert.Empty(t, res.Accepted)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 1, res.Rejected[0].RowNumber)
	assert.Equal(t, raw, res.Rejected[0].Raw)
	assert.Contains(t, res.Rejected[0].Reason, "Name")
	assert.Contains(t, res.Rejected[0].Reason, "Mobile")
}

func TestNormalize_SpreadsheetRequiresEmail(t *testing.T) {
	n := newTestNormalizer()

	res := n.Normalize([]ingest.Row{
		{"name": "Al", "email": "a@b.com", "mobile": "123"},
		{"name": "Al", "mobile": "123"},
	}, ingest.FormatSpreadsheet)

	want := []ingest.Candidate{{
		Name:   "Al",
		Email:  "a@b.com",
		Mobile: "123",
		Source: domain.LeadSourceFileUpload,
	}}
	if diff := cmp.Diff(want, res.Accepted); diff != "" {
		t.Errorf("accepted mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 3, res.Rejected[0].RowNumber)
	assert.Contains(t, res.Rejected[0].Reason, "Email")
}

func TestNormalize_RejectionsDoNotStopProcessing(t *testing.T) {
	n := newTestNormalizer()

	res := n.Normalize([]ingest.Row{
		{"Name": "", "Mobile": "1"},
		{"Name": "B", "Mobile": "2"},
		{"Mobile": "3"},
		{"Name": "D", "Mobile": "4"},
	}, ingest.FormatCSV)

	require.Len(t, res.Accepted, 2)
	assert.Equal(t, "B", res.Accepted[0].Name)
	assert.Equal(t, "D", res.Accepted[1].Name)
	require.Len(t, res.Rejected, 2)
	assert.Equal(t, 1, res.Rejected[0].RowNumber)
	assert.Equal(t, 3, res.Rejected[1].RowNumber)
}

func TestNormalize_OverlongFieldsRejected(t *testing.T) {
	n := newTestNormalizer()

	res := n.Normalize([]ingest.Row{
		{"Name": strings.Repeat("n", ingest.MaxNameLength+1), "Mobile": "1"},
		{"Name": "B", "Mobile": strings.Repeat("9", ingest.MaxMobileLength+1)},
		{"Name": "C", "Mobile": "3", "Email": strings.Repeat("e", ingest.MaxEmailLength) + "@x.io"},
		{"Name": strings.Repeat("é", ingest.MaxNameLength), "Mobile": "4"},
	}, ingest.FormatCSV)

	require.Len(t, res.Accepted, 1, "width is counted in characters, not bytes")
	assert.Equal(t, strings.Repeat("é", ingest.MaxNameLength), res.Accepted[0].Name)
	require.Len(t, res.Rejected, 3)
	for i, rej := range res.Rejected {
		assert.Equal(t, i+1, rej.RowNumber)
		assert.Equal(t, "Field exceeds maximum length", rej.Reason)
	}
}

func TestNormalize_SpreadsheetOverlongRejected(t *testing.T) {
	n := newTestNormalizer()

	res := n.Normalize([]ingest.Row{
		{"Name": "A", "Email": "a@example.com", "Mobile": strings.Repeat("1", ingest.MaxMobileLength+1)},
		{"Name": "B", "Email": "b@example.com", "Mobile": "2"},
	}, ingest.FormatSpreadsheet)

	require.Len(t, res.Accepted, 1)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 2, res.Rejected[0].RowNumber)
	assert.Equal(t, "Field exceeds maximum length", res.Rejected[0].Reason)
}

func TestNormalize_HeaderAliases(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name string
		row  ingest.Row
		want ingest.Candidate
	}{
		{
			name: "first name spellings",
			row:  ingest.Row{"First Name": "Kim", "E-Mail": "KIM@Example.com", "Phone Number": "99", "Comments": "vip"},
			want: ingest.Candidate{Name: "Kim", Email: "kim@example.com", Mobile: "99", Notes: "vip", Source: domain.LeadSourceFileUpload},
		},
		{
			name: "upper case headers",
			row:  ingest.Row{"FIRSTNAME": "Lee", "EMAIL": "lee@example.com", "MOBILE": "12", "NOTES": "n"},
			want: ingest.Candidate{Name: "Lee", Email: "lee@example.com", Mobile: "12", Notes: "n", Source: domain.LeadSourceFileUpload},
		},
		{
			name: "contact counts as mobile",
			row:  ingest.Row{"first_name": "Max", "E-mail": "max@example.com", "contact": "77"},
			want: ingest.Candidate{Name: "Max", Email: "max@example.com", Mobile: "77", Source: domain.LeadSourceFileUpload},
		},
		{
			name: "values are trimmed",
			row:  ingest.Row{"Name": "  Ann ", "Email": " ann@example.com ", "Mobile Number": " 5 ", "notes": "  hi  "},
			want: ingest.Candidate{Name: "Ann", Email: "ann@example.com", Mobile: "5", Notes: "hi", Source: domain.LeadSourceFileUpload},
		},
		{
			name: "empty earlier alias falls through to later one",
			row:  ingest.Row{"Name": "", "firstName": "Bo", "Mobile": " ", "Phone": "42", "email": "bo@example.com"},
			want: ingest.Candidate{Name: "Bo", Email: "bo@example.com", Mobile: "42", Source: domain.LeadSourceFileUpload},
		},
		{
			name: "earlier alias wins",
			row:  ingest.Row{"Name": "First", "name": "Second", "Mobile": "1", "Phone": "2", "Email": "x@example.com"},
			want: ingest.Candidate{Name: "First", Email: "x@example.com", Mobile: "1", Source: domain.LeadSourceFileUpload},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := n.Normalize([]ingest.Row{tt.row}, ingest.FormatSpreadsheet)
			require.Len(t, res.Accepted, 1, "rejected: %+v", res.Rejected)
			if diff := cmp.Diff(tt.want, res.Accepted[0]); diff != "" {
				t.Errorf("candidate mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalize_AliasMatchingIsCaseSensitive(t *testing.T) {
	n := newTestNormalizer()

	res := n.Normalize([]ingest.Row{{"NAME": "Jo", "Mobile": "1"}}, ingest.FormatCSV)

	assert.Empty(t, res.Accepted)
	require.Len(t, res.Rejected, 1)
}

func TestNormalize_EmptyInput(t *testing.T) {
	n := newTestNormalizer()

	res := n.Normalize(nil, ingest.FormatCSV)

	assert.Empty(t, res.Accepted)
	assert.Empty(t, res.Rejected)
}
