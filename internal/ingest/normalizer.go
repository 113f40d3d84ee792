// Package ingest turns uploaded lead files into normalized lead candidates.
package ingest

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agentdesk/leads-api/internal/domain"
)

// Format selects the acceptance rule applied to a row
type Format int

const (
	// FormatCSV requires name and mobile; a missing email gets a placeholder
	FormatCSV Format = iota
	// FormatSpreadsheet requires name, email and mobile
	FormatSpreadsheet
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatSpreadsheet:
		return "spreadsheet"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Row is one raw data row keyed by its header cell
type Row map[string]string

// Candidate is a normalized lead before it is assigned and persisted
type Candidate struct {
	Name   string
	Email  string
	Mobile string
	Notes  string
	Source domain.LeadSource
}

// Rejection records a row that failed the acceptance rule
type Rejection struct {
	RowNumber int
	Raw       Row
	Reason    string
}

// Result holds accepted candidates in input order plus the rejections
type Result struct {
	Accepted []Candidate
	Rejected []Rejection
}

const (
	reasonCSVMissing         = "Missing required field(s): Name and Mobile/Phone are required"
	reasonSpreadsheetMissing = "Missing required field(s): Name, Email and Mobile are required"
	reasonTooLong            = "Field exceeds maximum length"
)

// Column widths of the leads table, counted in characters
const (
	MaxNameLength   = 200
	MaxEmailLength  = 255
	MaxMobileLength = 50
)

type field int

const (
	fieldName field = iota
	fieldEmail
	fieldMobile
	fieldNotes
)

// headerAliases lists accepted header spellings per field. Matching is exact
// and the first alias with a non-empty value wins.
var headerAliases = map[field][]string{
	fieldName:   {"Name", "name", "FirstName", "firstName", "FIRSTNAME", "first_name", "First Name"},
	fieldEmail:  {"Email", "email", "EMAIL", "E-mail", "E-Mail"},
	fieldMobile: {"Mobile", "mobile", "Phone", "phone", "MOBILE", "PHONE", "Contact", "contact", "Phone Number", "Mobile Number"},
	fieldNotes:  {"Notes", "notes", "NOTES", "Comments", "comments"},
}

func (r Row) resolve(f field) string {
	for _, alias := range headerAliases[f] {
		if v, ok := r[alias]; ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// Normalizer classifies raw rows into candidates and rejections
type Normalizer struct {
	now               func() time.Time
	placeholderDomain string
}

// Option configures a Normalizer
type Option func(*Normalizer)

// WithClock overrides the time source used for placeholder emails
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		n.now = now
	}
}

// WithPlaceholderDomain overrides the domain of synthesized emails
func WithPlaceholderDomain(d string) Option {
	return func(n *Normalizer) {
		if d != "" {
			n.placeholderDomain = d
		}
	}
}

// NewNormalizer creates a Normalizer with the given options
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		now:               time.Now,
		placeholderDomain: "placeholder.com",
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize applies the acceptance rule of format to every row. Rejected rows
// never stop processing of the rows after them.
func (n *Normalizer) Normalize(rows []Row, format Format) Result {
	res := Result{Accepted: make([]Candidate, 0, len(rows))}
	for i, row := range rows {
		var (
			c      Candidate
			reason string
			ok     bool
		)
		rowNumber := rowNumberFor(format, i)
		if format == FormatCSV {
			c, ok = n.normalizeCSVRow(row, rowNumber)
			reason = reasonCSVMissing
		} else {
			c, ok = n.normalizeSpreadsheetRow(row)
			reason = reasonSpreadsheetMissing
		}
		if ok && !c.fits() {
			ok, reason = false, reasonTooLong
		}
		if !ok {
			res.Rejected = append(res.Rejected, Rejection{RowNumber: rowNumber, Raw: row, Reason: reason})
			continue
		}
		res.Accepted = append(res.Accepted, c)
	}
	return res
}

// rowNumberFor maps a 0-based data row index to the row number reported to users.
// CSV rows count data rows only; spreadsheet rows match the sheet's own numbering.
func rowNumberFor(format Format, index int) int {
	if format == FormatSpreadsheet {
		return index + 2
	}
	return index + 1
}

func (n *Normalizer) normalizeCSVRow(row Row, rowNumber int) (Candidate, bool) {
	c := candidateFrom(row)
	if c.Name == "" || c.Mobile == "" {
		return Candidate{}, false
	}
	if c.Email == "" {
		c.Email = n.placeholderEmail(rowNumber)
	}
	return c, true
}

func (n *Normalizer) normalizeSpreadsheetRow(row Row) (Candidate, bool) {
	c := candidateFrom(row)
	if c.Name == "" || c.Email == "" || c.Mobile == "" {
		return Candidate{}, false
	}
	return c, true
}

func (n *Normalizer) placeholderEmail(rowNumber int) string {
	return fmt.Sprintf("lead%d%d@%s", n.now().UnixMilli(), rowNumber, n.placeholderDomain)
}

func candidateFrom(row Row) Candidate {
	return Candidate{
		Name:   row.resolve(fieldName),
		Email:  strings.ToLower(row.resolve(fieldEmail)),
		Mobile: row.resolve(fieldMobile),
		Notes:  row.resolve(fieldNotes),
		Source: domain.LeadSourceFileUpload,
	}
}

// fits reports whether every stored field is within its column width
func (c Candidate) fits() bool {
	return utf8.RuneCountInString(c.Name) <= MaxNameLength &&
		utf8.RuneCountInString(c.Email) <= MaxEmailLength &&
		utf8.RuneCountInString(c.Mobile) <= MaxMobileLength
}
