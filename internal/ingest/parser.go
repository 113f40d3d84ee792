package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var (
	// ErrMalformedFile marks a file whose structure could not be read at all
	ErrMalformedFile = errors.New("malformed file")
	// ErrUnsupportedFormat marks a file extension outside csv, xlsx and xls
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// ParseError is fatal for the whole batch. It is distinct from a file that
// parses but yields no acceptable rows.
type ParseError struct {
	Kind Kind
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s file: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrMalformedFile for every ParseError
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedFile
}

// Kind is the physical file type of an upload
type Kind string

const (
	KindCSV  Kind = "csv"
	KindXLSX Kind = "xlsx"
	KindXLS  Kind = "xls"
)

// Format returns the acceptance rule used for rows of this kind
func (k Kind) Format() Format {
	if k == KindCSV {
		return FormatCSV
	}
	return FormatSpreadsheet
}

// KindForFilename gates uploads by extension, case-insensitively
func KindForFilename(name string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return KindCSV, nil
	case ".xlsx":
		return KindXLSX, nil
	case ".xls":
		return KindXLS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// ContentType returns the MIME type used when staging a file of this kind
func (k Kind) ContentType() string {
	switch k {
	case KindXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case KindXLS:
		return "application/vnd.ms-excel"
	default:
		return "text/csv"
	}
}

// ParseRows reads every data row of the file. The first row is the header.
func ParseRows(ctx context.Context, kind Kind, r io.Reader) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		rows []Row
		err  error
	)
	switch kind {
	case KindCSV:
		rows, err = parseCSV(r)
	case KindXLSX:
		rows, err = parseXLSX(r)
	case KindXLS:
		rows, err = parseXLS(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, kind)
	}
	if err != nil {
		return nil, &ParseError{Kind: kind, Err: err}
	}
	return rows, nil
}

// Read parses the named file and normalizes its rows with the rule for its kind
func (n *Normalizer) Read(ctx context.Context, filename string, r io.Reader) (Result, error) {
	kind, err := KindForFilename(filename)
	if err != nil {
		return Result{}, err
	}
	rows, err := ParseRows(ctx, kind, r)
	if err != nil {
		return Result{}, err
	}
	return n.Normalize(rows, kind.Format()), nil
}

// rowFromCells pairs header cells with values. Blank headers are dropped and
// a repeated header keeps its first column.
func rowFromCells(header, cells []string) Row {
	row := make(Row, len(header))
	for i, key := range header {
		if key == "" {
			continue
		}
		if _, seen := row[key]; seen {
			continue
		}
		if i < len(cells) {
			row[key] = cells[i]
		}
	}
	return row
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
