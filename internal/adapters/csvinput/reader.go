// Package csvinput parses recipient lists.
package csvinput

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/example/certbatch/internal/ports/primary"
)

// Column names read from the header row. Other columns are ignored.
const (
	ColumnFullName = "fullName"
	ColumnEmail    = "email"
)

// ErrInvalidFormat is returned for any malformed input.
var ErrInvalidFormat = errors.New("Invalid CSV format")

// FormatError describes where parsing failed.
type FormatError struct {
	Line int
	Err  error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %v", ErrInvalidFormat, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrInvalidFormat, e.Err)
}

func (e *FormatError) Is(target error) bool { return target == ErrInvalidFormat }

func (e *FormatError) Unwrap() error { return e.Err }

// ReadRecipients parses a CSV document with a header row into recipients,
// in input order. Blank lines are skipped. Rows whose field count differs
// from the header fail the whole document. A recipient row with an empty
// name or email is returned as-is; deciding what to do with it is the
// caller's business.
func ReadRecipients(r io.Reader) ([]primary.Recipient, error) {
	br := bufio.NewReader(r)
	skipBOM(br)

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = 0
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []primary.Recipient{}, nil
	}
	if err != nil {
		return nil, formatError(err)
	}

	nameCol, emailCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case ColumnFullName:
			nameCol = i
		case ColumnEmail:
			emailCol = i
		}
	}

	recipients := []primary.Recipient{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, formatError(err)
		}
		recipients = append(recipients, primary.Recipient{
			FullName: field(record, nameCol),
			Email:    field(record, emailCol),
		})
	}
	return recipients, nil
}

func field(record []string, col int) string {
	if col < 0 || col >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[col])
}

func formatError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &FormatError{Line: pe.Line, Err: pe.Err}
	}
	return &FormatError{Err: err}
}

func skipBOM(br *bufio.Reader) {
	r, _, err := br.ReadRune()
	if err != nil {
		return
	}
	if r != '\uFEFF' {
		_ = br.UnreadRune()
	}
}
