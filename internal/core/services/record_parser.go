package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/lorrc/employee-identifier/internal/core/domain"
	"github.com/lorrc/employee-identifier/internal/core/ports"
)

const (
	recordFieldCount = 4
	nullDateLiteral  = "NULL"
	utf8BOM          = "\uFEFF"

	// maxLineBytes bounds a single input line; longer lines are dropped as malformed.
	maxLineBytes = 1 << 20
)

var (
	errEmptyDate   = errors.New("empty date")
	errNumericDate = errors.New("bare number is not a date")
)

// RecordParser reads EmpID,ProjectID,DateFrom,DateTo lines.
type RecordParser struct {
	logger *slog.Logger
}

var _ ports.RecordParser = (*RecordParser)(nil)

// NewRecordParser creates a parser that reports dropped lines through logger.
func NewRecordParser(logger *slog.Logger) *RecordParser {
	return &RecordParser{
		logger: logger.With("component", "record_parser"),
	}
}

// Parse reads every line of input and returns the records that parsed cleanly,
// in input order. Blank lines are skipped silently and malformed lines are
// logged and skipped. A header row is not special: it is dropped as malformed.
func (p *RecordParser) Parse(ctx context.Context, input io.Reader) ([]domain.WorkPeriodRecord, error) {
	lines := newLineReader(input, maxLineBytes)

	var (
		records    []domain.WorkPeriodRecord
		lineNumber int
		skipped    int
	)

	for {
		line, tooLong, err := lines.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading input at line %d: %w", lineNumber+1, err)
		}

		lineNumber++
		if lineNumber == 1 {
			line = strings.TrimPrefix(line, utf8BOM)
		}

		if tooLong {
			skipped++
			p.logger.WarnContext(ctx, "skipping malformed line",
				"line_number", lineNumber,
				"reason", "line too long",
				"max_line_bytes", maxLineBytes,
			)
			continue
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		record, reason := parseRecord(line)
		if reason != "" {
			skipped++
			p.logger.WarnContext(ctx, "skipping malformed line",
				"line_number", lineNumber,
				"reason", reason,
				"line", line,
			)
			continue
		}

		records = append(records, record)
	}

	p.logger.DebugContext(ctx, "input parsed",
		"lines", lineNumber,
		"records", len(records),
		"skipped", skipped,
	)

	return records, nil
}

// lineReader splits input on "\n", "\r\n" or a bare "\r". Lines longer than
// limit bytes are read to their end but only the first limit bytes are kept.
type lineReader struct {
	r     *bufio.Reader
	limit int
	buf   []byte
}

func newLineReader(input io.Reader, limit int) *lineReader {
	return &lineReader{r: bufio.NewReaderSize(input, 64*1024), limit: limit}
}

// next returns the following line without its terminator. It returns io.EOF
// once the input is exhausted; a final line without a terminator is still
// returned first.
func (lr *lineReader) next() (string, bool, error) {
	lr.buf = lr.buf[:0]
	tooLong := false
	read := false

	for {
		b, err := lr.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && read {
				return string(lr.buf), tooLong, nil
			}
			return "", false, err
		}
		read = true

		switch b {
		case '\n':
			return string(lr.buf), tooLong, nil
		case '\r':
			if next, err := lr.r.Peek(1); err == nil && next[0] == '\n' {
				_, _ = lr.r.Discard(1)
			}
			return string(lr.buf), tooLong, nil
		}

		if len(lr.buf) < lr.limit {
			lr.buf = append(lr.buf, b)
		} else {
			tooLong = true
		}
	}
}

// parseRecord converts one line into a record. A non-empty reason means the
// line was rejected.
func parseRecord(line string) (domain.WorkPeriodRecord, string) {
	parts := strings.Split(line, ",")
	if len(parts) < recordFieldCount {
		return domain.WorkPeriodRecord{}, "insufficient columns"
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	employeeID, err := parseID(parts[0])
	if err != nil {
		return domain.WorkPeriodRecord{}, "invalid EmpID"
	}

	projectID, err := parseID(parts[1])
	if err != nil {
		return domain.WorkPeriodRecord{}, "invalid ProjectID"
	}

	dateFrom, err := ParseDate(parts[2])
	if err != nil {
		return domain.WorkPeriodRecord{}, "invalid DateFrom"
	}

	var dateTo *time.Time
	if parts[3] != "" && !strings.EqualFold(parts[3], nullDateLiteral) {
		parsed, err := ParseDate(parts[3])
		if err != nil {
			return domain.WorkPeriodRecord{}, "invalid DateTo"
		}
		dateTo = &parsed
	}

	return domain.WorkPeriodRecord{
		EmployeeID: employeeID,
		ProjectID:  projectID,
		DateFrom:   dateFrom,
		DateTo:     dateTo,
	}, ""
}

// parseID accepts a signed 32-bit decimal identifier.
func parseID(value string) (int, error) {
	id, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

// ParseDate parses a calendar date. ISO dates take the fast path; anything
// else goes through dateparse, which understands the common regional
// layouts (month-first for slash dates). Any time of day is dropped.
// A value made only of digits is rejected rather than read as a year or a
// Unix timestamp.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errEmptyDate
	}

	if t, err := time.Parse(domain.DateLayout, value); err == nil {
		return t, nil
	}

	if isDigits(value) {
		return time.Time{}, errNumericDate
	}

	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return domain.DateOf(t), nil
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
