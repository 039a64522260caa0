package services_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/lorrc/employee-identifier/internal/core/domain"
	"github.com/lorrc/employee-identifier/internal/core/services"
	"github.com/lorrc/employee-identifier/internal/infrastructure/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestRecordParser_Parse(t *testing.T) {
	ctx := context.Background()
	parser := services.NewRecordParser(logging.NewNopLogger())

	t.Run("parses valid rows in input order", func(t *testing.T) {
		input := strings.Join([]string{
			"143, 12, 2013-11-01, 2014-01-05",
			"218, 10, 2012-05-16, NULL",
			"143, 10, 2009-01-01, 2011-04-27",
			"218, 12, 2013-11-01, 2014-01-05",
		}, "\n")

		records, err := parser.Parse(ctx, strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, records, 4)
		assert.Equal(t, domain.WorkPeriodRecord{
			EmployeeID: 143, ProjectID: 12,
			DateFrom: date(2013, time.November, 1), DateTo: datePtr(2014, time.January, 5),
		}, records[0])
		assert.Equal(t, 218, records[1].EmployeeID)
		assert.True(t, records[1].IsOpenEnded())
		assert.Equal(t, 143, records[2].EmployeeID)
		assert.Equal(t, 10, records[2].ProjectID)
		assert.Equal(t, 218, records[3].EmployeeID)
	})

	t.Run("null and empty end dates are open ended", func(t *testing.T) {
		input := "1,1,2020-01-01,NULL\n2,1,2020-01-01,null\n3,1,2020-01-01,\n4,1,2020-01-01,  Null  "

		records, err := parser.Parse(ctx, strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, records, 4)
		for _, r := range records {
			assert.Nil(t, r.DateTo, "employee %d", r.EmployeeID)
		}
	})

	t.Run("skips blank and whitespace only lines", func(t *testing.T) {
		input := "\n   \n1,1,2020-01-01,2020-02-01\n\t\n\n2,1,2020-01-15,2020-03-01\n"

		records, err := parser.Parse(ctx, strings.NewReader(input))

		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("handles CRLF line endings and a byte order mark", func(t *testing.T) {
		input := "\uFEFF1,1,2020-01-01,2020-02-01\r\n2,1,2020-01-15,2020-03-01\r\n"

		records, err := parser.Parse(ctx, strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, 1, records[0].EmployeeID)
		assert.Equal(t, date(2020, time.March, 1), *records[1].DateTo)
	})

	t.Run("header row is dropped like any malformed line", func(t *testing.T) {
		input := "EmpID, ProjectID, DateFrom, DateTo\n1,1,2020-01-01,2020-02-01"

		records, err := parser.Parse(ctx, strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 1, records[0].EmployeeID)
	})

	t.Run("ignores columns beyond the fourth", func(t *testing.T) {
		records, err := parser.Parse(ctx, strings.NewReader("5,6,2020-01-01,2020-01-31,extra,columns"))

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 5, records[0].EmployeeID)
		assert.Equal(t, 6, records[0].ProjectID)
	})

	t.Run("accepts common non ISO date layouts", func(t *testing.T) {
		input := "1,1,2013/11/01,11/30/2013\n2,1,2013-11-01T08:30:00Z,2013-11-30 17:00:00"

		records, err := parser.Parse(ctx, strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, date(2013, time.November, 1), records[0].DateFrom)
		assert.Equal(t, date(2013, time.November, 30), *records[0].DateTo)
		assert.Equal(t, date(2013, time.November, 1), records[1].DateFrom)
		assert.Equal(t, date(2013, time.November, 30), *records[1].DateTo)
	})

	t.Run("empty input yields no records", func(t *testing.T) {
		records, err := parser.Parse(ctx, strings.NewReader(""))

		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("read failures are returned", func(t *testing.T) {
		readErr := errors.New("connection reset")

		records, err := parser.Parse(ctx, iotest.ErrReader(readErr))

		assert.Nil(t, records)
		assert.ErrorIs(t, err, readErr)
	})
}

func TestRecordParser_DropsMalformedRows(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		line   string
		reason string
	}{
		{"too few columns", "1,2,2020-01-01", "insufficient columns"},
		{"non numeric employee", "abc,2,2020-01-01,2020-02-01", "invalid EmpID"},
		{"empty employee", ",2,2020-01-01,2020-02-01", "invalid EmpID"},
		{"decimal employee", "1.5,2,2020-01-01,2020-02-01", "invalid EmpID"},
		{"employee overflows 32 bits", "99999999999,2,2020-01-01,2020-02-01", "invalid EmpID"},
		{"non numeric project", "1,xyz,2020-01-01,2020-02-01", "invalid ProjectID"},
		{"bad start date", "1,2,not-a-date,2020-02-01", "invalid DateFrom"},
		{"empty start date", "1,2,,2020-02-01", "invalid DateFrom"},
		{"impossible start date", "1,2,2020-13-45,2020-02-01", "invalid DateFrom"},
		{"bad end date", "1,2,2020-01-01,someday", "invalid DateTo"},
		{"timestamp start date", "1,2,1234567890,2020-02-01", "invalid DateFrom"},
		{"bare year end date", "1,2,2020-01-01,2021", "invalid DateTo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			parser := services.NewRecordParser(slog.New(slog.NewJSONHandler(&buf, nil)))

			records, err := parser.Parse(ctx, strings.NewReader(tt.line))

			require.NoError(t, err)
			assert.Empty(t, records)
			assert.Contains(t, buf.String(), `"level":"WARN"`)
			assert.Contains(t, buf.String(), tt.reason)
			assert.Contains(t, buf.String(), `"line_number":1`)
		})
	}
}

func TestRecordParser_ValidRowsSurviveInterleavedGarbage(t *testing.T) {
	valid := []string{
		"1,10,2020-01-01,2020-06-30",
		"2,10,2020-03-01,NULL",
		"3,11,2019-05-05,2021-05-05",
		"4,11,2020-02-02,",
	}
	malformed := []string{
		"garbage",
		"1,10,2020-01-01",
		"x,10,2020-01-01,2020-06-30",
		"2,y,2020-01-01,2020-06-30",
		"3,11,yesterday,2021-05-05",
		"4,11,2020-02-02,tomorrow",
	}

	var lines []string
	for i := 0; i < len(malformed); i++ {
		lines = append(lines, malformed[i])
		if i < len(valid) {
			lines = append(lines, valid[i])
		}
	}

	parser := services.NewRecordParser(logging.NewNopLogger())
	records, err := parser.Parse(context.Background(), strings.NewReader(strings.Join(lines, "\n")))

	require.NoError(t, err)
	require.Len(t, records, len(valid))
	for i, r := range records {
		assert.Equal(t, i+1, r.EmployeeID)
	}
}

func TestRecordParser_OnlyMalformedLines(t *testing.T) {
	input := "EmpID,ProjectID,DateFrom,DateTo\n1,2,bad-date,NULL\n3,4\n5,6,2020-01-01,never"

	parser := services.NewRecordParser(logging.NewNopLogger())
	records, err := parser.Parse(context.Background(), strings.NewReader(input))

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseDate(t *testing.T) {
	got, err := services.ParseDate("2014-01-05")
	require.NoError(t, err)
	assert.Equal(t, date(2014, time.January, 5), got)

	_, err = services.ParseDate("")
	assert.Error(t, err)

	_, err = services.ParseDate("not-a-date")
	assert.Error(t, err)

	for _, numeric := range []string{"1234567890", "2020", "20200101", "0"} {
		_, err = services.ParseDate(numeric)
		assert.Error(t, err, numeric)
	}
}

func TestRecordParser_OverLongLineIsSkipped(t *testing.T) {
	var buf bytes.Buffer
	parser := services.NewRecordParser(slog.New(slog.NewJSONHandler(&buf, nil)))

	input := "1,10,2020-01-01,2020-01-31\n" +
		strings.Repeat("x", 2<<20) + "\n" +
		"2,10,2020-01-15,NULL\n"

	records, err := parser.Parse(context.Background(), strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].EmployeeID)
	assert.Equal(t, 2, records[1].EmployeeID)
	assert.Contains(t, buf.String(), "line too long")
	assert.Contains(t, buf.String(), `"line_number":2`)
}

func TestRecordParser_LineEndings(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"lf", "1,1,2020-01-01,NULL\n2,1,2020-01-05,2020-02-01\n"},
		{"crlf", "1,1,2020-01-01,NULL\r\n2,1,2020-01-05,2020-02-01\r\n"},
		{"bare cr", "1,1,2020-01-01,NULL\r2,1,2020-01-05,2020-02-01\r"},
		{"mixed without trailing newline", "1,1,2020-01-01,NULL\r\n\r2,1,2020-01-05,2020-02-01"},
	}

	parser := services.NewRecordParser(logging.NewNopLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := parser.Parse(context.Background(), strings.NewReader(tt.input))

			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Nil(t, records[0].DateTo)
			assert.Equal(t, date(2020, time.February, 1), *records[1].DateTo)
		})
	}
}
