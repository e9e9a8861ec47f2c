package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kailas-cloud/securephotos/internal/domain/record"
)

// Required CSV columns.
const (
	colID     = "id"
	colValue1 = "value1"
	colValue2 = "value2"
)

var requiredColumns = []string{colID, colValue1, colValue2}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV converts a CSV document with id,value1,value2 columns into records.
// Rows that fail conversion are reported individually and do not abort the parse.
func ParseCSV(data []byte) record.Report {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return headerError(nil)
	}
	if err != nil {
		return globalError(err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			return headerError(header)
		}
	}

	var rep record.Report
	for rowNum := 1; ; rowNum++ {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return globalError(err)
		}

		rec, rowErr := parseRow(rowNum, header, idx, fields)
		if rowErr != nil {
			rep.RowErrors = append(rep.RowErrors, *rowErr)
			continue
		}
		rep.Records = append(rep.Records, rec)
	}

	rep.Finish()
	return rep
}

func parseRow(rowNum int, header []string, idx map[string]int, fields []string) (record.Record, *record.RowError) {
	var vals [3]int64
	for i, c := range requiredColumns {
		pos := idx[c]
		if pos >= len(fields) {
			return record.Record{}, &record.RowError{
				Row:         rowNum,
				Type:        record.ErrMissingColumn,
				Message:     fmt.Sprintf("Missing column in row %d: %q", rowNum, c),
				OriginalRow: originalRow(header, fields),
			}
		}
		v, err := strconv.ParseInt(strings.TrimSpace(fields[pos]), 10, 64)
		if err != nil {
			return record.Record{}, &record.RowError{
				Row:         rowNum,
				Type:        record.ErrRowParse,
				Message:     fmt.Sprintf("Data conversion error in row %d: column %q: invalid integer %q", rowNum, c, fields[pos]),
				OriginalRow: originalRow(header, fields),
			}
		}
		vals[i] = v
	}
	return record.New(vals[0], vals[1], vals[2]), nil
}

func originalRow(header, fields []string) map[string]string {
	row := make(map[string]string, len(header))
	for i, h := range header {
		if i < len(fields) {
			row[h] = fields[i]
		}
	}
	return row
}

func headerError(found []string) record.Report {
	if found == nil {
		found = []string{}
	}
	return record.Failed(record.ErrHeader, fmt.Sprintf(
		"Missing required CSV headers. Expected: [%s], Found: [%s]",
		strings.Join(requiredColumns, ", "), strings.Join(found, ", ")))
}

func globalError(err error) record.Report {
	return record.Failed(record.ErrGlobalProcessing, fmt.Sprintf("CSV processing failed unexpectedly: %v", err))
}
