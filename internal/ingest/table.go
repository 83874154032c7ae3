// Package ingest normalizes tabular claim exports (CSV, XLSX) into the
// generic document form the extraction engine consumes, so spreadsheets
// ride the same validation and strategy tiers as JSON exports.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for file extensions ingest cannot handle.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Supported reports whether the file can be ingested as a table.
func Supported(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv", ".xlsx":
		return true
	default:
		return false
	}
}

// Document converts a tabular export into the generic document map the
// engine consumes: one array of row objects per sheet (XLSX) or per
// file (CSV), keyed by the sanitized sheet or file stem.
func Document(fileName string, payload []byte) (map[string]any, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		stem := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
		rows, err := parseCSV(payload)
		if err != nil {
			return nil, err
		}
		records, err := rowsToRecords(rows)
		if err != nil {
			return nil, err
		}
		return map[string]any{sanitizeName(stem): records}, nil
	case ".xlsx":
		return parseWorkbook(payload)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(fileName))
	}
}

func parseCSV(payload []byte) ([][]string, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

func parseWorkbook(payload []byte) (map[string]any, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	doc := make(map[string]any, len(sheets))
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		records, err := rowsToRecords(rows)
		if err != nil {
			continue // A decorative or empty sheet should not sink the workbook
		}
		doc[sanitizeName(sheet)] = records
	}
	if len(doc) == 0 {
		return nil, errors.New("workbook has no data rows")
	}
	return doc, nil
}

// rowsToRecords treats the first non-empty row as headers and turns
// every following non-empty row into an object, coercing cells.
func rowsToRecords(rows [][]string) ([]any, error) {
	var headers []string
	records := []any{}

	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		if headers == nil {
			headers = sanitizeHeaders(row)
			continue
		}

		record := make(map[string]any, len(headers))
		for i, header := range headers {
			if i >= len(row) {
				break
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			record[header] = coerceCell(cell)
		}
		if len(record) > 0 {
			records = append(records, record)
		}
	}

	if headers == nil {
		return nil, errors.New("no header row detected")
	}
	return records, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// sanitizeHeaders normalizes column labels to object keys and
// deduplicates repeats.
func sanitizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int)

	for idx, value := range raw {
		name := sanitizeName(value)
		if name == "" {
			name = fmt.Sprintf("column_%d", idx+1)
		}

		base := name
		count := seen[base]
		if count > 0 {
			name = fmt.Sprintf("%s_%d", base, count+1)
		}
		seen[base] = count + 1

		headers[idx] = name
	}
	return headers
}

func sanitizeName(value string) string {
	name := strings.TrimSpace(value)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, ".", "_")
	name = strings.ReplaceAll(name, "-", "_")
	return strings.Trim(name, "_")
}

// coerceCell interprets a cell as bool or number where it cleanly is
// one; everything else stays a string so date parsing sees exact text.
func coerceCell(cell string) any {
	switch strings.ToLower(cell) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseFloat(cell, 64); err == nil && !strings.ContainsAny(cell, "/-") {
		return n
	}
	return cell
}
