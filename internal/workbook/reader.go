package workbook

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nconklindev/dateline/internal/normalize"
	"github.com/nconklindev/dateline/internal/types"

	"github.com/xuri/excelize/v2"
)

const RowDetectionLimit = 10

// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported file format")

type Reader struct {
	cfg Config
}

func NewReader(cfg Config) *Reader {
	return &Reader{cfg: cfg}
}

// ReadSchedule decodes a schedule export. The result has no headers; the first
// SkipRows rows of the file are dropped.
func (r *Reader) ReadSchedule(filePath string) (*types.Table, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	var rows []types.Row
	var err error
	switch ext {
	case ".csv":
		rows, err = r.readCSVRows(filePath)
	case ".xlsx":
		rows, err = readXLSXRows(filePath)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	skip := r.cfg.SkipRows
	if skip > len(rows) {
		skip = len(rows)
	}
	if skip < 0 {
		skip = 0
	}

	return &types.Table{Rows: rows[skip:]}, nil
}

// ReadOrders decodes an order export from the first sheet of an XLSX file.
// The header is the first row naming every order column, else row one.
func (r *Reader) ReadOrders(filePath string) (*types.Table, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if ext != ".xlsx" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	rows, err := readXLSXRows(filePath)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	headerRowIdx := findHeaderRow(rows, normalize.OrderColumns)

	headers := make([]string, len(rows[headerRowIdx]))
	for i, c := range rows[headerRowIdx] {
		headers[i] = c.String()
	}

	return &types.Table{
		Headers: headers,
		Rows:    rows[headerRowIdx+1:],
	}, nil
}

func (r *Reader) readCSVRows(filePath string) ([]types.Row, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	delim := r.cfg.Delimiter
	if delim == "" {
		delim = ";"
	}
	comma, size := utf8.DecodeRuneInString(delim)
	if size != len(delim) {
		return nil, fmt.Errorf("csv delimiter must be a single character, got %q", delim)
	}

	text := strings.TrimPrefix(string(content), "\ufeff")
	text = collapseDelimiters(text, comma)

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	rows := make([]types.Row, len(records))
	for i, record := range records {
		row := make(types.Row, len(record))
		for j, v := range record {
			row[j] = types.StringCell(strings.TrimSpace(v))
		}
		rows[i] = row
	}
	return rows, nil
}

// collapseDelimiters repairs exports that emit a doubled delimiter between
// fields. Runs inside quoted fields are left alone.
func collapseDelimiters(text string, delim rune) string {
	var b strings.Builder
	b.Grow(len(text))

	inQuote, prevDelim := false, false
	for _, r := range text {
		if r == delim && !inQuote {
			if !prevDelim {
				b.WriteRune(r)
			}
			prevDelim = true
			continue
		}
		if r == '"' {
			inQuote = !inQuote
		}
		prevDelim = false
		b.WriteRune(r)
	}
	return b.String()
}

func readXLSXRows(filePath string) ([]types.Row, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)

	raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	dec := &cellDecoder{f: f, known: make(map[int]bool)}

	rows := make([]types.Row, len(raw))
	for i, record := range raw {
		row := make(types.Row, len(record))
		for j, v := range record {
			row[j] = dec.decode(sheetName, j+1, i+1, v)
		}
		rows[i] = row
	}
	return rows, nil
}

// cellDecoder types raw sheet values, remembering which style indexes carry
// a date number format.
type cellDecoder struct {
	f     *excelize.File
	known map[int]bool
}

func (d *cellDecoder) decode(sheet string, col, row int, value string) types.Cell {
	value = strings.TrimSpace(value)
	if value == "" {
		return types.Cell{}
	}

	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return types.StringCell(value)
	}
	if !d.isNumeric(sheet, cell) {
		return types.StringCell(value)
	}

	n, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return types.StringCell(value)
	}

	if d.isDate(sheet, cell) {
		if t, err := excelize.ExcelDateToTime(n, false); err == nil {
			return types.DateCell(t)
		}
	}
	return types.NumberCell(n)
}

// isNumeric reports whether the cell is stored as a number. Text cells keep
// their value verbatim, leading zeros included.
func (d *cellDecoder) isNumeric(sheet, cell string) bool {
	typ, err := d.f.GetCellType(sheet, cell)
	if err != nil {
		return false
	}
	return typ == excelize.CellTypeUnset || typ == excelize.CellTypeNumber
}

func (d *cellDecoder) isDate(sheet, cell string) bool {
	idx, err := d.f.GetCellStyle(sheet, cell)
	if err != nil || idx == 0 {
		return false
	}
	if isDate, ok := d.known[idx]; ok {
		return isDate
	}

	isDate := false
	if style, err := d.f.GetStyle(idx); err == nil && style != nil {
		isDate = isDateNumFmt(style.NumFmt, style.CustomNumFmt)
	}
	d.known[idx] = isDate
	return isDate
}

// isDateNumFmt reports whether a built-in or custom number format renders dates.
func isDateNumFmt(id int, custom *string) bool {
	if custom != nil && *custom != "" {
		return isDateFormatCode(*custom)
	}
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range code {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	stripped := strings.ToLower(b.String())
	return strings.ContainsAny(stripped, "dy") || strings.Contains(stripped, "mmm")
}

// findHeaderRow returns the first row within the search window that names
// every required column. Without one, the first row is the header and the
// missing columns surface as a schema mismatch downstream.
func findHeaderRow(rows []types.Row, required []string) int {
	searchLimit := len(rows)
	if searchLimit > RowDetectionLimit*2 {
		searchLimit = RowDetectionLimit * 2
	}

	for i := 0; i < searchLimit; i++ {
		names := make(map[string]bool, len(rows[i]))
		for _, cell := range rows[i] {
			if cell.Kind == types.CellString {
				names[cell.Text] = true
			}
		}

		found := true
		for _, col := range required {
			if !names[col] {
				found = false
				break
			}
		}
		if found {
			return i
		}
	}

	return 0
}
