package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	apperr "github.com/yungbote/netinv-backend/internal/pkg/errors"
)

// Sheet is one raw grid of cells. Cells[0] is the header line.
type Sheet struct {
	Name  string
	Cells [][]string
}

func (s Sheet) Empty() bool {
	if len(s.Cells) < 2 {
		return true
	}
	for _, line := range s.Cells[1:] {
		if !blankLine(line) {
			return false
		}
	}
	return true
}

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks the reader from the upload's file extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(filename))) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q (use .csv or .xlsx)", apperr.ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// ReadWorkbook parses every sheet of an xlsx upload, or the single grid of a
// csv upload.
func ReadWorkbook(filename string, r io.Reader) ([]Sheet, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatXLSX:
		return readXLSX(r)
	default:
		sheet, err := readCSV(r)
		if err != nil {
			return nil, err
		}
		return []Sheet{sheet}, nil
	}
}

func readXLSX(r io.Reader) ([]Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	out := make([]Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		out = append(out, Sheet{Name: name, Cells: rows})
	}
	return out, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readCSV(r io.Reader) (Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Sheet{}, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	text, err := decodeText(data)
	if err != nil {
		return Sheet{}, err
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = sniffDelimiter(text)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return Sheet{}, fmt.Errorf("parse csv: %w", err)
	}
	return Sheet{Cells: records}, nil
}

// decodeText keeps valid UTF-8 as-is and otherwise assumes Latin-1, the
// encoding legacy spreadsheet exports use.
func decodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	text, err := charmap.ISO8859_1.NewDecoder().String(string(data))
	if err != nil {
		return "", fmt.Errorf("decode csv as latin-1: %w", err)
	}
	return text, nil
}

func sniffDelimiter(text string) rune {
	first := text
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		first = text[:i]
	}
	if strings.Count(first, ";") > strings.Count(first, ",") {
		return ';'
	}
	return ','
}

func blankLine(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
