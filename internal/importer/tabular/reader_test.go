package tabular

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperr "github.com/yungbote/netinv-backend/internal/pkg/errors"
)

func TestDetectFormat(t *testing.T) {
	for name, want := range map[string]Format{"a.csv": FormatCSV, "B.XLSX": FormatXLSX, "c.xlsm": FormatXLSX} {
		got, err := DetectFormat(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
	_, err := DetectFormat("report.pdf")
	if !errors.Is(err, apperr.ErrUnsupportedFormat) {
		t.Fatalf("DetectFormat(pdf): want ErrUnsupportedFormat got=%v", err)
	}
}

func TestReadWorkbookCSVSemicolonLatin1(t *testing.T) {
	// "Béjaïa" encoded as ISO-8859-1.
	raw := []byte("commune_id;commune_name;wilaya_name\r\n601;B\xe9ja\xefa;B\xe9ja\xefa\r\n")
	sheets, err := ReadWorkbook("communes.csv", bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	require.Len(t, sheets[0].Cells, 2)
	assert.Equal(t, []string{"601", "Béjaïa", "Béjaïa"}, sheets[0].Cells[1])
}

func TestReadWorkbookCSVStripsBOM(t *testing.T) {
	raw := "\xEF\xBB\xBFname,extra\nCentre,x\n"
	sheets, err := ReadWorkbook("regions.csv", strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "name", sheets[0].Cells[0][0])
}

func TestReadWorkbookXLSX(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet("4G")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"cell", "band"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"ALG001_1", 900}))
	require.NoError(t, f.SetSheetRow("4G", "A1", &[]any{"cell", "pci"}))
	require.NoError(t, f.SetSheetRow("4G", "A2", &[]any{"ALG001_4", 301}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	sheets, err := ReadWorkbook("cells.xlsx", &buf)
	require.NoError(t, err)
	require.Len(t, sheets, 2)
	assert.Equal(t, "Sheet1", sheets[0].Name)
	assert.Equal(t, []string{"ALG001_1", "900"}, sheets[0].Cells[1])
	assert.Equal(t, "4G", sheets[1].Name)
	assert.Equal(t, "301", sheets[1].Cells[1][1])
}
