package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Course", "Lecturer", "Attendance %"},
		Rows: []map[string]string{
			{"Course": "Data Structures", "Lecturer": "John Lecturer", "Attendance %": "79"},
			{"Course": "=HYPERLINK(\"x\")", "Lecturer": "Jane, PhD", "Attendance %": "-5"},
		},
		GeneratedAt: time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC),
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Course", "Lecturer", "Attendance %"}, records[0])
	assert.Equal(t, []string{"Data Structures", "John Lecturer", "79"}, records[1])
	assert.Equal(t, "'=HYPERLINK(\"x\")", records[2][0])
	assert.Equal(t, "Jane, PhD", records[2][1])
	assert.Equal(t, "-5", records[2][2])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestNeutraliseFormula(t *testing.T) {
	cases := map[string]string{
		"":        "",
		"plain":   "plain",
		"+12.5":   "+12.5",
		"-":       "'-",
		"@SUM(1)": "'@SUM(1)",
		"-1+2":    "'-1+2",
	}
	for in, want := range cases {
		assert.Equal(t, want, neutraliseFormula(in), in)
	}
}

func TestPDFExporterRender(t *testing.T) {
	data := sampleDataset()
	for i := 0; i < 60; i++ {
		data.Rows = append(data.Rows, map[string]string{"Course": strings.Repeat("Long course title ", 8), "Lecturer": "L", "Attendance %": "50"})
	}
	out, err := NewPDFExporter().Render(data, "Lecture Reports")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewPDFExporter().Render(Dataset{}, "")
	assert.Error(t, err)
}

func TestPDFExporterRendersEmptyDataset(t *testing.T) {
	out, err := NewPDFExporter().Render(Dataset{Headers: []string{"Course"}}, "")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestFitText(t *testing.T) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "", 8)

	assert.Equal(t, "short", fitText(pdf, "short", 50))

	long := strings.Repeat("x", 200)
	clipped := fitText(pdf, long, 20)
	assert.True(t, strings.HasSuffix(clipped, "..."))
	assert.LessOrEqual(t, pdf.GetStringWidth(clipped), 20-pdfCellMargin)
}
