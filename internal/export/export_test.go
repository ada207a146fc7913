package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/julianstephens/smallwins/internal/calendar"
	"github.com/julianstephens/smallwins/internal/models"
)

func sample() []models.WinRecord {
	return []models.WinRecord{
		{ID: "01HXA", Date: calendar.New(2024, time.May, 14), Text: "ran 5k", Timestamp: time.Date(2024, time.May, 14, 7, 0, 0, 0, time.UTC)},
		{ID: "01HXB", Date: calendar.New(2024, time.May, 15), Text: "fixed the \"flaky\" test, finally", Timestamp: time.Date(2024, time.May, 15, 19, 0, 0, 0, time.UTC)},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name, out string
		want      Format
		wantErr   bool
	}{
		{"json", "", FormatJSON, false},
		{"CSV", "", FormatCSV, false},
		{"", "wins.xlsx", FormatXLSX, false},
		{"", "wins.JSON", FormatJSON, false},
		{"", "wins", "", true},
		{"pdf", "wins.pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.name, tt.out)
		if tt.wantErr {
			assert.Error(t, err, "%s %s", tt.name, tt.out)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sample()))

	var got []models.WinRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sample(), got)
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, nil))
	assert.JSONEq(t, "[]", buf.String())
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sample()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, header, records[0])
	assert.Equal(t, []string{"01HXB", "2024-05-15", "fixed the \"flaky\" test, finally", "2024-05-15T19:00:00Z"}, records[2])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, sample()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, header, rows[0])
	assert.Equal(t, "ran 5k", rows[1][2])
	assert.Equal(t, "2024-05-15", rows[2][1])
}

func TestWriteUnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, Format("yaml"), sample()))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wins.csv")
	require.NoError(t, WriteFile(path, FormatCSV, sample()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ran 5k")

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
