// Package export writes the win history as JSON, CSV or an Excel workbook.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/julianstephens/smallwins/internal/models"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"

	// SheetName is the default sheet of a new workbook
	SheetName = "Sheet1"
)

var header = []string{"id", "date", "text", "timestamp"}

// ParseFormat validates a format name. An empty name is inferred from the
// output file extension.
func ParseFormat(name, outPath string) (Format, error) {
	if name == "" {
		name = strings.TrimPrefix(strings.ToLower(filepath.Ext(outPath)), ".")
	}
	switch f := Format(strings.ToLower(name)); f {
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q (expected json, csv or xlsx)", name)
}

// Write encodes wins to w in the given format.
func Write(w io.Writer, format Format, wins []models.WinRecord) error {
	if wins == nil {
		wins = []models.WinRecord{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(wins)
	case FormatCSV:
		return writeCSV(w, wins)
	case FormatXLSX:
		return writeXLSX(w, wins)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteFile exports wins to path, replacing any existing file.
func WriteFile(path string, format Format, wins []models.WinRecord) error {
	tempPath := path + ".tmp"
	f, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if err := Write(f, format, wins); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}
	return os.Rename(tempPath, path)
}

func row(w models.WinRecord) []string {
	return []string{w.ID, w.Date.String(), w.Text, w.Timestamp.Format(time.RFC3339)}
}

func writeCSV(w io.Writer, wins []models.WinRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, win := range wins {
		if err := cw.Write(row(win)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, wins []models.WinRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	for i, win := range wins {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row(win)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetName, "C", "C", 60); err != nil {
		return err
	}
	_, err := f.WriteTo(w)
	return err
}
