package review

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/charity-mergers/internal/logging"
	"fjacquet/charity-mergers/internal/models"

	"github.com/xuri/excelize/v2"
)

var xlsxHeaders = []string{
	"kind", "label", "count", "example", "suggested_category", "suggestion_reason",
}

// WriteXLSXFile writes a workbook with one sheet per side.
func WriteXLSXFile(path string, entries []Entry, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	sides := []models.Side{models.SideTransferor, models.SideTransferee}
	for i, side := range sides {
		sheet := string(side)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("error naming sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("error creating sheet: %w", err)
		}
		writeSheet(f, sheet, filterSide(entries, side))
	}

	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("error saving workbook: %w", err)
	}

	logger.Info("Wrote review workbook",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(entries)})
	return nil
}

func writeSheet(f *excelize.File, sheet string, entries []Entry) {
	for i, h := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, e := range entries {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, string(e.Kind))
		set(2, e.Label)
		set(3, e.Count)
		set(4, e.Example)
		set(5, e.Suggestion)
		set(6, e.Reason)
	}
}

func filterSide(entries []Entry, side models.Side) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Side == side {
			out = append(out, e)
		}
	}
	return out
}
