// Package common provides the CSV plumbing shared by the output writers.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fjacquet/charity-mergers/internal/logging"
	"fjacquet/charity-mergers/internal/models"

	"github.com/gocarina/gocsv"
)

// NewCSVWriter returns a csv.Writer using delim as the field separator.
func NewCSVWriter(w io.Writer, delim rune) *csv.Writer {
	csvWriter := csv.NewWriter(w)
	if delim != 0 {
		csvWriter.Comma = delim
	}
	return csvWriter
}

// WriteCSV marshals rows, with a header derived from their csv tags, to w.
func WriteCSV[TRow any](w io.Writer, rows []TRow, delim rune) error {
	if rows == nil {
		rows = []TRow{}
	}
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(NewCSVWriter(w, delim))); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteCSVFile writes rows to csvFile, creating parent directories.
func WriteCSVFile[TRow any](csvFile string, rows []TRow, delim rune, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger.Info("Writing CSV file",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(rows)},
		logging.Field{Key: logging.FieldDelimiter, Value: string(delim)})

	file, err := CreateOutputFile(csvFile)
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := WriteCSV(file, rows, delim); err != nil {
		logger.WithError(err).Error("Failed to marshal rows to CSV")
		return err
	}
	return nil
}

// ReadCSVFile reads a headed CSV file into a slice of structs using gocsv.
func ReadCSVFile[TRow any](filePath string, delim rune, logger logging.Logger) ([]TRow, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger.Debug("Reading CSV file", logging.Field{Key: logging.FieldFile, Value: filePath})

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	reader := csv.NewReader(file)
	if delim != 0 {
		reader.Comma = delim
	}

	var rows []TRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}
	return rows, nil
}

// CreateOutputFile creates path for writing, making parent directories first.
func CreateOutputFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return nil, fmt.Errorf("error creating directory: %w", err)
	}
	// #nosec G304 -- output path is chosen by the user on the command line
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, models.PermissionOutputFile)
	if err != nil {
		return nil, fmt.Errorf("error creating output file: %w", err)
	}
	return file, nil
}
