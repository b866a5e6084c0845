// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"

	internalcommon "fjacquet/charity-mergers/internal/common"
	"fjacquet/charity-mergers/internal/container"
	"fjacquet/charity-mergers/internal/fileutils"
	"fjacquet/charity-mergers/internal/logging"
	"fjacquet/charity-mergers/internal/models"
)

// ReadRegister checks the --input flag and reads the identified register.
func ReadRegister(c *container.Container, input string, log logging.Logger) ([]models.IdentifiedMerger, error) {
	if err := fileutils.RequireFile("input", input); err != nil {
		return nil, err
	}
	mergers, err := c.GetRegisterReader().ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("error reading register: %w", err)
	}
	log.Debug("Register loaded",
		logging.Field{Key: logging.FieldInputFile, Value: input},
		logging.Field{Key: logging.FieldCount, Value: len(mergers)})
	return mergers, nil
}

// WriteRows writes CSV rows to path, or to out when path is empty.
func WriteRows[TRow any](out io.Writer, path string, rows []TRow, delim rune, log logging.Logger) error {
	if path == "" {
		return internalcommon.WriteCSV(out, rows, delim)
	}
	return internalcommon.WriteCSVFile(path, rows, delim, log)
}

// WriteBytes writes data to path, or to out when path is empty.
func WriteBytes(out io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := out.Write(data)
		return err
	}
	file, err := internalcommon.CreateOutputFile(path)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return file.Close()
}
