// Package annualreturn loads the regulator's annual-return and trustee
// extracts.
package annualreturn

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"fjacquet/charity-mergers/internal/dateutils"
	"fjacquet/charity-mergers/internal/logging"
	"fjacquet/charity-mergers/internal/models"
	"fjacquet/charity-mergers/internal/parsererror"
	"fjacquet/charity-mergers/internal/textutils"

	"github.com/shopspring/decimal"
)

// charityNumber accepts the numeric or quoted numbers found in the extracts.
type charityNumber string

func (n *charityNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = charityNumber(strings.TrimSpace(s))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	if _, err := strconv.ParseInt(num.String(), 10, 64); err != nil {
		return fmt.Errorf("charity number %s is not an integer", num)
	}
	*n = charityNumber(num.String())
	return nil
}

type annualReturnRecord struct {
	RegisteredNumber charityNumber   `json:"registered_charity_number"`
	LinkedNumber     charityNumber   `json:"linked_charity_number"`
	PeriodEnd        string          `json:"fin_period_end_date"`
	Income           decimal.Decimal `json:"total_gross_income"`
	Expenditure      decimal.Decimal `json:"total_gross_expenditure"`
}

type trusteeRecord struct {
	RegisteredNumber charityNumber `json:"registered_charity_number"`
	LinkedNumber     charityNumber `json:"linked_charity_number"`
	Name             string        `json:"trustee_name"`
}

// CharityKey builds the join key for a registered number and an optional
// linked subsidiary number. Linked number 0 denotes the main charity.
func CharityKey(registered, linked string) string {
	registered = strings.TrimSpace(registered)
	linked = strings.TrimSpace(linked)
	if linked == "" || linked == "0" {
		return registered
	}
	return registered + "-" + linked
}

// Loader reads the JSON extracts.
type Loader struct {
	logger logging.Logger
}

// NewLoader creates a Loader.
func NewLoader(logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Loader{logger: logger}
}

// LoadReturnsFile loads annual returns from path.
func (l *Loader) LoadReturnsFile(path string) ([]models.AnnualReturn, error) {
	var returns []models.AnnualReturn
	err := l.withFile(path, func(r io.Reader) error {
		var err error
		returns, err = l.LoadReturns(r, path)
		return err
	})
	return returns, err
}

// LoadTrusteesFile loads trustees from path.
func (l *Loader) LoadTrusteesFile(path string) ([]models.Trustee, error) {
	var trustees []models.Trustee
	err := l.withFile(path, func(r io.Reader) error {
		var err error
		trustees, err = l.LoadTrustees(r, path)
		return err
	})
	return trustees, err
}

// LoadReturns decodes an array of annual-return objects from r.
// Records without a registered number or period end are skipped.
func (l *Loader) LoadReturns(r io.Reader, source string) ([]models.AnnualReturn, error) {
	var returns []models.AnnualReturn
	skipped := 0
	err := decodeArray(r, source, func(index int, rec annualReturnRecord) error {
		if rec.RegisteredNumber == "" || strings.TrimSpace(rec.PeriodEnd) == "" {
			skipped++
			return nil
		}
		periodEnd, _, err := dateutils.ParseDate(rec.PeriodEnd)
		if err != nil {
			return &parsererror.ParseError{
				Source: source,
				Row:    index + 1,
				Field:  "fin_period_end_date",
				Value:  rec.PeriodEnd,
				Err:    err,
			}
		}
		returns = append(returns, models.AnnualReturn{
			CharityNumber: CharityKey(string(rec.RegisteredNumber), string(rec.LinkedNumber)),
			PeriodEnd:     periodEnd,
			FinancialYear: periodEnd.Year(),
			Income:        rec.Income,
			Expenditure:   rec.Expenditure,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("Loaded annual returns",
		logging.Field{Key: logging.FieldFile, Value: source},
		logging.Field{Key: logging.FieldCount, Value: len(returns)},
		logging.Field{Key: "skipped", Value: skipped})
	return returns, nil
}

// LoadTrustees decodes an array of trustee objects from r.
func (l *Loader) LoadTrustees(r io.Reader, source string) ([]models.Trustee, error) {
	var trustees []models.Trustee
	err := decodeArray(r, source, func(_ int, rec trusteeRecord) error {
		if rec.RegisteredNumber == "" {
			return nil
		}
		trustees = append(trustees, models.Trustee{
			CharityNumber: CharityKey(string(rec.RegisteredNumber), string(rec.LinkedNumber)),
			Name:          strings.TrimSpace(rec.Name),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("Loaded trustees",
		logging.Field{Key: logging.FieldFile, Value: source},
		logging.Field{Key: logging.FieldCount, Value: len(trustees)})
	return trustees, nil
}

func (l *Loader) withFile(path string, fn func(io.Reader) error) error {
	// #nosec G304 -- input path is chosen by the user on the command line
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			l.logger.WithError(err).Warn("Failed to close file")
		}
	}()
	return fn(file)
}

// decodeArray streams the elements of a top-level JSON array to fn.
func decodeArray[T any](r io.Reader, source string, fn func(int, T) error) error {
	decoded, err := textutils.NewDecodingReader(r, textutils.EncodingUTF8BOM)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(decoded)

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &parsererror.InvalidFormatError{FilePath: source, ExpectedFormat: "JSON array", Msg: "file is empty"}
		}
		return &parsererror.InvalidFormatError{FilePath: source, ExpectedFormat: "JSON array", Msg: err.Error()}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return &parsererror.InvalidFormatError{
			FilePath:             source,
			ExpectedFormat:       "JSON array",
			ActualContentSnippet: fmt.Sprintf("%v", tok),
			Msg:                  "top-level value is not an array",
		}
	}

	for index := 0; dec.More(); index++ {
		var rec T
		if err := dec.Decode(&rec); err != nil {
			return &parsererror.DataExtractionError{
				FilePath:  source,
				FieldName: "record",
				Index:     index,
				Reason:    err.Error(),
			}
		}
		if err := fn(index, rec); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return &parsererror.InvalidFormatError{FilePath: source, ExpectedFormat: "JSON array", Msg: "unterminated array"}
	}
	return nil
}
