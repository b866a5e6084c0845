// Package register reads the public register of merged charities and writes
// the identified register.
package register

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"fjacquet/charity-mergers/internal/dateutils"
	"fjacquet/charity-mergers/internal/identity"
	"fjacquet/charity-mergers/internal/logging"
	"fjacquet/charity-mergers/internal/models"
	"fjacquet/charity-mergers/internal/parsererror"
	"fjacquet/charity-mergers/internal/textutils"

	"github.com/gocarina/gocsv"
)

// The register has five positional columns. Header text differs between
// releases, so columns are never looked up by name.
const registerColumns = 5

var columnNames = [registerColumns]string{
	"transferor",
	"transferee",
	"date_vesting",
	"date_transferred",
	"date_registered",
}

// registerRow maps the positional columns in declaration order.
type registerRow struct {
	Transferor      string `csv:"transferor"`
	Transferee      string `csv:"transferee"`
	DateVesting     string `csv:"date_vesting"`
	DateTransferred string `csv:"date_transferred"`
	DateRegistered  string `csv:"date_registered"`
}

// Options configures how the register file is decoded.
type Options struct {
	Encoding   string
	DateFormat string
}

// Reader parses register files and identifies both parties of each merger.
type Reader struct {
	extractor  *identity.Extractor
	encoding   string
	dateLayout string
	logger     logging.Logger
}

// NewReader creates a Reader. Empty options mean cp1252 and DD/MM/YYYY.
func NewReader(extractor *identity.Extractor, opts Options, logger logging.Logger) *Reader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if opts.Encoding == "" {
		opts.Encoding = textutils.EncodingCP1252
	}
	if opts.DateFormat == "" {
		opts.DateFormat = "DD/MM/YYYY"
	}
	return &Reader{
		extractor:  extractor,
		encoding:   opts.Encoding,
		dateLayout: dateutils.LayoutFromPattern(opts.DateFormat),
		logger:     logger,
	}
}

// ReadFile reads and identifies the register at path.
func (r *Reader) ReadFile(path string) ([]models.IdentifiedMerger, error) {
	r.logger.Info("Reading merger register",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldEncoding, Value: r.encoding})

	// #nosec G304 -- input path is chosen by the user on the command line
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening register: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			r.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	mergers, err := r.Read(file, path)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Identified merger register",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(mergers)})
	return mergers, nil
}

// Read parses a register from src and identifies both parties.
// source names the input in errors and logs.
func (r *Reader) Read(src io.Reader, source string) ([]models.IdentifiedMerger, error) {
	records, err := r.ReadRecords(src, source)
	if err != nil {
		return nil, err
	}
	return Identify(r.extractor, records), nil
}

// ReadRecords parses a register from src without identifying the parties.
func (r *Reader) ReadRecords(src io.Reader, source string) ([]models.MergerRecord, error) {
	decoded, err := textutils.NewDecodingReader(src, r.encoding)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(decoded)
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	header, err := csvReader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &parsererror.InvalidFormatError{
				FilePath:       source,
				ExpectedFormat: "merger register CSV",
				Msg:            "file is empty",
			}
		}
		return nil, fmt.Errorf("error reading register header: %w", err)
	}
	if len(header) < registerColumns {
		return nil, &parsererror.InvalidFormatError{
			FilePath:             source,
			ExpectedFormat:       "merger register CSV",
			ActualContentSnippet: strings.Join(header, ","),
			Msg:                  fmt.Sprintf("expected %d columns, found %d", registerColumns, len(header)),
		}
	}

	records := &fixedWidthReader{reader: csvReader, width: registerColumns}
	var rows []registerRow
	if err := gocsv.UnmarshalCSVWithoutHeaders(records, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []models.MergerRecord{}, nil
		}
		return nil, fmt.Errorf("error parsing register: %w", err)
	}

	out := make([]models.MergerRecord, 0, len(rows))
	for i, row := range rows {
		line := records.line(i)
		record, err := r.toRecord(row, line, source)
		if err != nil {
			return nil, err
		}
		if record.Transferor == "" && record.Transferee == "" {
			r.logger.Warn("Skipping register row without names",
				logging.Field{Key: logging.FieldFile, Value: source},
				logging.Field{Key: logging.FieldRow, Value: line})
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

func (r *Reader) toRecord(row registerRow, line int, source string) (models.MergerRecord, error) {
	record := models.MergerRecord{
		Row:        line,
		Transferor: strings.TrimSpace(row.Transferor),
		Transferee: strings.TrimSpace(row.Transferee),
	}

	dates := []struct {
		column int
		value  string
		target *time.Time
	}{
		{2, row.DateVesting, &record.DateVesting},
		{3, row.DateTransferred, &record.DateTransferred},
		{4, row.DateRegistered, &record.DateRegistered},
	}
	for _, d := range dates {
		parsed, err := dateutils.ParseOptional(d.value, r.dateLayout)
		if err != nil {
			return models.MergerRecord{}, &parsererror.ParseError{
				Source: source,
				Row:    line,
				Field:  columnNames[d.column],
				Value:  d.value,
				Err:    err,
			}
		}
		*d.target = parsed
	}
	return record, nil
}

// Identify derives the identities of both parties of every record.
func Identify(extractor *identity.Extractor, records []models.MergerRecord) []models.IdentifiedMerger {
	out := make([]models.IdentifiedMerger, len(records))
	for i, record := range records {
		out[i] = models.IdentifiedMerger{
			MergerRecord: record,
			TransferorID: extractor.Extract(record.Transferor),
			TransfereeID: extractor.Extract(record.Transferee),
		}
	}
	return out
}

// fixedWidthReader pads or truncates every record to width fields so that
// trailing empty or extra cells do not shift the positional mapping. It also
// records the file line each record starts on.
type fixedWidthReader struct {
	reader *csv.Reader
	width  int
	lines  []int
}

func (f *fixedWidthReader) Read() ([]string, error) {
	record, err := f.reader.Read()
	if err != nil {
		return nil, err
	}
	line, _ := f.reader.FieldPos(0)
	f.lines = append(f.lines, line)
	if len(record) > f.width {
		return record[:f.width], nil
	}
	for len(record) < f.width {
		record = append(record, "")
	}
	return record, nil
}

// line returns the file line of the i-th record read, counting the header as
// line 1.
func (f *fixedWidthReader) line(i int) int {
	if i < len(f.lines) {
		return f.lines[i]
	}
	return i + 2
}

func (f *fixedWidthReader) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		record, err := f.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}
