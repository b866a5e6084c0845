package register

import (
	"io"
	"strconv"

	"fjacquet/charity-mergers/internal/common"
	"fjacquet/charity-mergers/internal/dateutils"
	"fjacquet/charity-mergers/internal/logging"
	"fjacquet/charity-mergers/internal/models"
)

// IdentifiedRow is one line of the identified register output.
type IdentifiedRow struct {
	Transferor          string `csv:"transferor"`
	TransferorKind      string `csv:"transferor_kind"`
	TransferorID        string `csv:"transferor_id"`
	Transferee          string `csv:"transferee"`
	TransfereeKind      string `csv:"transferee_kind"`
	TransfereeID        string `csv:"transferee_id"`
	DateVesting         string `csv:"date_vesting"`
	DateTransferred     string `csv:"date_transferred"`
	DateRegistered      string `csv:"date_registered"`
	RegistrationGapDays string `csv:"registration_gap_days"`
}

// ToIdentifiedRows flattens identified mergers into output rows.
func ToIdentifiedRows(mergers []models.IdentifiedMerger) []IdentifiedRow {
	rows := make([]IdentifiedRow, len(mergers))
	for i, m := range mergers {
		gap := ""
		if days, ok := m.RegistrationGapDays(); ok {
			gap = strconv.Itoa(days)
		}
		rows[i] = IdentifiedRow{
			Transferor:          m.Transferor,
			TransferorKind:      string(m.TransferorID.Kind),
			TransferorID:        m.TransferorID.Label(),
			Transferee:          m.Transferee,
			TransfereeKind:      string(m.TransfereeID.Kind),
			TransfereeID:        m.TransfereeID.Label(),
			DateVesting:         dateutils.ToISODate(m.DateVesting),
			DateTransferred:     dateutils.ToISODate(m.DateTransferred),
			DateRegistered:      dateutils.ToISODate(m.DateRegistered),
			RegistrationGapDays: gap,
		}
	}
	return rows
}

// WriteIdentified writes the identified register as CSV to w.
func WriteIdentified(w io.Writer, mergers []models.IdentifiedMerger, delim rune) error {
	return common.WriteCSV(w, ToIdentifiedRows(mergers), delim)
}

// WriteIdentifiedFile writes the identified register to path.
func WriteIdentifiedFile(path string, mergers []models.IdentifiedMerger, delim rune, logger logging.Logger) error {
	return common.WriteCSVFile(path, ToIdentifiedRows(mergers), delim, logger)
}
