package join

import (
	"strconv"

	"fjacquet/charity-mergers/internal/common"
	"fjacquet/charity-mergers/internal/logging"

	"github.com/shopspring/decimal"
)

// JoinedCSVRow is the CSV form of a JoinedRow.
type JoinedCSVRow struct {
	Row           int    `csv:"row"`
	Side          string `csv:"side"`
	Transferor    string `csv:"transferor"`
	Transferee    string `csv:"transferee"`
	CharityNumber string `csv:"charity_number"`
	TransferYear  string `csv:"transfer_year"`
	FinancialYear string `csv:"financial_year"`
	Matched       bool   `csv:"matched"`
	Income        string `csv:"total_gross_income"`
	Expenditure   string `csv:"total_gross_expenditure"`
	TrusteeCount  string `csv:"trustee_count"`
}

// ImpactCSVRow is the CSV form of an ImpactRow.
type ImpactCSVRow struct {
	Row               int    `csv:"row"`
	Transferor        string `csv:"transferor"`
	Transferee        string `csv:"transferee"`
	CharityNumber     string `csv:"charity_number"`
	TransferYear      int    `csv:"transfer_year"`
	IncomeBefore      string `csv:"income_before"`
	IncomeAfter       string `csv:"income_after"`
	ExpenditureBefore string `csv:"expenditure_before"`
	ExpenditureAfter  string `csv:"expenditure_after"`
	IncomeChange      string `csv:"income_change"`
}

// ToJoinedCSVRows converts joined rows for CSV output. Unmatched values are
// left blank.
func ToJoinedCSVRows(rows []JoinedRow) []JoinedCSVRow {
	out := make([]JoinedCSVRow, len(rows))
	for i, r := range rows {
		out[i] = JoinedCSVRow{
			Row:           r.Row,
			Side:          string(r.Side),
			Transferor:    r.Transferor,
			Transferee:    r.Transferee,
			CharityNumber: r.CharityNumber,
			TransferYear:  optionalInt(r.TransferYear, r.TransferYear != 0),
			FinancialYear: optionalInt(r.FinancialYear, r.FinancialYear != 0),
			Matched:       r.Matched,
			TrusteeCount:  optionalInt(r.TrusteeCount, r.HasTrustees),
		}
		if r.Matched {
			out[i].Income = r.Income.StringFixed(2)
			out[i].Expenditure = r.Expenditure.StringFixed(2)
		}
	}
	return out
}

// ToImpactCSVRows converts impact rows for CSV output.
func ToImpactCSVRows(rows []ImpactRow) []ImpactCSVRow {
	out := make([]ImpactCSVRow, len(rows))
	for i, r := range rows {
		out[i] = ImpactCSVRow{
			Row:               r.Row,
			Transferor:        r.Transferor,
			Transferee:        r.Transferee,
			CharityNumber:     r.CharityNumber,
			TransferYear:      r.TransferYear,
			IncomeBefore:      optionalDecimal(r.IncomeBefore),
			IncomeAfter:       optionalDecimal(r.IncomeAfter),
			ExpenditureBefore: optionalDecimal(r.ExpenditureBefore),
			ExpenditureAfter:  optionalDecimal(r.ExpenditureAfter),
			IncomeChange:      optionalDecimal(r.IncomeChange),
		}
	}
	return out
}

// WriteJoinedFile writes joined rows to path.
func WriteJoinedFile(path string, rows []JoinedRow, delim rune, logger logging.Logger) error {
	return common.WriteCSVFile(path, ToJoinedCSVRows(rows), delim, logger)
}

// WriteImpactFile writes impact rows to path.
func WriteImpactFile(path string, rows []ImpactRow, delim rune, logger logging.Logger) error {
	return common.WriteCSVFile(path, ToImpactCSVRows(rows), delim, logger)
}

func optionalInt(v int, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.Itoa(v)
}

func optionalDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}
