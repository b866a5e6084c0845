// Package join matches identified mergers against annual returns and trustee
// lists by registered charity number.
package join

import (
	"fjacquet/charity-mergers/internal/models"
	"fjacquet/charity-mergers/internal/textutils"

	"github.com/shopspring/decimal"
)

type returnKey struct {
	number string
	year   int
}

// ReturnsIndex indexes annual returns by charity number and financial year.
// When a charity filed two returns ending in the same calendar year the one
// with the later period end is kept.
type ReturnsIndex struct {
	returns map[returnKey]models.AnnualReturn
}

// NewReturnsIndex builds an index over returns.
func NewReturnsIndex(returns []models.AnnualReturn) *ReturnsIndex {
	ix := &ReturnsIndex{returns: make(map[returnKey]models.AnnualReturn, len(returns))}
	for _, ar := range returns {
		key := returnKey{number: normalizeNumber(ar.CharityNumber), year: ar.FinancialYear}
		if existing, ok := ix.returns[key]; ok && !ar.PeriodEnd.After(existing.PeriodEnd) {
			continue
		}
		ix.returns[key] = ar
	}
	return ix
}

// Len returns the number of indexed (number, year) pairs.
func (ix *ReturnsIndex) Len() int {
	return len(ix.returns)
}

// Lookup returns the return filed by the charity identified by id for year.
// Only registered identities can match.
func (ix *ReturnsIndex) Lookup(id models.CharityIdentity, year int) (models.AnnualReturn, bool) {
	number, ok := id.JoinKey()
	if !ok || year == 0 {
		return models.AnnualReturn{}, false
	}
	ar, ok := ix.returns[returnKey{number: normalizeNumber(number), year: year}]
	return ar, ok
}

// JoinedRow is one merger with the annual return of one of its parties.
type JoinedRow struct {
	Row           int
	Side          models.Side
	Transferor    string
	Transferee    string
	CharityNumber string
	TransferYear  int
	FinancialYear int
	Matched       bool
	Income        decimal.Decimal
	Expenditure   decimal.Decimal
	TrusteeCount  int
	HasTrustees   bool
}

// JoinReturns pairs every merger with the annual return of side filed in the
// transfer year plus yearOffset. Mergers without a match are kept with
// Matched false.
func JoinReturns(mergers []models.IdentifiedMerger, ix *ReturnsIndex, side models.Side, yearOffset int) []JoinedRow {
	rows := make([]JoinedRow, 0, len(mergers))
	for _, m := range mergers {
		id := m.Identity(side)
		row := JoinedRow{
			Row:          m.Row,
			Side:         side,
			Transferor:   m.Transferor,
			Transferee:   m.Transferee,
			TransferYear: m.TransferYear(),
		}
		if number, ok := id.JoinKey(); ok {
			row.CharityNumber = number
		}
		if row.TransferYear != 0 {
			row.FinancialYear = row.TransferYear + yearOffset
			if ar, ok := ix.Lookup(id, row.FinancialYear); ok {
				row.Matched = true
				row.Income = ar.Income
				row.Expenditure = ar.Expenditure
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// TrusteeIndex counts trustees per normalized charity number.
type TrusteeIndex map[string]int

// TrusteeCounts aggregates trustees by charity number.
func TrusteeCounts(trustees []models.Trustee) TrusteeIndex {
	counts := make(TrusteeIndex)
	for _, t := range trustees {
		if t.CharityNumber == "" {
			continue
		}
		counts[normalizeNumber(t.CharityNumber)]++
	}
	return counts
}

// Count returns the number of trustees of a registered identity.
func (t TrusteeIndex) Count(id models.CharityIdentity) (int, bool) {
	number, ok := id.JoinKey()
	if !ok {
		return 0, false
	}
	n, ok := t[normalizeNumber(number)]
	return n, ok
}

// AttachTrusteeCounts fills the trustee count of every row whose charity has
// trustees on file.
func AttachTrusteeCounts(rows []JoinedRow, counts TrusteeIndex) {
	for i := range rows {
		if rows[i].CharityNumber == "" {
			continue
		}
		if n, ok := counts.Count(models.Registered(rows[i].CharityNumber)); ok {
			rows[i].TrusteeCount = n
			rows[i].HasTrustees = true
		}
	}
}

// ImpactRow compares the transferee's finances around a transfer.
// Null values mean no return was filed for that year.
type ImpactRow struct {
	Row               int
	Transferor        string
	Transferee        string
	CharityNumber     string
	TransferYear      int
	IncomeBefore      decimal.NullDecimal
	IncomeAfter       decimal.NullDecimal
	ExpenditureBefore decimal.NullDecimal
	ExpenditureAfter  decimal.NullDecimal
	IncomeChange      decimal.NullDecimal
}

// FinancialImpact reports, for every merger with a registered transferee and
// a transfer date, the transferee's income and expenditure in the financial
// years before and after the transfer.
func FinancialImpact(mergers []models.IdentifiedMerger, ix *ReturnsIndex) []ImpactRow {
	var rows []ImpactRow
	for _, m := range mergers {
		number, ok := m.TransfereeID.JoinKey()
		year := m.TransferYear()
		if !ok || year == 0 {
			continue
		}
		row := ImpactRow{
			Row:           m.Row,
			Transferor:    m.Transferor,
			Transferee:    m.Transferee,
			CharityNumber: number,
			TransferYear:  year,
		}
		if before, ok := ix.Lookup(m.TransfereeID, year-1); ok {
			row.IncomeBefore = decimal.NewNullDecimal(before.Income)
			row.ExpenditureBefore = decimal.NewNullDecimal(before.Expenditure)
		}
		if after, ok := ix.Lookup(m.TransfereeID, year+1); ok {
			row.IncomeAfter = decimal.NewNullDecimal(after.Income)
			row.ExpenditureAfter = decimal.NewNullDecimal(after.Expenditure)
		}
		if row.IncomeBefore.Valid && row.IncomeAfter.Valid {
			row.IncomeChange = decimal.NewNullDecimal(row.IncomeAfter.Decimal.Sub(row.IncomeBefore.Decimal))
		}
		rows = append(rows, row)
	}
	return rows
}

func normalizeNumber(number string) string {
	return textutils.NormalizeSeparators(number)
}
