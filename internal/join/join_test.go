package join

import (
	"path/filepath"
	"testing"
	"time"

	"fjacquet/charity-mergers/internal/common"
	"fjacquet/charity-mergers/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ret(number string, year int, income, expenditure int64) models.AnnualReturn {
	return models.AnnualReturn{
		CharityNumber: number,
		PeriodEnd:     time.Date(year, time.March, 31, 0, 0, 0, 0, time.UTC),
		FinancialYear: year,
		Income:        decimal.NewFromInt(income),
		Expenditure:   decimal.NewFromInt(expenditure),
	}
}

func merger(row int, transferor, transferee models.CharityIdentity, transferred time.Time) models.IdentifiedMerger {
	return models.IdentifiedMerger{
		MergerRecord: models.MergerRecord{
			Row:             row,
			Transferor:      "from " + transferor.Label(),
			Transferee:      "to " + transferee.Label(),
			DateTransferred: transferred,
		},
		TransferorID: transferor,
		TransfereeID: transferee,
	}
}

func sampleIndex() *ReturnsIndex {
	return NewReturnsIndex([]models.AnnualReturn{
		ret("1053467", 2018, 100, 90),
		ret("1053467", 2019, 110, 95),
		ret("1053467", 2020, 150, 120),
		ret("1170369-1", 2019, 20, 10),
	})
}

func TestReturnsIndex_Lookup(t *testing.T) {
	ix := sampleIndex()
	assert.Equal(t, 4, ix.Len())

	ar, ok := ix.Lookup(models.Registered("1053467"), 2019)
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(110).Equal(ar.Income))

	_, ok = ix.Lookup(models.Registered("1053467"), 2021)
	assert.False(t, ok)

	_, ok = ix.Lookup(models.Registered("1053467"), 0)
	assert.False(t, ok)
}

func TestReturnsIndex_EquivalentNumbers(t *testing.T) {
	ix := NewReturnsIndex([]models.AnnualReturn{ret("1170369.1", 2019, 20, 10)})

	for _, number := range []string{"1170369-1", "1170369.1", "1170369/1"} {
		_, ok := ix.Lookup(models.Registered(number), 2019)
		assert.True(t, ok, number)
	}
}

func TestReturnsIndex_NeverMatchesUnregistered(t *testing.T) {
	ix := NewReturnsIndex([]models.AnnualReturn{
		ret("exempt", 2019, 1, 1),
		ret("some text", 2019, 1, 1),
	})

	_, ok := ix.Lookup(models.Classified(models.CategoryExempt), 2019)
	assert.False(t, ok)
	_, ok = ix.Lookup(models.Unknown("some text"), 2019)
	assert.False(t, ok)
}

func TestReturnsIndex_KeepsLatestPeriodInYear(t *testing.T) {
	early := ret("1053467", 2019, 1, 1)
	early.PeriodEnd = time.Date(2019, time.January, 31, 0, 0, 0, 0, time.UTC)
	late := ret("1053467", 2019, 2, 2)
	late.PeriodEnd = time.Date(2019, time.December, 31, 0, 0, 0, 0, time.UTC)

	for _, order := range [][]models.AnnualReturn{{early, late}, {late, early}} {
		ix := NewReturnsIndex(order)
		ar, ok := ix.Lookup(models.Registered("1053467"), 2019)
		require.True(t, ok)
		assert.True(t, decimal.NewFromInt(2).Equal(ar.Income))
	}
}

func TestJoinReturns(t *testing.T) {
	ix := sampleIndex()
	transfer := time.Date(2019, time.June, 1, 0, 0, 0, 0, time.UTC)
	mergers := []models.IdentifiedMerger{
		merger(2, models.Registered("1170369.1"), models.Registered("1053467"), transfer),
		merger(3, models.Classified(models.CategoryExempt), models.Unknown("x"), transfer),
		merger(4, models.Registered("1053467"), models.Registered("1053467"), time.Time{}),
	}

	tests := []struct {
		name        string
		side        models.Side
		offset      int
		matched     []bool
		firstIncome int64
	}{
		{"transferee same year", models.SideTransferee, 0, []bool{true, false, false}, 110},
		{"transferee next year", models.SideTransferee, 1, []bool{true, false, false}, 150},
		{"transferor same year", models.SideTransferor, 0, []bool{true, false, false}, 20},
		{"transferee two years on", models.SideTransferee, 2, []bool{false, false, false}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := JoinReturns(mergers, ix, tt.side, tt.offset)
			require.Len(t, rows, len(mergers))
			for i, row := range rows {
				assert.Equal(t, tt.matched[i], row.Matched, "row %d", i)
				assert.Equal(t, tt.side, row.Side)
			}
			if tt.matched[0] {
				assert.True(t, decimal.NewFromInt(tt.firstIncome).Equal(rows[0].Income))
				assert.Equal(t, 2019+tt.offset, rows[0].FinancialYear)
			}
			assert.Empty(t, rows[1].CharityNumber)
			assert.Equal(t, 0, rows[2].FinancialYear)
		})
	}
}

func TestTrusteeCounts(t *testing.T) {
	counts := TrusteeCounts([]models.Trustee{
		{CharityNumber: "1053467", Name: "A"},
		{CharityNumber: "1053467", Name: "B"},
		{CharityNumber: "1170369-1", Name: "C"},
		{CharityNumber: "", Name: "D"},
	})

	n, ok := counts.Count(models.Registered("1053467"))
	require.True(t, ok)
	assert.Equal(t, 2, n)

	n, ok = counts.Count(models.Registered("1170369.1"))
	require.True(t, ok)
	assert.Equal(t, 1, n)

	_, ok = counts.Count(models.Unknown("1053467"))
	assert.False(t, ok)
}

func TestAttachTrusteeCounts(t *testing.T) {
	rows := []JoinedRow{
		{CharityNumber: "1053467"},
		{CharityNumber: "9999999"},
		{CharityNumber: ""},
	}
	AttachTrusteeCounts(rows, TrusteeIndex{"1053467": 3})

	assert.True(t, rows[0].HasTrustees)
	assert.Equal(t, 3, rows[0].TrusteeCount)
	assert.False(t, rows[1].HasTrustees)
	assert.False(t, rows[2].HasTrustees)
}

func TestFinancialImpact(t *testing.T) {
	ix := sampleIndex()
	mergers := []models.IdentifiedMerger{
		merger(2, models.Unknown("a"), models.Registered("1053467"), time.Date(2019, time.May, 1, 0, 0, 0, 0, time.UTC)),
		merger(3, models.Unknown("b"), models.Registered("1053467"), time.Date(2020, time.May, 1, 0, 0, 0, 0, time.UTC)),
		merger(4, models.Unknown("c"), models.Classified(models.CategoryExempt), time.Date(2019, time.May, 1, 0, 0, 0, 0, time.UTC)),
		merger(5, models.Unknown("d"), models.Registered("1053467"), time.Time{}),
	}

	rows := FinancialImpact(mergers, ix)
	require.Len(t, rows, 2)

	full := rows[0]
	assert.Equal(t, 2019, full.TransferYear)
	require.True(t, full.IncomeBefore.Valid)
	require.True(t, full.IncomeAfter.Valid)
	assert.True(t, decimal.NewFromInt(100).Equal(full.IncomeBefore.Decimal))
	assert.True(t, decimal.NewFromInt(150).Equal(full.IncomeAfter.Decimal))
	assert.True(t, decimal.NewFromInt(120).Equal(full.ExpenditureAfter.Decimal))
	require.True(t, full.IncomeChange.Valid)
	assert.True(t, decimal.NewFromInt(50).Equal(full.IncomeChange.Decimal))

	partial := rows[1]
	assert.True(t, partial.IncomeBefore.Valid)
	assert.False(t, partial.IncomeAfter.Valid)
	assert.False(t, partial.ExpenditureAfter.Valid)
	assert.False(t, partial.IncomeChange.Valid)
}

func TestToCSVRows(t *testing.T) {
	joined := ToJoinedCSVRows([]JoinedRow{
		{Row: 2, Side: models.SideTransferee, CharityNumber: "1", TransferYear: 2019, FinancialYear: 2019,
			Matched: true, Income: decimal.RequireFromString("10.5"), Expenditure: decimal.NewFromInt(3), TrusteeCount: 4, HasTrustees: true},
		{Row: 3, Side: models.SideTransferee},
	})
	assert.Equal(t, "10.50", joined[0].Income)
	assert.Equal(t, "3.00", joined[0].Expenditure)
	assert.Equal(t, "4", joined[0].TrusteeCount)
	assert.Equal(t, "2019", joined[0].FinancialYear)
	assert.Empty(t, joined[1].Income)
	assert.Empty(t, joined[1].TransferYear)
	assert.Empty(t, joined[1].TrusteeCount)

	impact := ToImpactCSVRows([]ImpactRow{{
		Row:          2,
		IncomeBefore: decimal.NewNullDecimal(decimal.NewFromInt(7)),
	}})
	assert.Equal(t, "7.00", impact[0].IncomeBefore)
	assert.Empty(t, impact[0].IncomeAfter)
	assert.Empty(t, impact[0].IncomeChange)
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	joinedPath := filepath.Join(dir, "joined.csv")
	impactPath := filepath.Join(dir, "impact.csv")

	require.NoError(t, WriteJoinedFile(joinedPath, []JoinedRow{{Row: 2, Side: models.SideTransferor}}, ',', nil))
	require.NoError(t, WriteImpactFile(impactPath, []ImpactRow{{Row: 2, CharityNumber: "1", TransferYear: 2020}}, ',', nil))

	joined, err := common.ReadCSVFile[JoinedCSVRow](joinedPath, ',', nil)
	require.NoError(t, err)
	require.Len(t, joined, 1)
	assert.Equal(t, "transferor", joined[0].Side)

	impact, err := common.ReadCSVFile[ImpactCSVRow](impactPath, ',', nil)
	require.NoError(t, err)
	require.Len(t, impact, 1)
	assert.Equal(t, 2020, impact[0].TransferYear)
}
