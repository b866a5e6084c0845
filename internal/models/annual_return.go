package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnnualReturn is one financial period filed by a registered charity.
type AnnualReturn struct {
	CharityNumber string
	PeriodEnd     time.Time
	FinancialYear int
	Income        decimal.Decimal
	Expenditure   decimal.Decimal
}

// Trustee is one trustee of a registered charity.
type Trustee struct {
	CharityNumber string
	Name          string
}
