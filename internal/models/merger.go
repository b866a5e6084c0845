package models

import "time"

// Side selects the transferor or transferee half of a merger.
type Side string

const (
	SideTransferor Side = "transferor"
	SideTransferee Side = "transferee"
)

// ParseSide validates a side name.
func ParseSide(s string) (Side, bool) {
	switch Side(s) {
	case SideTransferor, SideTransferee:
		return Side(s), true
	}
	return "", false
}

// MergerRecord is one row of the register of merged charities.
// Zero dates mean the register left the cell blank.
type MergerRecord struct {
	Row             int
	Transferor      string
	Transferee      string
	DateVesting     time.Time
	DateTransferred time.Time
	DateRegistered  time.Time
}

// IdentifiedMerger is a MergerRecord with identities derived for both parties.
type IdentifiedMerger struct {
	MergerRecord
	TransferorID CharityIdentity
	TransfereeID CharityIdentity
}

// Identity returns the identity of the given side.
func (m IdentifiedMerger) Identity(side Side) CharityIdentity {
	if side == SideTransferor {
		return m.TransferorID
	}
	return m.TransfereeID
}

// Name returns the raw name of the given side.
func (m IdentifiedMerger) Name(side Side) string {
	if side == SideTransferor {
		return m.Transferor
	}
	return m.Transferee
}

// RegistrationGapDays returns the number of days between the transfer and its
// registration. ok is false when either date is missing. The gap may be
// negative: the register contains entries registered before the transfer.
func (m MergerRecord) RegistrationGapDays() (days int, ok bool) {
	if m.DateTransferred.IsZero() || m.DateRegistered.IsZero() {
		return 0, false
	}
	return int((calendarDay(m.DateRegistered) - calendarDay(m.DateTransferred)) / secondsPerDay), true
}

const secondsPerDay = 24 * 60 * 60

// calendarDay returns the Unix time of t's calendar date at UTC midnight.
func calendarDay(t time.Time) int64 {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC).Unix()
}

// RegisteredBeforeTransfer reports the data-quality violation where the
// registration date precedes the transfer date.
func (m MergerRecord) RegisteredBeforeTransfer() bool {
	days, ok := m.RegistrationGapDays()
	return ok && days < 0
}

// TransferYear returns the financial year of the transfer, or 0 when unknown.
func (m MergerRecord) TransferYear() int {
	if m.DateTransferred.IsZero() {
		return 0
	}
	return m.DateTransferred.Year()
}
