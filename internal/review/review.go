// Package review builds the value-count tables of identities that need a
// human look: Unknown residue and Classified(other) idiosyncrasies.
package review

import (
	"io"
	"sort"

	"fjacquet/charity-mergers/internal/common"
	"fjacquet/charity-mergers/internal/logging"
	"fjacquet/charity-mergers/internal/models"
)

// Entry is one distinct identity awaiting review.
type Entry struct {
	Side       models.Side
	Kind       models.IdentityKind
	Label      string
	Count      int
	Example    string
	Suggestion string
	Reason     string
}

// Build returns the review table for side, most frequent first. Example is
// the first raw name seen for the identity.
func Build(mergers []models.IdentifiedMerger, side models.Side) []Entry {
	index := make(map[models.CharityIdentity]int)
	var entries []Entry
	for _, m := range mergers {
		id := m.Identity(side)
		if !id.NeedsReview() {
			continue
		}
		if i, ok := index[id]; ok {
			entries[i].Count++
			continue
		}
		index[id] = len(entries)
		entries = append(entries, Entry{
			Side:    side,
			Kind:    id.Kind,
			Label:   id.Label(),
			Count:   1,
			Example: m.Name(side),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Label < entries[j].Label
	})
	return entries
}

// BuildAll returns the transferor table followed by the transferee table.
func BuildAll(mergers []models.IdentifiedMerger) []Entry {
	return append(Build(mergers, models.SideTransferor), Build(mergers, models.SideTransferee)...)
}

// Row is the CSV form of an Entry.
type Row struct {
	Side       string `csv:"side"`
	Kind       string `csv:"kind"`
	Label      string `csv:"label"`
	Count      int    `csv:"count"`
	Example    string `csv:"example"`
	Suggestion string `csv:"suggested_category"`
	Reason     string `csv:"suggestion_reason"`
}

// ToRows converts entries for CSV output.
func ToRows(entries []Entry) []Row {
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{
			Side:       string(e.Side),
			Kind:       string(e.Kind),
			Label:      e.Label,
			Count:      e.Count,
			Example:    e.Example,
			Suggestion: e.Suggestion,
			Reason:     e.Reason,
		}
	}
	return rows
}

// WriteCSV writes entries as CSV to w.
func WriteCSV(w io.Writer, entries []Entry, delim rune) error {
	return common.WriteCSV(w, ToRows(entries), delim)
}

// WriteCSVFile writes entries as CSV to path.
func WriteCSVFile(path string, entries []Entry, delim rune, logger logging.Logger) error {
	return common.WriteCSVFile(path, ToRows(entries), delim, logger)
}
