// Package stats computes the aggregate figures reported for the register.
package stats

import (
	"encoding/xml"
	"math"
	"sort"

	"fjacquet/charity-mergers/internal/models"
)

// YearCount is the number of mergers transferred in a year.
type YearCount struct {
	Year  int `json:"year" xml:"year,attr"`
	Count int `json:"count" xml:"count,attr"`
}

// GapSummary describes the days between transfer and registration.
type GapSummary struct {
	Count    int     `json:"count" xml:"count"`
	MinDays  int     `json:"min_days" xml:"min_days"`
	MaxDays  int     `json:"max_days" xml:"max_days"`
	MeanDays float64 `json:"mean_days" xml:"mean_days"`
	Median   float64 `json:"median_days" xml:"median_days"`
	Negative int     `json:"negative" xml:"negative"`
}

// CategoryCount is the number of classified identities in a category.
type CategoryCount struct {
	Category string `json:"category" xml:"name,attr"`
	Count    int    `json:"count" xml:"count,attr"`
}

// KindBreakdown counts identity kinds on one side of the register.
type KindBreakdown struct {
	Side       string          `json:"side" xml:"name,attr"`
	Registered int             `json:"registered" xml:"registered"`
	Classified int             `json:"classified" xml:"classified"`
	Unknown    int             `json:"unknown" xml:"unknown"`
	Categories []CategoryCount `json:"categories" xml:"categories>category"`
}

// LabelCount is a value count of identity labels.
type LabelCount struct {
	Label string `json:"label" xml:"label,attr"`
	Kind  string `json:"kind" xml:"kind,attr"`
	Count int    `json:"count" xml:"count,attr"`
}

// Summary gathers every statistic for one register.
type Summary struct {
	XMLName           xml.Name        `json:"-" xml:"merger_statistics"`
	Source            string          `json:"source,omitempty" xml:"source,attr,omitempty"`
	TotalMergers      int             `json:"total_mergers" xml:"total_mergers"`
	UndatedMergers    int             `json:"undated_mergers" xml:"undated_mergers"`
	MergersPerYear    []YearCount     `json:"mergers_per_year" xml:"mergers_per_year>year"`
	RegistrationGap   GapSummary      `json:"registration_gap" xml:"registration_gap"`
	IdentityKinds     []KindBreakdown `json:"identity_kinds" xml:"identity_kinds>side"`
	TopTransferors    []LabelCount    `json:"top_transferors" xml:"top_transferors>entry"`
	TopTransferees    []LabelCount    `json:"top_transferees" xml:"top_transferees>entry"`
	RepeatTransferors []LabelCount    `json:"repeat_transferors" xml:"repeat_transferors>entry"`
}

// Compute builds the full summary. topN bounds the label tables.
func Compute(mergers []models.IdentifiedMerger, topN int) Summary {
	perYear, undated := MergersPerYear(mergers)
	return Summary{
		TotalMergers:    len(mergers),
		UndatedMergers:  undated,
		MergersPerYear:  perYear,
		RegistrationGap: RegistrationGaps(mergers),
		IdentityKinds: []KindBreakdown{
			Kinds(mergers, models.SideTransferor),
			Kinds(mergers, models.SideTransferee),
		},
		TopTransferors:    TopLabels(mergers, models.SideTransferor, topN),
		TopTransferees:    TopLabels(mergers, models.SideTransferee, topN),
		RepeatTransferors: RepeatTransferors(mergers),
	}
}

// MergersPerYear counts mergers by year of transfer, sorted by year.
// Mergers without a transfer date are counted in undated.
func MergersPerYear(mergers []models.IdentifiedMerger) (counts []YearCount, undated int) {
	byYear := make(map[int]int)
	for _, m := range mergers {
		year := m.TransferYear()
		if year == 0 {
			undated++
			continue
		}
		byYear[year]++
	}
	counts = make([]YearCount, 0, len(byYear))
	for year, n := range byYear {
		counts = append(counts, YearCount{Year: year, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Year < counts[j].Year })
	return counts, undated
}

// RegistrationGaps summarizes the registration gap of mergers with both dates.
func RegistrationGaps(mergers []models.IdentifiedMerger) GapSummary {
	var gaps []int
	negative := 0
	for _, m := range mergers {
		if days, ok := m.RegistrationGapDays(); ok {
			gaps = append(gaps, days)
		}
		if m.RegisteredBeforeTransfer() {
			negative++
		}
	}
	if len(gaps) == 0 {
		return GapSummary{}
	}
	sort.Ints(gaps)

	summary := GapSummary{
		Count:    len(gaps),
		MinDays:  gaps[0],
		MaxDays:  gaps[len(gaps)-1],
		Negative: negative,
	}
	total := 0
	for _, g := range gaps {
		total += g
	}
	summary.MeanDays = round2(float64(total) / float64(len(gaps)))

	mid := len(gaps) / 2
	if len(gaps)%2 == 1 {
		summary.Median = float64(gaps[mid])
	} else {
		summary.Median = float64(gaps[mid-1]+gaps[mid]) / 2
	}
	return summary
}

// Kinds counts identity kinds on side. Categories are listed in the
// order of models.Categories and only when present.
func Kinds(mergers []models.IdentifiedMerger, side models.Side) KindBreakdown {
	breakdown := KindBreakdown{Side: string(side)}
	byCategory := make(map[models.Category]int)
	for _, m := range mergers {
		id := m.Identity(side)
		switch id.Kind {
		case models.KindRegistered:
			breakdown.Registered++
		case models.KindClassified:
			breakdown.Classified++
			byCategory[id.Category]++
		default:
			breakdown.Unknown++
		}
	}
	for _, c := range models.Categories {
		if n := byCategory[c]; n > 0 {
			breakdown.Categories = append(breakdown.Categories, CategoryCount{Category: string(c), Count: n})
		}
	}
	return breakdown
}

// TopLabels returns the n most frequent labels on side. Ties are broken by
// label so the output is stable. n <= 0 returns every label.
func TopLabels(mergers []models.IdentifiedMerger, side models.Side, n int) []LabelCount {
	ids := make([]models.CharityIdentity, len(mergers))
	for i, m := range mergers {
		ids[i] = m.Identity(side)
	}
	return limit(ValueCounts(ids), n)
}

// RepeatTransferors lists registered transferors that appear in more than
// one merger.
func RepeatTransferors(mergers []models.IdentifiedMerger) []LabelCount {
	var ids []models.CharityIdentity
	for _, m := range mergers {
		if m.TransferorID.IsRegistered() {
			ids = append(ids, m.TransferorID)
		}
	}
	var repeats []LabelCount
	for _, lc := range ValueCounts(ids) {
		if lc.Count > 1 {
			repeats = append(repeats, lc)
		}
	}
	return repeats
}

// ValueCounts counts identities by kind and label, most frequent first.
func ValueCounts(ids []models.CharityIdentity) []LabelCount {
	type key struct {
		kind  models.IdentityKind
		label string
	}
	counts := make(map[key]int)
	for _, id := range ids {
		counts[key{kind: id.Kind, label: id.Label()}]++
	}
	out := make([]LabelCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, LabelCount{Label: k.label, Kind: string(k.kind), Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

func limit(counts []LabelCount, n int) []LabelCount {
	if n > 0 && len(counts) > n {
		return counts[:n]
	}
	return counts
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
