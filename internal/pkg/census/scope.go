package census

import (
	"errors"
	"fmt"
	"sort"
)

type Scope int

const (
	WholeState Scope = iota + 1
	SingleDistrict
	AllTownsAllDistricts
)

func (s Scope) String() string {
	switch s {
	case WholeState:
		return "whole-state"
	case SingleDistrict:
		return "single-district"
	case AllTownsAllDistricts:
		return "all-towns"
	default:
		return "unknown"
	}
}

// Query describes one scope request: which rows belong to it, how duplicate
// languages collapse and which population column is ranked.
type Query struct {
	Scope    Scope
	District Code
	Match    CodeMatch
	Marker   string
	Policy   DedupPolicy
	Metric   Metric
}

func WholeStateQuery(match CodeMatch, marker string) Query {
	return Query{
		Scope:  WholeState,
		Match:  match,
		Marker: marker,
		Policy: KeepHighest,
		Metric: MetricUrban,
	}
}

func DistrictQuery(district Code) Query {
	return Query{
		Scope:    SingleDistrict,
		District: district,
		Match:    MatchNumeric,
		Policy:   GroupSum,
		Metric:   MetricUrban,
	}
}

func AllTownsQuery(match CodeMatch, marker string) Query {
	return Query{
		Scope:  AllTownsAllDistricts,
		Match:  match,
		Marker: marker,
		Policy: KeepSecondOccurrence,
		Metric: MetricTotal,
	}
}

func (q Query) Validate() error {
	if q.Scope < WholeState || q.Scope > AllTownsAllDistricts {
		return fmt.Errorf("unknown scope %d", int(q.Scope))
	}
	if q.Match != MatchNumeric && q.Match != MatchExact {
		return fmt.Errorf("unknown code match %d", int(q.Match))
	}
	if q.Match == MatchExact && q.Marker == "" {
		return errors.New("exact code match needs a marker")
	}
	if !q.Policy.valid() {
		return ErrUnknownPolicy{Policy: q.Policy}
	}
	if !q.Metric.valid() {
		return fmt.Errorf("unknown metric %d", int(q.Metric))
	}
	return nil
}

// Matches is the row predicate of the scope. Rows with an empty language
// label never match; rows whose codes do not parse only match the exact
// whole-state mode.
func (q Query) Matches(r Row) bool {
	if r.Language == "" {
		return false
	}

	switch q.Scope {
	case WholeState:
		return isWholeState(r, q.Match, q.Marker)
	case SingleDistrict:
		return r.DistrictOK && r.District == q.District
	case AllTownsAllDistricts:
		return r.DistrictOK && r.TownOK && !isWholeState(r, q.Match, q.Marker)
	default:
		return false
	}
}

func Select(rows []Row, q Query) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if q.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Tally selects the scope rows and aggregates them under the query policy.
func Tally(rows []Row, q Query) (map[LanguageKey]int64, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return Aggregate(Select(rows, q), q.Metric, q.Policy)
}

func Top(rows []Row, q Query, n int) ([]Entry, error) {
	m, err := Tally(rows, q)
	if err != nil {
		return nil, err
	}
	return Rank(m, n), nil
}

type TownGroup struct {
	Code Code
	Name string
	Rows []Row
}

type DistrictGroup struct {
	Code  Code
	Name  string
	Towns []TownGroup
}

// GroupTowns runs the all-towns pipeline up to the per-town reduction: rows
// outside the whole-state marker are deduplicated under the query policy and
// grouped by district, then by town. Town code 0 rows are district aggregates
// and only supply the district name. Groups are ordered by code.
func GroupTowns(rows []Row, q Query) ([]DistrictGroup, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if q.Scope != AllTownsAllDistricts {
		return nil, fmt.Errorf("GroupTowns: scope %s", q.Scope)
	}

	selected := Select(rows, q)

	districtNames := make(map[Code]string)
	for _, r := range selected {
		if r.Town != 0 {
			continue
		}
		if _, ok := districtNames[r.District]; !ok && r.AreaName != "" {
			districtNames[r.District] = r.AreaName
		}
	}

	kept, err := Dedup(selected, q.Policy, q.Metric)
	if err != nil {
		return nil, err
	}

	towns := make(map[Code]map[Code]*TownGroup)
	for _, r := range readable(kept, q.Metric) {
		if r.Town == 0 {
			continue
		}
		byTown, ok := towns[r.District]
		if !ok {
			byTown = make(map[Code]*TownGroup)
			towns[r.District] = byTown
		}
		tg, ok := byTown[r.Town]
		if !ok {
			tg = &TownGroup{Code: r.Town, Name: r.AreaName}
			byTown[r.Town] = tg
		}
		tg.Rows = append(tg.Rows, r)
	}

	groups := make([]DistrictGroup, 0, len(towns))
	for code, byTown := range towns {
		dg := DistrictGroup{Code: code, Name: districtNames[code]}
		for _, tg := range byTown {
			dg.Towns = append(dg.Towns, *tg)
		}
		sort.Slice(dg.Towns, func(i, j int) bool { return dg.Towns[i].Code < dg.Towns[j].Code })
		groups = append(groups, dg)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Code < groups[j].Code })

	return groups, nil
}

type Totals struct {
	Rural int64
	Urban int64
	Rows  int
}

// GroupTotals sums rural and urban persons over the language-group total rows
// of the whole-state scope.
func GroupTotals(rows []Row, q Query) (Totals, error) {
	if err := q.Validate(); err != nil {
		return Totals{}, err
	}

	var t Totals
	for _, r := range Select(rows, q) {
		if !IsGroupTotal(r) {
			continue
		}
		t.Rural += r.Rural
		t.Urban += r.Urban
		t.Rows++
	}
	return t, nil
}
