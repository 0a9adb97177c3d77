package census

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DedupPolicy decides which rows sharing a LanguageKey are counted.
// The zero value is not a policy: callers always pick one.
type DedupPolicy int

const (
	// KeepHighest keeps, per LanguageKey, only the row with the largest metric.
	KeepHighest DedupPolicy = iota + 1
	// KeepSecondOccurrence keeps the 2nd listing of every
	// (LanguageKey, district, town) triple in source order.
	KeepSecondOccurrence
	// GroupSum keeps every row; the aggregator sums them.
	GroupSum
)

func (p DedupPolicy) String() string {
	switch p {
	case KeepHighest:
		return "keep-highest-of-duplicates"
	case KeepSecondOccurrence:
		return "keep-second-occurrence"
	case GroupSum:
		return "groupby-sum"
	default:
		return "unknown"
	}
}

func (p DedupPolicy) valid() bool {
	return p >= KeepHighest && p <= GroupSum
}

type ErrUnknownPolicy struct {
	Policy DedupPolicy
}

func (e ErrUnknownPolicy) Error() string {
	return fmt.Sprintf("unknown dedup policy %d", int(e.Policy))
}

func Dedup(rows []Row, policy DedupPolicy, metric Metric) ([]Row, error) {
	switch policy {
	case KeepHighest:
		return keepHighest(rows, metric), nil
	case KeepSecondOccurrence:
		return keepSecondOccurrence(rows), nil
	case GroupSum:
		out := make([]Row, len(rows))
		copy(out, rows)
		return out, nil
	default:
		return nil, ErrUnknownPolicy{Policy: policy}
	}
}

// keepHighest returns the surviving rows ordered by metric descending; equal
// metrics keep their source order. Among duplicates with the same metric the
// earliest row survives.
func keepHighest(rows []Row, metric Metric) []Row {
	best := make(map[LanguageKey]int, len(rows))
	for i, r := range rows {
		j, ok := best[r.Language]
		if !ok || metric.Value(r) > metric.Value(rows[j]) {
			best[r.Language] = i
		}
	}

	out := make([]Row, 0, len(best))
	for i, r := range rows {
		if best[r.Language] == i {
			out = append(out, r)
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		return metric.Value(out[a]) > metric.Value(out[b])
	})
	return out
}

type occurrence struct {
	language LanguageKey
	district string
	town     string
}

func keepSecondOccurrence(rows []Row) []Row {
	seen := make(map[occurrence]int, len(rows))
	out := make([]Row, 0, len(rows)/2)
	for _, r := range rows {
		k := occurrence{
			language: r.Language,
			district: codeIdentity(r.District, r.DistrictOK, r.RawRow.DistrictCode),
			town:     codeIdentity(r.Town, r.TownOK, r.RawRow.TownCode),
		}
		seen[k]++
		if seen[k] == 2 {
			out = append(out, r)
		}
	}
	return out
}

// codeIdentity makes "12", "12.0" and "012" the same group while unparseable
// cells still group by their text.
func codeIdentity(c Code, ok bool, raw string) string {
	if ok {
		return strconv.FormatFloat(float64(c), 'g', -1, 64)
	}
	return "raw:" + strings.TrimSpace(raw)
}
