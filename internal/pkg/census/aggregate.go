package census

import "sort"

type Entry struct {
	Language LanguageKey
	Value    int64
}

// Aggregate applies the dedup policy and sums the metric per LanguageKey.
// After KeepHighest or KeepSecondOccurrence a key has one survivor per
// dedup identity, so the sum is that row's value. Rows whose metric cell did
// not parse are left out after deduplication.
func Aggregate(rows []Row, metric Metric, policy DedupPolicy) (map[LanguageKey]int64, error) {
	kept, err := Dedup(rows, policy, metric)
	if err != nil {
		return nil, err
	}
	return SumByLanguage(readable(kept, metric), metric), nil
}

func SumByLanguage(rows []Row, metric Metric) map[LanguageKey]int64 {
	out := make(map[LanguageKey]int64, len(rows))
	for _, r := range rows {
		out[r.Language] += metric.Value(r)
	}
	return out
}

// Rank orders by value descending, ties by LanguageKey ascending, and keeps
// at most n entries. n <= 0 yields an empty slice.
func Rank(m map[LanguageKey]int64, n int) []Entry {
	if n <= 0 {
		return []Entry{}
	}

	entries := make([]Entry, 0, len(m))
	for k, v := range m {
		entries = append(entries, Entry{Language: k, Value: v})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Language < entries[j].Language
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func Total(m map[LanguageKey]int64) int64 {
	var sum int64
	for _, v := range m {
		sum += v
	}
	return sum
}
