package census

import "github.com/ougirez/mothertongue/internal/domain"

// Metric picks the population column a query reduces.
type Metric int

const (
	MetricUrban Metric = iota + 1
	MetricRural
	MetricTotal
)

func (m Metric) Value(r Row) int64 {
	switch m {
	case MetricUrban:
		return r.Urban
	case MetricRural:
		return r.Rural
	case MetricTotal:
		return r.Total
	default:
		return 0
	}
}

func (m Metric) column() domain.CountColumns {
	switch m {
	case MetricUrban:
		return domain.CountUrban
	case MetricRural:
		return domain.CountRural
	case MetricTotal:
		return domain.CountTotal
	default:
		return 0
	}
}

// Readable reports whether the row's cell for this metric parsed.
func (m Metric) Readable(r Row) bool {
	return !r.Unreadable.Has(m.column())
}

// readable drops rows whose metric cell did not parse. Apply it after Dedup.
func readable(rows []Row, m Metric) []Row {
	out := rows[:0:0]
	for _, r := range rows {
		if m.Readable(r) {
			out = append(out, r)
		}
	}
	return out
}

func (m Metric) String() string {
	switch m {
	case MetricUrban:
		return "urban"
	case MetricRural:
		return "rural"
	case MetricTotal:
		return "total"
	default:
		return "unknown"
	}
}

func (m Metric) valid() bool {
	return m >= MetricUrban && m <= MetricTotal
}
