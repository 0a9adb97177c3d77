package census

import (
	"math"
	"strconv"
	"strings"

	"github.com/ougirez/mothertongue/internal/domain"
)

// Code is a parsed district or town code. Workbooks store codes as "000",
// "12", "12.0" or real numbers, so codes are compared as floats.
type Code float64

// DefaultWholeStateMarker is the literal district code of state-aggregate rows
// in the exact-string matching mode.
const DefaultWholeStateMarker = "0.0"

// CodeMatch selects how a district code is compared with the whole-state marker.
type CodeMatch int

const (
	// MatchNumeric parses the code and compares it with zero.
	MatchNumeric CodeMatch = iota + 1
	// MatchExact compares the trimmed cell text with the marker literal.
	MatchExact
)

func (m CodeMatch) String() string {
	switch m {
	case MatchNumeric:
		return "numeric"
	case MatchExact:
		return "exact"
	default:
		return "unknown"
	}
}

func ParseCodeMatch(s string) (CodeMatch, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "numeric", "":
		return MatchNumeric, true
	case "exact":
		return MatchExact, true
	default:
		return 0, false
	}
}

// Row is a RawRow with its codes coerced and its language resolved.
type Row struct {
	domain.RawRow

	District   Code
	DistrictOK bool
	Town       Code
	TownOK     bool
	Language   LanguageKey
}

// ParseCode coerces a code cell. Unparseable input is reported, never fatal.
func ParseCode(s string) (Code, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return Code(f), true
}

func Normalize(raw domain.RawRow) Row {
	raw.MotherTongueLabel = strings.TrimSpace(raw.MotherTongueLabel)
	raw.AreaName = strings.TrimSpace(raw.AreaName)

	r := Row{RawRow: raw}
	r.District, r.DistrictOK = ParseCode(raw.DistrictCode)
	r.Town, r.TownOK = ParseCode(raw.TownCode)
	r.Language = ResolveLanguage(raw.MotherTongueLabel)
	return r
}

// NormalizeAll keeps the source order, which the positional dedup policy relies on.
func NormalizeAll(raws []domain.RawRow) []Row {
	rows := make([]Row, 0, len(raws))
	for _, raw := range raws {
		rows = append(rows, Normalize(raw))
	}
	return rows
}

func isWholeState(r Row, match CodeMatch, marker string) bool {
	if match == MatchExact {
		return strings.TrimSpace(r.RawRow.DistrictCode) == marker
	}
	return r.DistrictOK && r.District == 0
}

// IsGroupTotal reports whether the row is a language-group total: census
// mother-tongue codes of group rows end in "000".
func IsGroupTotal(r Row) bool {
	return strings.HasSuffix(strings.TrimSpace(r.MotherTongueCode), "000")
}
