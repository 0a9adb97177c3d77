package census

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ougirez/mothertongue/internal/domain"
)

func stateRow(district, label string, urban int64) domain.RawRow {
	return domain.RawRow{DistrictCode: district, TownCode: "0", MotherTongueLabel: label, Urban: urban}
}

func townRow(district, town, area, label string, total int64) domain.RawRow {
	return domain.RawRow{DistrictCode: district, TownCode: town, AreaName: area, MotherTongueLabel: label, Total: total}
}

func TestResolveLanguage(t *testing.T) {
	tests := []struct {
		input string
		want  LanguageKey
	}{
		{"07 Bengali", "bengali"},
		{"bengali", "bengali"},
		{"  01   Hindi  ", "hindi"},
		{"HINDI", "hindi"},
		{"001002 Assamese", "assamese"},
		{"Bengali 07", "bengali 07"},
		{"1234", "1234"},
		{"", ""},
	}
	for _, tt := range tests {
		got := ResolveLanguage(tt.input)
		assert.Equal(t, tt.want, got, "ResolveLanguage(%q)", tt.input)
		assert.Equal(t, got, ResolveLanguage(string(got)), "ResolveLanguage must be stable on %q", got)
	}
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		input string
		want  Code
		ok    bool
	}{
		{"0", 0, true},
		{"000", 0, true},
		{"0.0", 0, true},
		{" 12 ", 12, true},
		{"12.0", 12, true},
		{"", 0, false},
		{"District", 0, false},
		{"NaN", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseCode(tt.input)
		assert.Equal(t, tt.ok, ok, "ParseCode(%q)", tt.input)
		assert.Equal(t, tt.want, got, "ParseCode(%q)", tt.input)
	}
}

func TestKeepHighestOfDuplicates(t *testing.T) {
	rows := NormalizeAll([]domain.RawRow{
		stateRow("0", "X", 10),
		stateRow("0", "X", 50),
		stateRow("0", "Y", 20),
		stateRow("0", "X", 30),
	})

	kept, err := Dedup(rows, KeepHighest, MetricUrban)
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.Equal(t, LanguageKey("x"), kept[0].Language)
	assert.EqualValues(t, 50, kept[0].Urban)
	assert.Equal(t, LanguageKey("y"), kept[1].Language)
}

func TestKeepSecondOccurrence(t *testing.T) {
	raws := []domain.RawRow{
		townRow("5", "7", "", "A", 1),
		townRow("5", "7", "", "A", 2),
		townRow("5", "7", "", "A", 3),
		townRow("5", "7", "", "B", 4),
		townRow("5", "7", "", "B", 5),
		townRow("5", "8", "", "C", 6),
	}

	kept, err := Dedup(NormalizeAll(raws), KeepSecondOccurrence, MetricTotal)
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.EqualValues(t, 2, kept[0].Total)
	assert.EqualValues(t, 5, kept[1].Total)
}

func TestKeepSecondOccurrenceTreatsEquivalentCodesAsOneGroup(t *testing.T) {
	raws := []domain.RawRow{
		townRow("05", "7", "", "A", 1),
		townRow("5.0", "7.0", "", "01 A", 2),
	}

	kept, err := Dedup(NormalizeAll(raws), KeepSecondOccurrence, MetricTotal)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.EqualValues(t, 2, kept[0].Total)
}

func TestGroupSumKeepsEverything(t *testing.T) {
	rows := NormalizeAll([]domain.RawRow{stateRow("3", "A", 1), stateRow("3", "A", 2)})

	m, err := Aggregate(rows, MetricUrban, GroupSum)
	require.NoError(t, err)
	assert.Equal(t, map[LanguageKey]int64{"a": 3}, m)
}

func TestDedupRejectsZeroPolicy(t *testing.T) {
	_, err := Dedup(nil, 0, MetricUrban)
	var unknown ErrUnknownPolicy
	assert.ErrorAs(t, err, &unknown)
}

func TestAggregateEmpty(t *testing.T) {
	m, err := Aggregate(nil, MetricUrban, KeepHighest)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestRank(t *testing.T) {
	m := map[LanguageKey]int64{"tamil": 5, "hindi": 9, "urdu": 5, "bodo": 1}

	assert.Equal(t, []Entry{{"hindi", 9}, {"tamil", 5}}, Rank(m, 2))
	assert.Equal(t, []Entry{{"hindi", 9}, {"tamil", 5}, {"urdu", 5}, {"bodo", 1}}, Rank(m, 10))
	assert.Empty(t, Rank(m, 0))
	assert.Empty(t, Rank(m, -3))
	assert.NotNil(t, Rank(nil, 0))
}

func TestRankLengthAndOrderProperty(t *testing.T) {
	for distinct := 0; distinct < 6; distinct++ {
		m := make(map[LanguageKey]int64)
		for i := 0; i < distinct; i++ {
			m[LanguageKey(fmt.Sprintf("lang%d", i))] = int64(i % 3)
		}
		for n := 0; n < 8; n++ {
			got := Rank(m, n)
			assert.Len(t, got, min(n, distinct))
			for i := 1; i < len(got); i++ {
				prev, cur := got[i-1], got[i]
				assert.True(t, prev.Value > cur.Value || (prev.Value == cur.Value && prev.Language < cur.Language))
			}
		}
	}
}

func TestWholeStateScenario(t *testing.T) {
	rows := NormalizeAll([]domain.RawRow{
		stateRow("0", "01 Hindi", 100),
		stateRow("0", "02 Hindi", 40),
		stateRow("5", "Hindi", 999),
	})

	got, err := Top(rows, WholeStateQuery(MatchNumeric, DefaultWholeStateMarker), 1)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{"hindi", 100}}, got)
}

func TestWholeStateExactMarker(t *testing.T) {
	rows := NormalizeAll([]domain.RawRow{
		stateRow("0.0", "Hindi", 100),
		stateRow("000", "Urdu", 500),
		stateRow("5", "Tamil", 999),
	})

	exact, err := Top(rows, WholeStateQuery(MatchExact, "0.0"), 5)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{"hindi", 100}}, exact)

	numeric, err := Top(rows, WholeStateQuery(MatchNumeric, ""), 5)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{"urdu", 500}, {"hindi", 100}}, numeric)
}

func TestSingleDistrictScenario(t *testing.T) {
	rows := NormalizeAll([]domain.RawRow{
		stateRow("12", "Tamil", 50),
		stateRow("12", "Tamil", 30),
		stateRow("7", "Tamil", 1000),
		stateRow("twelve", "Tamil", 1000),
	})

	got, err := Top(rows, DistrictQuery(12.0), 1)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{"tamil", 80}}, got)
}

func TestQueryValidate(t *testing.T) {
	assert.NoError(t, WholeStateQuery(MatchNumeric, "").Validate())
	assert.Error(t, WholeStateQuery(MatchExact, "").Validate())
	assert.Error(t, Query{Scope: WholeState, Match: MatchNumeric, Metric: MetricUrban}.Validate())
	assert.Error(t, Query{}.Validate())
}

func TestGroupTowns(t *testing.T) {
	raws := []domain.RawRow{
		stateRow("0", "Hindi", 1),
		townRow("2", "0", "Agra", "Hindi", 900),
		townRow("2", "0", "Agra", "Hindi", 910),
		townRow("2", "40", "Fatehpur Sikri (NP)", "Hindi", 30),
		townRow("2", "40", "Fatehpur Sikri (NP)", "Urdu", 3),
		townRow("2", "40", "Fatehpur Sikri (NP)", "Hindi", 31),
		townRow("2", "40", "Fatehpur Sikri (NP)", "Urdu", 4),
		townRow("1", "0", "Saharanpur", "Hindi", 100),
		townRow("1", "10", "Deoband", "Hindi", 10),
		townRow("1", "10", "Deoband", "Hindi", 11),
		townRow("1", "x", "broken", "Hindi", 11),
	}

	groups, err := GroupTowns(NormalizeAll(raws), AllTownsQuery(MatchNumeric, ""))
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, Code(1), groups[0].Code)
	assert.Equal(t, "Saharanpur", groups[0].Name)
	require.Len(t, groups[0].Towns, 1)
	assert.Equal(t, "Deoband", groups[0].Towns[0].Name)
	assert.Equal(t, map[LanguageKey]int64{"hindi": 11}, SumByLanguage(groups[0].Towns[0].Rows, MetricTotal))

	assert.Equal(t, "Agra", groups[1].Name)
	require.Len(t, groups[1].Towns, 1)
	town := groups[1].Towns[0]
	assert.Equal(t, Code(40), town.Code)
	assert.Equal(t, []Entry{{"hindi", 31}, {"urdu", 4}}, Rank(SumByLanguage(town.Rows, MetricTotal), 5))
}

func TestUnreadableCountsKeepSourcePosition(t *testing.T) {
	first := townRow("1", "0", "North Goa", "Konkani", 900)
	listed := townRow("1", "5", "Panaji (M)", "Konkani", 0)
	listed.Unreadable = domain.CountMales
	raws := []domain.RawRow{first, listed, townRow("1", "5", "Panaji (M)", "Konkani", 75)}

	groups, err := GroupTowns(NormalizeAll(raws), AllTownsQuery(MatchNumeric, ""))
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Towns, 1)
	assert.Equal(t, map[LanguageKey]int64{"konkani": 75}, SumByLanguage(groups[0].Towns[0].Rows, MetricTotal))
}

func TestUnreadableMetricLeavesAggregate(t *testing.T) {
	bad := townRow("1", "5", "Panaji (M)", "Konkani", 0)
	bad.Unreadable = domain.CountTotal
	raws := []domain.RawRow{
		townRow("1", "5", "Panaji (M)", "Konkani", 10),
		bad,
		townRow("1", "5", "Panaji (M)", "Marathi", 4),
		townRow("1", "5", "Panaji (M)", "Marathi", 6),
	}

	m, err := Aggregate(NormalizeAll(raws), MetricTotal, KeepSecondOccurrence)
	require.NoError(t, err)
	assert.Equal(t, map[LanguageKey]int64{"marathi": 6}, m)

	groups, err := GroupTowns(NormalizeAll(raws), AllTownsQuery(MatchNumeric, ""))
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Towns, 1)
	assert.Len(t, groups[0].Towns[0].Rows, 1)

	m, err = Aggregate(NormalizeAll(raws), MetricUrban, KeepSecondOccurrence)
	require.NoError(t, err)
	assert.Contains(t, m, LanguageKey("konkani"))
}

func TestGroupTownsRejectsOtherScopes(t *testing.T) {
	_, err := GroupTowns(nil, WholeStateQuery(MatchNumeric, ""))
	assert.Error(t, err)
}

func TestGroupTotals(t *testing.T) {
	raws := []domain.RawRow{
		{DistrictCode: "0", MotherTongueCode: "006000", MotherTongueLabel: "HINDI", Rural: 10, Urban: 20},
		{DistrictCode: "0", MotherTongueCode: "006240", MotherTongueLabel: "Hindi", Rural: 9, Urban: 19},
		{DistrictCode: "0", MotherTongueCode: "022000", MotherTongueLabel: "URDU", Rural: 1, Urban: 2},
		{DistrictCode: "4", MotherTongueCode: "006000", MotherTongueLabel: "HINDI", Rural: 100, Urban: 100},
	}

	totals, err := GroupTotals(NormalizeAll(raws), WholeStateQuery(MatchNumeric, ""))
	require.NoError(t, err)
	assert.Equal(t, Totals{Rural: 11, Urban: 22, Rows: 2}, totals)
}
