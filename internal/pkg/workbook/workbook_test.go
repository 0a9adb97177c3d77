package workbook

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ougirez/mothertongue/internal/domain"
	"github.com/ougirez/mothertongue/internal/pkg/constants"
	"github.com/ougirez/mothertongue/internal/pkg/logger"
)

func writeSheet(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &rows[i]))
	}
	require.NoError(t, f.SaveAs(path))
}

func districtSheet() [][]interface{} {
	return [][]interface{}{
		{"C-16", "State", "District", "Town", "Area", "MT code", "MT name", "Total", "M", "F", "Rural", "M", "F", "Urban", "M", "F"},
		{"C1600", "09", "000", "000000", "UTTAR PRADESH", "006000", "HINDI", 100, 60, 40, 70, 40, 30, 30, 20, 10},
		{"C1600", "09", "000", "000000", "UTTAR PRADESH", "006240", "01 Hindi", "1,000", 600, 400, 700, 400, 300, 300, 200, 100},
		{},
		{"C1600", "09", "146", "000000", "Agra", "022000", "URDU", 5, 3, 2, 1, 1, 0, "-", "", ""},
		{"C1600", "09", "146", "000000", "Agra", "022001", "Urdu", "n/a", 3, 2, 1, 1, 0, 4, 2, 2},
	}
}

func TestRawSourceStateRows(t *testing.T) {
	dir := t.TempDir()
	writeSheet(t, filepath.Join(dir, "Uttar_Pradesh.xlsx"), districtSheet())

	src := NewRawSource(dir, DistrictLayout(1))
	rows, err := src.StateRows(context.Background(), "uttar pradesh")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, domain.RawRow{
		Line: 2, TableName: "C1600", StateCode: "09", DistrictCode: "000", TownCode: "000000",
		AreaName: "UTTAR PRADESH", MotherTongueCode: "006000", MotherTongueLabel: "HINDI",
		Total: 100, Males: 60, Females: 40, Rural: 70, Urban: 30,
	}, rows[0])
	assert.EqualValues(t, 1000, rows[1].Total)
	assert.Equal(t, 5, rows[2].Line)
	assert.EqualValues(t, 0, rows[2].Urban)
	assert.Zero(t, rows[2].Unreadable)

	assert.Equal(t, 6, rows[3].Line)
	assert.Equal(t, domain.CountTotal, rows[3].Unreadable)
	assert.EqualValues(t, 4, rows[3].Urban)
}

func TestRawSourceKeepsRowsWithUnreadableCounts(t *testing.T) {
	dir := t.TempDir()
	writeSheet(t, filepath.Join(dir, "Goa.xlsx"), [][]interface{}{
		{"C-16", "State", "District", "Town", "Area", "MT code", "MT name", "Total", "M", "F"},
		{"C1600", "30", "001", "000000", "North Goa", "013000", "KONKANI", 900, 450, 450},
		{"C1600", "30", "001", "800123", "Panaji (M)", "013000", "KONKANI", 70, "n/a", 35},
		{"C1600", "30", "001", "800123", "Panaji (M)", "013000", "Konkani", 75, 40, 35},
	})

	rows, err := NewRawSource(dir, TownLayout(1)).StateRows(context.Background(), "Goa")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, domain.CountMales, rows[1].Unreadable)
	assert.EqualValues(t, 70, rows[1].Total)
	assert.Equal(t, "Panaji (M)", rows[2].AreaName)
	assert.EqualValues(t, 75, rows[2].Total)
}

func TestRawSourceMissingState(t *testing.T) {
	src := NewRawSource(t.TempDir(), DistrictLayout(1))
	_, err := src.StateRows(context.Background(), "Goa")
	assert.ErrorIs(t, err, constants.ErrSourceNotFound)

	_, err = NewRawSource(filepath.Join(t.TempDir(), "absent"), DistrictLayout(1)).ListStates(context.Background())
	assert.ErrorIs(t, err, constants.ErrSourceNotFound)
}

func TestRawSourceMalformed(t *testing.T) {
	dir := t.TempDir()
	writeSheet(t, filepath.Join(dir, "Goa.xlsx"), [][]interface{}{
		{"State", "District", "MT name"},
		{"30", "0", "Konkani"},
	})

	_, err := NewRawSource(dir, DistrictLayout(1)).StateRows(context.Background(), "Goa")
	assert.ErrorIs(t, err, constants.ErrSourceMalformed)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Kerala.xlsx"), []byte("not a zip"), 0o644))
	_, err = NewRawSource(dir, DistrictLayout(1)).StateRows(context.Background(), "Kerala")
	assert.ErrorIs(t, err, constants.ErrSourceMalformed)
}

func TestListStatesSortedByFileName(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"West_Bengal.xlsx", "Assam.xlsx", "Bihar.XLSX", "notes.txt", "~$Assam.xlsx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.xlsx"), 0o755))

	states, err := NewDir(dir).ListStates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Assam", "Bihar", "West Bengal"}, states)
}

func TestListStatesWarnsAboutLegacyWorkbooks(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(zap.NewNop()) })

	dir := t.TempDir()
	for _, name := range []string{"Goa.xlsx", "Kerala.XLS"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	states, err := NewDir(dir).ListStates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Goa"}, states)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "Kerala.XLS")
}

func TestBilingualRows(t *testing.T) {
	dir := t.TempDir()
	writeSheet(t, filepath.Join(dir, "Goa.xlsx"), [][]interface{}{
		{"Primary", "Persons", "Second", "Persons", "Third", "Persons"},
		{"Konkani", 900, "English", 300, "Hindi", 100},
		{"Marathi", "bad", "Konkani", 10, "", ""},
		{"Marathi", 200, "Konkani", 150},
	})

	rows, err := NewBilingualSource(dir, DefaultBilingualLayout(1)).BilingualRows(context.Background(), "Goa")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Konkani", rows[0].PrimaryLanguage)
	assert.EqualValues(t, 300, rows[0].FirstSubsidiaryPersons)
	assert.Equal(t, "", rows[1].SecondSubsidiaryLanguage)
	assert.EqualValues(t, 0, rows[1].SecondSubsidiaryPersons)
}

func TestReadTable(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "pincodes.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Office Name,Pincode\nAgra,282001\n\"Fatehpur, Sikri\",283110\n"), 0o644))
	rows, err := ReadTable(csvPath)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Office Name", "Pincode"}, {"Agra", "282001"}, {"Fatehpur, Sikri", "283110"}}, rows)

	xlsxPath := filepath.Join(dir, "districts.xlsx")
	writeSheet(t, xlsxPath, [][]interface{}{{"State", "District Code", "District Name"}, {"Goa", 1, "North Goa"}})
	rows, err = ReadTable(xlsxPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"Goa", "1", "North Goa"}, rows[1])

	_, err = ReadTable(filepath.Join(dir, "absent.csv"))
	assert.ErrorIs(t, err, constants.ErrReferenceTableMalformed)

	jsonPath := filepath.Join(dir, "table.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte("{}"), 0o644))
	_, err = ReadTable(jsonPath)
	assert.ErrorIs(t, err, constants.ErrReferenceTableMalformed)
}

func TestReportsRoundTripThroughExcelize(t *testing.T) {
	dir := t.TempDir()

	f, err := NewPivotReport([]domain.PivotRow{
		{State: "Goa", Kind: domain.PivotPersons, Languages: []string{"konkani", "marathi"}, Values: []decimal.Decimal{decimal.NewFromInt(90), decimal.NewFromInt(10)}},
		{State: "Goa", Kind: domain.PivotPercent, Languages: []string{"konkani", "marathi"}, Values: []decimal.Decimal{decimal.RequireFromString("90"), decimal.RequireFromString("10")}},
	})
	require.NoError(t, err)
	path := filepath.Join(dir, "wide.xlsx")
	require.NoError(t, Save(f, path))

	rows, err := readFirstSheet(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"State", "Kind", "Language 1", "Value 1", "Language 2", "Value 2"}, rows[0])
	assert.Equal(t, []string{"Goa", "percent", "konkani", "90", "marathi", "10"}, rows[2])

	f, err = NewTownReport([]domain.TownReportRow{
		{State: "Goa", DistrictCode: 1, DistrictName: "North Goa", TownCode: 7, TownName: "Panaji", Rank: 1, Language: "konkani", Persons: 5, Pincodes: []string{"403001", "403002"}},
	})
	require.NoError(t, err)
	path = filepath.Join(dir, "towns.xlsx")
	require.NoError(t, Save(f, path))

	rows, err = readFirstSheet(path)
	require.NoError(t, err)
	assert.Equal(t, "403001, 403002", rows[1][8])
}
