package workbook

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ougirez/mothertongue/internal/domain"
)

// NewStateReport lays the flat all-states report out on a single sheet.
func NewStateReport(rows []domain.StateReportRow) (*excelize.File, error) {
	records := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		records = append(records, []interface{}{r.State, r.Rank, r.Language, r.Persons, r.Percent.InexactFloat64()})
	}
	return newReport("States", []interface{}{"State", "Rank", "Language", "Persons", "Percent"}, records)
}

// NewPivotReport writes the wide form: State, Kind, then one column per rank.
func NewPivotReport(rows []domain.PivotRow) (*excelize.File, error) {
	width := 0
	for _, r := range rows {
		if len(r.Values) > width {
			width = len(r.Values)
		}
	}

	header := []interface{}{"State", "Kind"}
	for i := 1; i <= width; i++ {
		header = append(header, fmt.Sprintf("Language %d", i), fmt.Sprintf("Value %d", i))
	}

	records := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		record := []interface{}{r.State, string(r.Kind)}
		for i, v := range r.Values {
			record = append(record, r.Languages[i], v.InexactFloat64())
		}
		records = append(records, record)
	}
	return newReport("States wide", header, records)
}

func NewTownReport(rows []domain.TownReportRow) (*excelize.File, error) {
	header := []interface{}{
		"State", "District Code", "District Name", "Town Code", "Town Name", "Rank", "Language", "Persons", "Pincodes",
	}
	records := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		records = append(records, []interface{}{
			r.State, r.DistrictCode, r.DistrictName, r.TownCode, r.TownName, r.Rank, r.Language, r.Persons,
			strings.Join(r.Pincodes, ", "),
		})
	}
	return newReport("Towns", header, records)
}

func NewPopulationReport(rows []domain.PopulationTotals) (*excelize.File, error) {
	records := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		records = append(records, []interface{}{r.State, r.Rural, r.Urban})
	}
	return newReport("Population", []interface{}{"State Name", "Total Rural P Sum", "Total Urban P Sum"}, records)
}

func newReport(sheet string, header []interface{}, records [][]interface{}) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("f.SetSheetName: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("f.SetSheetRow header: %w", err)
	}

	for i := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &records[i]); err != nil {
			f.Close()
			return nil, fmt.Errorf("f.SetSheetRow %s: %w", cell, err)
		}
	}

	return f, nil
}

// Save writes the report to path and releases the workbook.
func Save(f *excelize.File, path string) error {
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("f.SaveAs: %w", err)
	}
	return nil
}
