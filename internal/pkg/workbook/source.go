package workbook

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ougirez/mothertongue/internal/domain"
	"github.com/ougirez/mothertongue/internal/pkg/constants"
	"github.com/ougirez/mothertongue/internal/pkg/logger"
)

// RawSource decodes census mother-tongue workbooks of one layout.
type RawSource struct {
	*Dir
	layout Layout
}

func NewRawSource(dir string, layout Layout) *RawSource {
	return &RawSource{Dir: NewDir(dir), layout: layout}
}

// StateRows returns the data rows of the state's workbook in sheet order.
// Unparseable population cells read as zero and are flagged on the row.
func (s *RawSource) StateRows(ctx context.Context, state string) ([]domain.RawRow, error) {
	sheet, err := s.Sheet(ctx, state)
	if err != nil {
		return nil, err
	}

	data := skipHeader(sheet, s.layout.HeaderRows)
	if !wideEnough(data, s.layout.width()) {
		return nil, fmt.Errorf("%w: state %q has fewer than %d columns", constants.ErrSourceMalformed, state, s.layout.width())
	}

	rows := make([]domain.RawRow, 0, len(data))
	unreadable := 0
	for i, record := range data {
		if blank(record) {
			continue
		}
		row := s.decode(record)
		if row.Unreadable != 0 {
			unreadable++
		}
		row.Line = s.layout.HeaderRows + i + 1
		rows = append(rows, row)
	}

	if unreadable > 0 {
		logger.Debugf(ctx, "state %s: %d rows with unparseable counts", state, unreadable)
	}
	return rows, nil
}

func (s *RawSource) decode(record []string) domain.RawRow {
	l := s.layout
	row := domain.RawRow{
		TableName:         text(record, l.TableName),
		StateCode:         text(record, l.StateCode),
		DistrictCode:      text(record, l.DistrictCode),
		TownCode:          text(record, l.TownCode),
		AreaName:          text(record, l.AreaName),
		MotherTongueCode:  text(record, l.MotherTongueCode),
		MotherTongueLabel: text(record, l.MotherTongueLabel),
	}

	var ok bool
	for _, c := range []struct {
		dst  *int64
		col  int
		flag domain.CountColumns
	}{
		{&row.Total, l.Total, domain.CountTotal},
		{&row.Males, l.Males, domain.CountMales},
		{&row.Females, l.Females, domain.CountFemales},
		{&row.Rural, l.Rural, domain.CountRural},
		{&row.Urban, l.Urban, domain.CountUrban},
	} {
		if *c.dst, ok = count(record, c.col); !ok {
			row.Unreadable |= c.flag
		}
	}
	return row
}

// BilingualSource decodes bilingual-usage workbooks.
type BilingualSource struct {
	*Dir
	layout BilingualLayout
}

func NewBilingualSource(dir string, layout BilingualLayout) *BilingualSource {
	return &BilingualSource{Dir: NewDir(dir), layout: layout}
}

func (s *BilingualSource) BilingualRows(ctx context.Context, state string) ([]domain.BilingualRow, error) {
	sheet, err := s.Sheet(ctx, state)
	if err != nil {
		return nil, err
	}

	data := skipHeader(sheet, s.layout.HeaderRows)
	if !wideEnough(data, s.layout.width()) {
		return nil, fmt.Errorf("%w: bilingual state %q has fewer than %d columns", constants.ErrSourceMalformed, state, s.layout.width())
	}

	l := s.layout
	rows := make([]domain.BilingualRow, 0, len(data))
	for i, record := range data {
		if blank(record) {
			continue
		}

		row := domain.BilingualRow{
			Line:                     l.HeaderRows + i + 1,
			PrimaryLanguage:          text(record, l.PrimaryLanguage),
			FirstSubsidiaryLanguage:  text(record, l.FirstSubsidiaryLanguage),
			SecondSubsidiaryLanguage: text(record, l.SecondSubsidiaryLanguage),
		}
		var ok1, ok2, ok3 bool
		row.PrimaryPersons, ok1 = count(record, l.PrimaryPersons)
		row.FirstSubsidiaryPersons, ok2 = count(record, l.FirstSubsidiaryPersons)
		row.SecondSubsidiaryPersons, ok3 = count(record, l.SecondSubsidiaryPersons)
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func skipHeader(sheet [][]string, n int) [][]string {
	if n < 0 {
		n = 0
	}
	if n >= len(sheet) {
		return nil
	}
	return sheet[n:]
}

// wideEnough rejects sheets where no data row reaches the layout width.
// excelize trims trailing empty cells, so single short rows are normal.
func wideEnough(data [][]string, width int) bool {
	if len(data) == 0 {
		return true
	}
	for _, record := range data {
		if len(record) >= width {
			return true
		}
	}
	return false
}

func blank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func text(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// count parses a population cell. Empty and dash placeholders read as zero.
func count(record []string, i int) (int64, bool) {
	s := strings.ReplaceAll(text(record, i), ",", "")
	if s == "" || s == "-" {
		return 0, true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return int64(math.Round(f)), true
}
