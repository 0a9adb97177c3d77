package domain

import "github.com/shopspring/decimal"

// RawRow is one spreadsheet record as the row source delivers it. Codes are
// kept as raw cell text since workbooks mix numeric and textual encodings.
type RawRow struct {
	Line              int    `json:"line"`
	TableName         string `json:"table_name"`
	StateCode         string `json:"state_code"`
	DistrictCode      string `json:"district_code"`
	TownCode          string `json:"town_code"`
	AreaName          string `json:"area_name"`
	MotherTongueCode  string `json:"mother_tongue_code"`
	MotherTongueLabel string `json:"mother_tongue_label"`
	Total             int64  `json:"total"`
	Males             int64  `json:"males"`
	Females           int64  `json:"females"`
	Rural             int64  `json:"rural"`
	Urban             int64  `json:"urban"`

	// Unreadable marks count cells that did not parse; their value is zero.
	Unreadable CountColumns `json:"unreadable,omitempty"`
}

// CountColumns is a set of RawRow population columns.
type CountColumns uint8

const (
	CountTotal CountColumns = 1 << iota
	CountMales
	CountFemales
	CountRural
	CountUrban
)

func (c CountColumns) Has(col CountColumns) bool {
	return c&col != 0
}

// BilingualRow follows the fixed three-group layout of bilingual workbooks.
type BilingualRow struct {
	Line                     int    `json:"line"`
	PrimaryLanguage          string `json:"primary_language"`
	PrimaryPersons           int64  `json:"primary_persons"`
	FirstSubsidiaryLanguage  string `json:"first_subsidiary_language"`
	FirstSubsidiaryPersons   int64  `json:"first_subsidiary_persons"`
	SecondSubsidiaryLanguage string `json:"second_subsidiary_language"`
	SecondSubsidiaryPersons  int64  `json:"second_subsidiary_persons"`
}

type LanguageEntry struct {
	Language string `json:"language"`
	Persons  int64  `json:"persons"`
}

type StateLanguages struct {
	State     string          `json:"state"`
	Languages []LanguageEntry `json:"top_languages"`
}

type DistrictLanguages struct {
	State        string          `json:"state"`
	District     string          `json:"district"`
	DistrictCode float64         `json:"district_code"`
	Languages    []LanguageEntry `json:"top_languages"`
}

type BilingualSummary struct {
	State               string          `json:"state"`
	TopLanguages        []LanguageEntry `json:"top_languages"`
	TopFirstSubsidiary  []LanguageEntry `json:"top_first_subsidiary"`
	TopSecondSubsidiary []LanguageEntry `json:"top_second_subsidiary"`
}

// StateReportRow is one ranked language of one state in the flat report.
type StateReportRow struct {
	State    string          `json:"state"`
	Rank     int             `json:"rank"`
	Language string          `json:"language"`
	Persons  int64           `json:"persons"`
	Percent  decimal.Decimal `json:"percent"`
}

type PivotRowKind string

const (
	PivotPersons PivotRowKind = "persons"
	PivotPercent PivotRowKind = "percent"
)

// PivotRow is one line of the wide report: every state yields a persons line
// followed by a percent line over the same languages.
type PivotRow struct {
	State     string            `json:"state"`
	Kind      PivotRowKind      `json:"kind"`
	Languages []string          `json:"languages"`
	Values    []decimal.Decimal `json:"values"`
}

type TownReportRow struct {
	State        string   `json:"state"`
	DistrictCode float64  `json:"district_code"`
	DistrictName string   `json:"district_name"`
	TownCode     float64  `json:"town_code"`
	TownName     string   `json:"town_name"`
	Rank         int      `json:"rank"`
	Language     string   `json:"language"`
	Persons      int64    `json:"persons"`
	Pincodes     []string `json:"pincodes,omitempty"`
}

type PopulationTotals struct {
	State string `json:"state"`
	Rural int64  `json:"rural"`
	Urban int64  `json:"urban"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
