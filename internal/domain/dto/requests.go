package dto

type StateLanguagesRequest struct {
	StateName    string `json:"state_name" validate:"required"`
	NumLanguages int    `json:"num_languages" validate:"required,min=1,max=1000"`
}

type DistrictLanguagesRequest struct {
	StateName    string `json:"state_name" validate:"required"`
	DistrictName string `json:"district_name" validate:"required"`
	NumLanguages int    `json:"num_languages" validate:"required,min=1,max=1000"`
}

type BilingualRequest struct {
	StateName    string `json:"state_name" validate:"required"`
	NumLanguages int    `json:"num_languages" validate:"required,min=1,max=1000"`
}

const (
	FormatFlat = "flat"
	FormatWide = "wide"
)

type StatesReportQuery struct {
	NumLanguages int    `query:"num_languages" validate:"required,min=1,max=1000"`
	Format       string `query:"format" validate:"omitempty,oneof=flat wide"`
}

type TownsReportQuery struct {
	NumLanguages int  `query:"num_languages" validate:"required,min=1,max=1000"`
	Pincodes     bool `query:"pincodes"`
}

type ReportRunsQuery struct {
	Kind  string `query:"kind" validate:"omitempty,oneof=states states_wide towns population"`
	Limit uint64 `query:"limit" validate:"omitempty,max=1000"`
}

type BackfillRequest struct {
	Dataset  string `json:"dataset" validate:"required,oneof=states towns bilingual"`
	IndexURL string `json:"index_url" validate:"required,url"`
}
