package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ReportKind string

const (
	ReportStates     ReportKind = "states"
	ReportStatesWide ReportKind = "states_wide"
	ReportTowns      ReportKind = "towns"
	ReportPopulation ReportKind = "population"
)

// ReportRun identifies one archived batch report.
type ReportRun struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Kind         ReportKind `json:"kind" db:"kind"`
	NumLanguages int        `json:"num_languages" db:"num_languages"`
	RowCount     int        `json:"row_count" db:"row_count"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

type ArchivedReport struct {
	Run  ReportRun         `json:"run"`
	Rows []json.RawMessage `json:"rows"`
}
