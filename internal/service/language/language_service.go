package language

import (
	"context"
	"fmt"

	"github.com/ougirez/mothertongue/internal/domain"
	"github.com/ougirez/mothertongue/internal/pkg/census"
	"github.com/ougirez/mothertongue/internal/pkg/constants"
)

// RowSource yields the raw rows of one state workbook.
type RowSource interface {
	ListStates(ctx context.Context) ([]string, error)
	StateRows(ctx context.Context, state string) ([]domain.RawRow, error)
}

type BilingualSource interface {
	BilingualRows(ctx context.Context, state string) ([]domain.BilingualRow, error)
}

type DistrictResolver interface {
	Resolve(state, district string) (census.Code, error)
}

type PincodeLookup interface {
	Lookup(town string) []string
}

// Sources groups the collaborators of the service. Districts and Pincodes may
// be nil when the reference tables are not configured; operations needing
// them fail with ErrReferenceTableMalformed.
type Sources struct {
	States    RowSource
	Towns     RowSource
	Bilingual BilingualSource
	Districts DistrictResolver
	Pincodes  PincodeLookup
}

type PercentBase int

const (
	PercentOfScopeTotal PercentBase = iota + 1
	PercentOfTopN
)

func ParsePercentBase(s string) (PercentBase, bool) {
	switch s {
	case "", "scope_total":
		return PercentOfScopeTotal, true
	case "top_n":
		return PercentOfTopN, true
	default:
		return 0, false
	}
}

type Options struct {
	WholeStateMatch  census.CodeMatch
	WholeStateMarker string
	PercentBase      PercentBase
	Workers          int
}

func DefaultOptions() Options {
	return Options{
		WholeStateMatch:  census.MatchNumeric,
		WholeStateMarker: census.DefaultWholeStateMarker,
		PercentBase:      PercentOfScopeTotal,
		Workers:          4,
	}
}

type Service struct {
	src  Sources
	opts Options
}

func NewLanguageService(src Sources, opts Options) *Service {
	def := DefaultOptions()
	if opts.WholeStateMatch == 0 {
		opts.WholeStateMatch = def.WholeStateMatch
	}
	if opts.WholeStateMarker == "" {
		opts.WholeStateMarker = def.WholeStateMarker
	}
	if opts.PercentBase == 0 {
		opts.PercentBase = def.PercentBase
	}
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	return &Service{src: src, opts: opts}
}

func (s *Service) wholeStateQuery() census.Query {
	return census.WholeStateQuery(s.opts.WholeStateMatch, s.opts.WholeStateMarker)
}

func (s *Service) allTownsQuery() census.Query {
	return census.AllTownsQuery(s.opts.WholeStateMatch, s.opts.WholeStateMarker)
}

func (s *Service) ListStates(ctx context.Context) ([]string, error) {
	states, err := s.src.States.ListStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListStates: %w", err)
	}
	return states, nil
}

func (s *Service) TopLanguagesForState(ctx context.Context, state string, n int) (*domain.StateLanguages, error) {
	rows, err := loadRows(ctx, s.src.States, state)
	if err != nil {
		return nil, err
	}

	top, err := census.Top(rows, s.wholeStateQuery(), n)
	if err != nil {
		return nil, fmt.Errorf("census.Top: %w", err)
	}

	return &domain.StateLanguages{State: state, Languages: toLanguageEntries(top)}, nil
}

func (s *Service) TopLanguagesForDistrict(ctx context.Context, state, district string, n int) (*domain.DistrictLanguages, error) {
	if s.src.Districts == nil {
		return nil, fmt.Errorf("%w: district table is not loaded", constants.ErrReferenceTableMalformed)
	}

	code, err := s.src.Districts.Resolve(state, district)
	if err != nil {
		return nil, fmt.Errorf("Districts.Resolve: %w", err)
	}

	rows, err := loadRows(ctx, s.src.States, state)
	if err != nil {
		return nil, err
	}

	top, err := census.Top(rows, census.DistrictQuery(code), n)
	if err != nil {
		return nil, fmt.Errorf("census.Top: %w", err)
	}

	return &domain.DistrictLanguages{
		State:        state,
		District:     district,
		DistrictCode: float64(code),
		Languages:    toLanguageEntries(top),
	}, nil
}

func loadRows(ctx context.Context, src RowSource, state string) ([]census.Row, error) {
	raws, err := src.StateRows(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("StateRows %s: %w", state, err)
	}
	return census.NormalizeAll(raws), nil
}

func toLanguageEntries(entries []census.Entry) []domain.LanguageEntry {
	out := make([]domain.LanguageEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.LanguageEntry{Language: string(e.Language), Persons: e.Value})
	}
	return out
}
