package language

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ougirez/mothertongue/internal/domain"
	"github.com/ougirez/mothertongue/internal/pkg/census"
	"github.com/ougirez/mothertongue/internal/pkg/constants"
)

// maxByLanguage keeps the largest persons value observed per lower-cased
// language. Rows repeat a language once per district, so the largest value is
// the state figure.
type maxByLanguage struct {
	lower  cases.Caser
	values map[census.LanguageKey]int64
}

func newMaxByLanguage() *maxByLanguage {
	return &maxByLanguage{
		lower:  cases.Lower(language.Und),
		values: make(map[census.LanguageKey]int64),
	}
}

func (m *maxByLanguage) add(label string, persons int64) {
	key := census.LanguageKey(m.lower.String(strings.TrimSpace(label)))
	if key == "" {
		return
	}
	if cur, ok := m.values[key]; !ok || persons > cur {
		m.values[key] = persons
	}
}

// BilingualSummary ranks the primary and both subsidiary language groups of
// the state's bilingual workbook independently.
func (s *Service) BilingualSummary(ctx context.Context, state string, n int) (*domain.BilingualSummary, error) {
	if s.src.Bilingual == nil {
		return nil, fmt.Errorf("%w: bilingual dataset is not configured", constants.ErrSourceNotFound)
	}

	rows, err := s.src.Bilingual.BilingualRows(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("BilingualRows %s: %w", state, err)
	}

	primary, first, second := newMaxByLanguage(), newMaxByLanguage(), newMaxByLanguage()
	for _, r := range rows {
		primary.add(r.PrimaryLanguage, r.PrimaryPersons)
		first.add(r.FirstSubsidiaryLanguage, r.FirstSubsidiaryPersons)
		second.add(r.SecondSubsidiaryLanguage, r.SecondSubsidiaryPersons)
	}

	return &domain.BilingualSummary{
		State:               state,
		TopLanguages:        toLanguageEntries(census.Rank(primary.values, n)),
		TopFirstSubsidiary:  toLanguageEntries(census.Rank(first.values, n)),
		TopSecondSubsidiary: toLanguageEntries(census.Rank(second.values, n)),
	}, nil
}
