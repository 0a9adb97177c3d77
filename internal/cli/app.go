package cli

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/ougirez/mothertongue/internal/pkg/census"
	"github.com/ougirez/mothertongue/internal/pkg/constants"
	"github.com/ougirez/mothertongue/internal/pkg/logger"
	"github.com/ougirez/mothertongue/internal/pkg/reference"
	"github.com/ougirez/mothertongue/internal/pkg/store"
	"github.com/ougirez/mothertongue/internal/pkg/store/xpgx"
	"github.com/ougirez/mothertongue/internal/pkg/workbook"
	"github.com/ougirez/mothertongue/internal/service/backfill"
	"github.com/ougirez/mothertongue/internal/service/language"
)

func languageOptions(v *viper.Viper) (language.Options, error) {
	match, ok := census.ParseCodeMatch(v.GetString(constants.ViperWholeStateMatchKey))
	if !ok {
		return language.Options{}, fmt.Errorf("%s: unknown code match %q", constants.ViperWholeStateMatchKey, v.GetString(constants.ViperWholeStateMatchKey))
	}

	base, ok := language.ParsePercentBase(v.GetString(constants.ViperPercentBaseKey))
	if !ok {
		return language.Options{}, fmt.Errorf("%s: unknown percent base %q", constants.ViperPercentBaseKey, v.GetString(constants.ViperPercentBaseKey))
	}

	return language.Options{
		WholeStateMatch:  match,
		WholeStateMarker: v.GetString(constants.ViperWholeStateMarkerKey),
		PercentBase:      base,
		Workers:          v.GetInt(constants.ViperReportWorkersKey),
	}, nil
}

type sourceLayouts struct {
	states    workbook.Layout
	towns     workbook.Layout
	bilingual workbook.BilingualLayout
}

// layouts reads the header depth of each workbook family separately.
func layouts(v *viper.Viper) sourceLayouts {
	return sourceLayouts{
		states:    workbook.DistrictLayout(v.GetInt(constants.ViperStatesHeaderRowsKey)),
		towns:     workbook.TownLayout(v.GetInt(constants.ViperTownsHeaderRowsKey)),
		bilingual: workbook.DefaultBilingualLayout(v.GetInt(constants.ViperBilingualHeaderRowsKey)),
	}
}

// newLanguageService builds the row sources and loads the configured
// reference tables.
func newLanguageService(ctx context.Context, v *viper.Viper) (*language.Service, error) {
	opts, err := languageOptions(v)
	if err != nil {
		return nil, err
	}

	l := layouts(v)
	src := language.Sources{
		States: workbook.NewRawSource(v.GetString(constants.ViperStatesDirKey), l.states),
		Towns:  workbook.NewRawSource(v.GetString(constants.ViperTownsDirKey), l.towns),
	}

	if dir := v.GetString(constants.ViperBilingualDirKey); dir != "" {
		src.Bilingual = workbook.NewBilingualSource(dir, l.bilingual)
	}

	if path := v.GetString(constants.ViperDistrictTableKey); path != "" {
		rows, err := workbook.ReadTable(path)
		if err != nil {
			return nil, fmt.Errorf("district table: %w", err)
		}
		districts, err := reference.LoadDistricts(rows)
		if err != nil {
			return nil, fmt.Errorf("district table: %w", err)
		}
		logger.Infof(ctx, "loaded %d districts from %s", districts.Len(), path)
		src.Districts = districts
	}

	if path := v.GetString(constants.ViperPincodeTableKey); path != "" {
		rows, err := workbook.ReadTable(path)
		if err != nil {
			return nil, fmt.Errorf("pincode table: %w", err)
		}
		pincodes, err := reference.LoadPincodes(rows)
		if err != nil {
			return nil, fmt.Errorf("pincode table: %w", err)
		}
		logger.Infof(ctx, "loaded pincodes for %d towns from %s", pincodes.Len(), path)
		src.Pincodes = pincodes
	}

	return language.NewLanguageService(src, opts), nil
}

func newBackfillService(v *viper.Viper) *backfill.Service {
	dirs := map[string]string{
		backfill.DatasetStates: v.GetString(constants.ViperStatesDirKey),
		backfill.DatasetTowns:  v.GetString(constants.ViperTownsDirKey),
	}
	if dir := v.GetString(constants.ViperBilingualDirKey); dir != "" {
		dirs[backfill.DatasetBilingual] = dir
	}

	return backfill.NewBackfillService(dirs, backfill.Options{
		Retries: v.GetUint64(constants.ViperBackfillRetriesKey),
		Workers: v.GetInt(constants.ViperReportWorkersKey),
	})
}

// openStore connects the report archive. It returns a nil store when no DSN
// is configured.
func openStore(ctx context.Context, v *viper.Viper) (store.Store, func(), error) {
	dsn := v.GetString(constants.ViperPostgresDSNKey)
	if dsn == "" {
		return nil, func() {}, nil
	}

	pool, err := xpgx.Connect(ctx, dsn, v.GetUint64(constants.ViperPostgresRetriesKey))
	if err != nil {
		return nil, nil, fmt.Errorf("xpgx.Connect: %w", err)
	}

	s := store.NewStore(pool)
	if err = s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("Migrate: %w", err)
	}

	return s, pool.Close, nil
}
