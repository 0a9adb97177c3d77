package constants

const (
	ViperServerAddrKey         = "server.addr"
	ViperServerAllowOriginsKey = "server.allow_origins"

	ViperLogLevelKey       = "log.level"
	ViperLogDevelopmentKey = "log.development"

	ViperStatesDirKey           = "data.states_dir"
	ViperStatesHeaderRowsKey    = "data.states_header_rows"
	ViperTownsDirKey            = "data.towns_dir"
	ViperTownsHeaderRowsKey     = "data.towns_header_rows"
	ViperBilingualDirKey        = "data.bilingual_dir"
	ViperBilingualHeaderRowsKey = "data.bilingual_header_rows"
	ViperDistrictTableKey       = "reference.districts"
	ViperPincodeTableKey        = "reference.pincodes"

	ViperWholeStateMatchKey  = "census.whole_state_match"
	ViperWholeStateMarkerKey = "census.whole_state_marker"
	ViperPercentBaseKey      = "census.percent_base"
	ViperReportWorkersKey    = "census.report_workers"

	ViperPostgresDSNKey     = "postgres.dsn"
	ViperPostgresRetriesKey = "postgres.retries"

	ViperBackfillIndexURLKey = "backfill.index_url"
	ViperBackfillRetriesKey  = "backfill.retries"
)
