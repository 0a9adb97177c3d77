package store

import (
	"context"
	"errors"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ougirez/mothertongue/internal/domain"
	"github.com/ougirez/mothertongue/internal/pkg/constants"
	"github.com/ougirez/mothertongue/internal/pkg/store/xpgx"
)

type statement struct {
	sql  string
	args []interface{}
}

type fakePool struct {
	statements []statement
	failOn     int
	committed  bool
	rolledBack bool
}

func (p *fakePool) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	p.statements = append(p.statements, statement{sql: sql, args: args})
	if p.failOn > 0 && len(p.statements) == p.failOn {
		return pgconn.CommandTag{}, errors.New("connection reset")
	}
	return pgconn.CommandTag{}, nil
}

func (p *fakePool) Query(_ context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	p.statements = append(p.statements, statement{sql: sql, args: args})
	return &emptyRows{}, nil
}

func (p *fakePool) Execx(ctx context.Context, query squirrel.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return p.Exec(ctx, sql, args...)
}

func (p *fakePool) Queryx(ctx context.Context, query squirrel.Sqlizer) (pgx.Rows, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	return p.Query(ctx, sql, args...)
}

func (p *fakePool) InTx(_ context.Context, fn func(xpgx.Querier) error) error {
	if err := fn(p); err != nil {
		p.rolledBack = true
		return err
	}
	p.committed = true
	return nil
}

func (p *fakePool) Close() {}

type emptyRows struct {
	closed bool
}

func (r *emptyRows) Close()                                       { r.closed = true }
func (r *emptyRows) Err() error                                   { return nil }
func (r *emptyRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *emptyRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *emptyRows) Next() bool                                   { return false }
func (r *emptyRows) Scan(...interface{}) error                    { return nil }
func (r *emptyRows) Values() ([]interface{}, error)               { return nil, nil }
func (r *emptyRows) RawValues() [][]byte                          { return nil }
func (r *emptyRows) Conn() *pgx.Conn                              { return nil }

func newTestStore(pool *fakePool, id uuid.UUID) *store {
	return &store{pool: pool, newID: func() uuid.UUID { return id }}
}

func TestSaveReport(t *testing.T) {
	id := uuid.MustParse("5f0c6a8e-2b8e-4a53-9d0e-4f1f7a7b8c11")
	pool := &fakePool{}

	payloads, err := Payloads([]domain.PopulationTotals{{State: "Goa", Rural: 1, Urban: 2}, {State: "Assam", Rural: 3, Urban: 4}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"Goa","rural":1,"urban":2}`, string(payloads[0]))

	run, err := newTestStore(pool, id).SaveReport(context.Background(), domain.ReportPopulation, 0, payloads)
	require.NoError(t, err)
	assert.Equal(t, id, run.ID)
	assert.Equal(t, 2, run.RowCount)

	require.Len(t, pool.statements, 2)
	assert.Equal(t,
		"INSERT INTO report_runs (id,kind,num_languages,row_count,created_at) VALUES ($1,$2,$3,$4,$5)",
		pool.statements[0].sql)
	assert.Equal(t,
		"INSERT INTO report_rows (run_id,position,payload) VALUES ($1,$2,$3),($4,$5,$6)",
		pool.statements[1].sql)
	assert.Equal(t, []interface{}{id, 0, string(payloads[0]), id, 1, string(payloads[1])}, pool.statements[1].args)
	assert.True(t, pool.committed)
}

func TestSaveReportRollsBackWhenRowsFail(t *testing.T) {
	pool := &fakePool{failOn: 2}

	_, err := newTestStore(pool, uuid.New()).SaveReport(context.Background(), domain.ReportStates, 3, [][]byte{[]byte(`{}`)})
	require.Error(t, err)

	assert.Len(t, pool.statements, 2)
	assert.True(t, pool.rolledBack)
	assert.False(t, pool.committed)
}

func TestSaveLargeReportSplitsInserts(t *testing.T) {
	id := uuid.New()
	pool := &fakePool{}

	payloads := make([][]byte, 24000)
	for i := range payloads {
		payloads[i] = []byte(`{}`)
	}

	run, err := newTestStore(pool, id).SaveReport(context.Background(), domain.ReportTowns, 3, payloads)
	require.NoError(t, err)
	assert.Equal(t, 24000, run.RowCount)

	require.Len(t, pool.statements, 4)
	rows := 0
	for _, st := range pool.statements[1:] {
		assert.LessOrEqual(t, len(st.args), 65535)
		rows += len(st.args) / 3
	}
	assert.Equal(t, 24000, rows)

	last := pool.statements[3]
	assert.Len(t, last.args, 4000*3)
	assert.Equal(t, 20000, last.args[1])
	assert.Equal(t, 23999, last.args[len(last.args)-2])
	assert.True(t, pool.committed)
}

func TestSaveEmptyReportWritesOnlyRun(t *testing.T) {
	pool := &fakePool{}
	_, err := newTestStore(pool, uuid.New()).SaveReport(context.Background(), domain.ReportTowns, 3, nil)
	require.NoError(t, err)
	assert.Len(t, pool.statements, 1)
}

func TestListReportRunsQuery(t *testing.T) {
	kind := domain.ReportStatesWide
	sql, args, err := listReportRunsQuery(ListReportRunsOpts{Kind: &kind, Limit: 10}).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, kind, num_languages, row_count, created_at FROM report_runs WHERE kind = $1 ORDER BY created_at desc LIMIT 10",
		sql)
	assert.Equal(t, []interface{}{kind}, args)

	sql, _, err = listReportRunsQuery(ListReportRunsOpts{}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, kind, num_languages, row_count, created_at FROM report_runs ORDER BY created_at desc", sql)
}

func TestGetReportNotFound(t *testing.T) {
	pool := &fakePool{}
	_, err := newTestStore(pool, uuid.New()).GetReport(context.Background(), uuid.New())
	assert.ErrorIs(t, err, constants.ErrDBNotFound)
}

func TestMigrate(t *testing.T) {
	pool := &fakePool{}
	require.NoError(t, NewStore(pool).Migrate(context.Background()))
	assert.Len(t, pool.statements, len(schema))

	pool = &fakePool{failOn: 1}
	assert.Error(t, NewStore(pool).Migrate(context.Background()))
}
