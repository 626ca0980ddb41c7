package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursedeck/coursedeck-api/internal/models"
)

func newScenarioMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestScenarioRepositoryList(t *testing.T) {
	db, mock, cleanup := newScenarioMock(t)
	defer cleanup()
	repo := NewScenarioRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "term_label", "created_at", "updated_at"}).
		AddRow("scn-1", "Fall Draft 3", "2026FA", time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, name, term_label, created_at, updated_at FROM scenarios WHERE 1=1 ORDER BY created_at DESC LIMIT 20 OFFSET 0").
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM scenarios WHERE 1=1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	scenarios, total, err := repo.List(context.Background(), models.ScenarioFilter{})
	require.NoError(t, err)
	assert.Len(t, scenarios, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScenarioRepositoryListFiltersByTerm(t *testing.T) {
	db, mock, cleanup := newScenarioMock(t)
	defer cleanup()
	repo := NewScenarioRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "term_label", "created_at", "updated_at"})
	mock.ExpectQuery(`FROM scenarios WHERE 1=1 AND term_label = \$1`).
		WithArgs("2026FA").
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM scenarios WHERE 1=1 AND term_label = \$1`).
		WithArgs("2026FA").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	scenarios, total, err := repo.List(context.Background(), models.ScenarioFilter{TermLabel: "2026FA"})
	require.NoError(t, err)
	assert.Empty(t, scenarios)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScenarioRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newScenarioMock(t)
	defer cleanup()
	repo := NewScenarioRepository(db)

	mock.ExpectExec("INSERT INTO scenarios").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	scenario := &models.Scenario{Name: "Fall Draft 3", TermLabel: "2026FA"}
	err := repo.Create(context.Background(), scenario)
	require.NoError(t, err)
	assert.NotEmpty(t, scenario.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScenarioRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newScenarioMock(t)
	defer cleanup()
	repo := NewScenarioRepository(db)

	mock.ExpectExec(`DELETE FROM scenarios WHERE id = \$1`).
		WithArgs("scn-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), "scn-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
