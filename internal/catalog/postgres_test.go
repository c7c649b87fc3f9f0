package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parche-recommender/internal/models"
)

var planColumns = []string{"id", "name", "category", "description", "rating", "tags", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db, 50), mock
}

// ==========================================
// Reads
// ==========================================

func TestPostgresRepository_Snapshot(t *testing.T) {
	repo, mock := newMockRepo(t)
	stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(planColumns).
		AddRow("p1", "Rooftop Sunset", "romantic", "Terraza", 4.8, "{rooftop,vino}", stamp, stamp).
		AddRow("p2", "Hatoviejo", "food", "Cocina paisa", 4.4, "{}", stamp, stamp)
	mock.ExpectQuery(`SELECT (.+) FROM plans ORDER BY id LIMIT \$1`).
		WithArgs(51).
		WillReturnRows(rows)

	plans, err := repo.Snapshot(context.Background())

	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, []string{"rooftop", "vino"}, plans[0].Tags)
	assert.Equal(t, "2026-03-01T12:00:00Z", plans[0].CreatedAt)
	assert.Empty(t, plans[1].Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_SnapshotRejectsOversizedCatalog(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewPostgresRepository(db, 2)

	stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(planColumns).
		AddRow("p1", "Rooftop Sunset", "romantic", "", 4.8, "{}", stamp, stamp).
		AddRow("p2", "Hatoviejo", "food", "", 4.4, "{}", stamp, stamp).
		AddRow("p3", "Parque Arví", "nature", "", 4.3, "{}", stamp, stamp)
	mock.ExpectQuery(`SELECT (.+) FROM plans ORDER BY id LIMIT \$1`).
		WithArgs(3).
		WillReturnRows(rows)

	plans, err := repo.Snapshot(context.Background())

	require.Error(t, err)
	assert.Nil(t, plans)
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.ErrorIs(t, err, ErrCatalogTooLarge)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_SnapshotAtLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewPostgresRepository(db, 2)

	stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(planColumns).
		AddRow("p1", "Rooftop Sunset", "romantic", "", 4.8, "{}", stamp, stamp).
		AddRow("p2", "Hatoviejo", "food", "", 4.4, "{}", stamp, stamp)
	mock.ExpectQuery(`SELECT (.+) FROM plans`).WithArgs(3).WillReturnRows(rows)

	plans, err := repo.Snapshot(context.Background())

	require.NoError(t, err)
	assert.Len(t, plans, 2)
}

func TestPostgresRepository_SnapshotEmptyIsNonNil(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT (.+) FROM plans`).WillReturnRows(sqlmock.NewRows(planColumns))

	plans, err := repo.Snapshot(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, plans)
	assert.Empty(t, plans)
}

func TestPostgresRepository_SnapshotFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT (.+) FROM plans`).WillReturnError(errors.New("connection refused"))

	_, err := repo.Snapshot(context.Background())

	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestPostgresRepository_Get(t *testing.T) {
	repo, mock := newMockRepo(t)
	stamp := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM plans WHERE id = \$1`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(planColumns).AddRow("p1", "Rooftop Sunset", "romantic", "", 4.8, "{rooftop}", stamp, stamp))
	mock.ExpectQuery(`SELECT (.+) FROM plans WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(planColumns))

	got, err := repo.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Rooftop Sunset", got.Name)

	_, err = repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrPlanNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================================
// Writes
// ==========================================

func TestPostgresRepository_Insert(t *testing.T) {
	repo, mock := newMockRepo(t)
	plan := models.PlanRecord{ID: "p9", Name: "Salsa al Parque", Category: "nightlife", Rating: 4.5, Tags: []string{"salsa"}}

	mock.ExpectExec(`INSERT INTO plans`).
		WithArgs("p9", "Salsa al Parque", "nightlife", "", 4.5, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO plans`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

	require.NoError(t, repo.Insert(context.Background(), plan))
	assert.ErrorIs(t, repo.Insert(context.Background(), plan), ErrDuplicatePlan)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_InsertRejectsInvalid(t *testing.T) {
	repo, mock := newMockRepo(t)

	err := repo.Insert(context.Background(), models.PlanRecord{ID: "x", Name: "x", Rating: 6})

	assert.ErrorIs(t, err, ErrInvalidCatalog)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Update(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE plans SET`).
		WithArgs("p1", "Rooftop Sunset", "romantic", "", 4.9, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE plans SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Update(context.Background(), models.PlanRecord{ID: "p1", Name: "Rooftop Sunset", Category: "romantic", Rating: 4.9}))
	err := repo.Update(context.Background(), models.PlanRecord{ID: "ghost", Name: "Ghost"})
	assert.ErrorIs(t, err, ErrPlanNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Upsert(t *testing.T) {
	repo, mock := newMockRepo(t)
	plans := samplePlans()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO plans (.+) ON CONFLICT \(id\) DO UPDATE`)
	for _, p := range plans {
		prep.ExpectExec().
			WithArgs(p.ID, p.Name, p.Category, p.Description, p.Rating, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.Upsert(context.Background(), plans))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_UpsertRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)
	plans := samplePlans()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO plans`)
	prep.ExpectExec().WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Upsert(context.Background(), plans)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "p1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_EnsureSchema(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS plans`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
