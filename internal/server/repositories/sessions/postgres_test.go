package sessions

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/vkushnir/contactbook/internal/common"
	"github.com/vkushnir/contactbook/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const findQuery = `(?s)^SELECT\s+id,\s*user_id,\s*access_token,\s*refresh_token,\s*access_expires_at,\s*refresh_expires_at,\s*created_at\s+FROM\s+sessions\b`

func sessionRow(s *models.Session) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "access_token", "refresh_token",
		"access_expires_at", "refresh_expires_at", "created_at",
	}).AddRow(s.ID, s.UserID, s.AccessToken, s.RefreshToken,
		s.AccessExpiresAt, s.RefreshExpiresAt, s.CreatedAt)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+sessions\b.*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s+RETURNING\s+id,\s*created_at\s*$`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("u1", "access", "refresh", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("s1", now))

	session := &models.Session{
		UserID: "u1", AccessToken: "access", RefreshToken: "refresh",
		AccessExpiresAt: now.Add(15 * time.Minute), RefreshExpiresAt: now.Add(720 * time.Hour),
	}
	got, err := repo.Create(context.Background(), session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "s1" || !got.CreatedAt.Equal(now) {
		t.Fatalf("returning columns not applied: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+sessions\b`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Session{UserID: "u1"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFindByRefreshToken_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	want := &models.Session{
		ID: "s1", UserID: "u1", AccessToken: "access", RefreshToken: "refresh",
		AccessExpiresAt: now.Add(time.Minute), RefreshExpiresAt: now.Add(time.Hour), CreatedAt: now,
	}

	mock.ExpectQuery(findQuery + `.*WHERE\s+refresh_token\s*=\s*\$1\s*$`).
		WithArgs("refresh").
		WillReturnRows(sessionRow(want))

	got, err := repo.FindByRefreshToken(context.Background(), "refresh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "s1" || got.UserID != "u1" || got.RefreshToken != "refresh" {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestFindByRefreshToken_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(findQuery).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByRefreshToken(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestFindLive_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	want := &models.Session{
		ID: "s1", UserID: "u1", AccessToken: "access", RefreshToken: "refresh",
		AccessExpiresAt: now.Add(time.Minute), RefreshExpiresAt: now.Add(time.Hour), CreatedAt: now,
	}

	q := findQuery + `.*WHERE\s+user_id\s*=\s*\$1\s+AND\s+access_token\s*=\s*\$2\s+AND\s+access_expires_at\s*>\s*\$3\s*$`
	mock.ExpectQuery(q).
		WithArgs("u1", "access", sqlmock.AnyArg()).
		WillReturnRows(sessionRow(want))

	got, err := repo.FindLive(context.Background(), "u1", "access", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "s1" {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestFindLive_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(findQuery).
		WithArgs("u1", "access", sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindLive(context.Background(), "u1", "access", time.Now())
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDeleteByRefreshToken_ReportsRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+sessions\s+WHERE\s+refresh_token\s*=\s*\$1\s*$`
	mock.ExpectExec(q).
		WithArgs("refresh").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.DeleteByRefreshToken(context.Background(), "refresh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Fatalf("want 1 row, got %d", n)
	}
}

func TestDeleteByRefreshToken_NoRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+sessions\s+WHERE\s+refresh_token\s*=\s*\$1\s*$`).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.DeleteByRefreshToken(context.Background(), "gone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("want 0 rows, got %d", n)
	}
}

func TestDeleteAllForUser_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+sessions\s+WHERE\s+user_id\s*=\s*\$1\s*$`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.DeleteAllForUser(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
