package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/salesmatrix/sales-matrix/internal/errs"
	"github.com/salesmatrix/sales-matrix/internal/model"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func sampleUser() *model.User {
	return &model.User{
		ID:        uuid.Must(uuid.NewV4()),
		Username:  "alice",
		Email:     "a@b.c",
		Password:  "secret1",
		Role:      "user",
		CreatedAt: time.Now(),
	}
}

func TestUserRepo_Create_OK_and_UniqueViolation(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	u := sampleUser()

	mock.ExpectExec(`INSERT INTO users \(id, username, email, password, role, profile_pic, created_at\)`).
		WithArgs(u.ID, u.Username, u.Email, u.Password, u.Role, u.ProfilePic, u.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Create(ctx, u))

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(u.ID, u.Username, u.Email, u.Password, u.Role, u.ProfilePic, u.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, r.Create(ctx, u), errs.ErrAlreadyExists)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByIdentifier(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())
	created := time.Now()

	mock.ExpectQuery(`SELECT id, username, email, password, role, profile_pic, created_at\s+FROM users WHERE username=\$1 OR email=\$1`).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "password", "role", "profile_pic", "created_at"}).
			AddRow(id, "alice", "a@b.c", "secret1", "user", "", created))
	u, err := r.GetByIdentifier(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)
	require.Equal(t, id, u.ID)

	// no row maps to not found
	mock.ExpectQuery(`SELECT id, username, email, password, role, profile_pic, created_at`).
		WithArgs("nosuch").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "password", "role", "profile_pic", "created_at"}))
	_, err = r.GetByIdentifier(ctx, "nosuch")
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_List(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	created := time.Now()

	mock.ExpectQuery(`SELECT id, username, email, password, role, profile_pic, created_at\s+FROM users ORDER BY created_at`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "password", "role", "profile_pic", "created_at"}).
			AddRow(uuid.Must(uuid.NewV4()), "alice", "a@b.c", "secret1", "user", "", created).
			AddRow(uuid.Must(uuid.NewV4()), "bob", "b@b.c", "secret2", "user", "", created))

	users, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "alice", users[0].Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Upsert(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	u := sampleUser()

	mock.ExpectExec(`ON CONFLICT \(username\) DO UPDATE`).
		WithArgs(u.ID, u.Username, u.Email, u.Password, u.Role, u.ProfilePic, u.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, r.Upsert(context.Background(), u))
	require.NoError(t, mock.ExpectationsWereMet())
}
