package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yoklama/backend/internal/domain/user"
)

// newMockUserRepository creates a GormUserRepository with a mocked SQL connection
func newMockUserRepository(t *testing.T) (*GormUserRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormUserRepository(gormDB), mock, mockDB
}

func TestGormUserRepository_FindByID(t *testing.T) {
	t.Run("finds existing user", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "student_number", "encrypted_password", "has_accepted_terms"}).
			AddRow(int64(42), "1702.01001", "ct-abc", true)

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(int64(42), 1).
			WillReturnRows(rows)

		found, err := repo.FindByID(context.Background(), 42)

		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, int64(42), found.ID)
		require.NotNil(t, found.StudentNumber)
		assert.Equal(t, "1702.01001", *found.StudentNumber)
		assert.True(t, found.HasAcceptedTerms)
		assert.True(t, found.HasCredentials())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to ErrNotFound", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(int64(42), 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), 42)
		assert.ErrorIs(t, err, user.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUserRepository_FindWithCredentials(t *testing.T) {
	repo, mock, mockDB := newMockUserRepository(t)
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{"id", "student_number", "encrypted_password", "has_accepted_terms"}).
		AddRow(int64(1), "1702.01001", "ct-a", true).
		AddRow(int64(2), "1702.01002", "ct-b", false)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE student_number IS NOT NULL AND encrypted_password IS NOT NULL ORDER BY id ASC`).
		WillReturnRows(rows)

	users, err := repo.FindWithCredentials(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(1), users[0].ID)
	assert.True(t, users[0].HasCredentials())
	assert.Equal(t, int64(2), users[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The write paths run against a real schema; ON CONFLICT clauses and NULL
// updates are easier to verify end to end than through statement mocks.
func TestGormUserRepository_WritePaths(t *testing.T) {
	ctx := context.Background()

	t.Run("create is idempotent", func(t *testing.T) {
		repo := NewGormUserRepository(newTestDB(t))

		require.NoError(t, repo.Create(ctx, 42))
		require.NoError(t, repo.Create(ctx, 42))

		found, err := repo.FindByID(ctx, 42)
		require.NoError(t, err)
		assert.False(t, found.HasAcceptedTerms)
		assert.False(t, found.HasCredentials())
	})

	t.Run("save credentials registers unknown users", func(t *testing.T) {
		repo := NewGormUserRepository(newTestDB(t))

		require.NoError(t, repo.SaveCredentials(ctx, 42, "1702.01001", "ct-abc"))

		found, err := repo.FindByID(ctx, 42)
		require.NoError(t, err)
		assert.True(t, found.HasCredentials())
		assert.Equal(t, "ct-abc", *found.EncryptedPassword)
	})

	t.Run("save credentials overwrites the previous pair", func(t *testing.T) {
		repo := NewGormUserRepository(newTestDB(t))

		require.NoError(t, repo.SaveCredentials(ctx, 42, "1702.01001", "ct-old"))
		require.NoError(t, repo.SaveCredentials(ctx, 42, "1702.09999", "ct-new"))

		found, err := repo.FindByID(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "1702.09999", *found.StudentNumber)
		assert.Equal(t, "ct-new", *found.EncryptedPassword)
	})

	t.Run("invalidate clears credentials and keeps the user", func(t *testing.T) {
		repo := NewGormUserRepository(newTestDB(t))

		require.NoError(t, repo.SaveCredentials(ctx, 42, "1702.01001", "ct-abc"))
		require.NoError(t, repo.InvalidateCredentials(ctx, 42))

		found, err := repo.FindByID(ctx, 42)
		require.NoError(t, err)
		assert.False(t, found.HasCredentials())

		users, err := repo.FindWithCredentials(ctx)
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("invalidate unknown user", func(t *testing.T) {
		repo := NewGormUserRepository(newTestDB(t))

		err := repo.InvalidateCredentials(ctx, 42)
		assert.ErrorIs(t, err, user.ErrNotFound)
	})

	t.Run("accept terms", func(t *testing.T) {
		repo := NewGormUserRepository(newTestDB(t))

		require.NoError(t, repo.Create(ctx, 42))
		require.NoError(t, repo.AcceptTerms(ctx, 42))

		found, err := repo.FindByID(ctx, 42)
		require.NoError(t, err)
		assert.True(t, found.HasAcceptedTerms)

		assert.ErrorIs(t, repo.AcceptTerms(ctx, 99), user.ErrNotFound)
	})

	t.Run("all ids", func(t *testing.T) {
		repo := NewGormUserRepository(newTestDB(t))

		require.NoError(t, repo.Create(ctx, 3))
		require.NoError(t, repo.Create(ctx, 1))
		require.NoError(t, repo.Create(ctx, 2))

		ids, err := repo.AllIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2, 3}, ids)
	})
}
