package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a GORM connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
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

	return gormDB, mock, mockDB
}

func newMockContactRepository(t *testing.T) (*GormContactRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormContactRepository(gormDB), mock, mockDB
}

func TestGormContactRepository_FindByID(t *testing.T) {
	t.Run("finds existing contact", func(t *testing.T) {
		repo, mock, mockDB := newMockContactRepository(t)
		defer mockDB.Close()

		contactID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "status", "tags", "version"}).
			AddRow(contactID, "Jane", "Doe", "jane@example.com", "Active", `["vip"]`, 1)

		mock.ExpectQuery(`SELECT \* FROM "contacts" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(contactID, 1).
			WillReturnRows(rows)

		c, err := repo.FindByID(context.Background(), contactID)

		assert.NoError(t, err)
		assert.NotNil(t, c)
		assert.Equal(t, contactID, c.ID)
		assert.Equal(t, "jane@example.com", c.Email)
		assert.Equal(t, contact.ContactStatusActive, c.Status)
		assert.Equal(t, []string{"vip"}, c.Tags)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing contact", func(t *testing.T) {
		repo, mock, mockDB := newMockContactRepository(t)
		defer mockDB.Close()

		contactID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "contacts" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(contactID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		c, err := repo.FindByID(context.Background(), contactID)

		assert.Error(t, err)
		assert.Nil(t, c)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormContactRepository_FindByEmail(t *testing.T) {
	t.Run("lowercases the email before querying", func(t *testing.T) {
		repo, mock, mockDB := newMockContactRepository(t)
		defer mockDB.Close()

		contactID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "status", "version"}).
			AddRow(contactID, "Jane", "Doe", "jane@example.com", "Active", 1)

		mock.ExpectQuery(`SELECT \* FROM "contacts" WHERE email = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("jane@example.com", 1).
			WillReturnRows(rows)

		c, err := repo.FindByEmail(context.Background(), "Jane@Example.COM")

		assert.NoError(t, err)
		assert.Equal(t, contactID, c.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects empty email without hitting the database", func(t *testing.T) {
		repo, _, mockDB := newMockContactRepository(t)
		defer mockDB.Close()

		c, err := repo.FindByEmail(context.Background(), "")

		assert.Error(t, err)
		assert.Nil(t, c)
	})
}

func TestGormContactRepository_Delete(t *testing.T) {
	t.Run("deletes existing contact", func(t *testing.T) {
		repo, mock, mockDB := newMockContactRepository(t)
		defer mockDB.Close()

		contactID := uuid.New()

		mock.ExpectExec(`DELETE FROM "contacts" WHERE id = \$1`).
			WithArgs(contactID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), contactID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when nothing was deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockContactRepository(t)
		defer mockDB.Close()

		contactID := uuid.New()

		mock.ExpectExec(`DELETE FROM "contacts" WHERE id = \$1`).
			WithArgs(contactID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), contactID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormContactRepository_ExistsByEmail(t *testing.T) {
	t.Run("returns true when a row matches", func(t *testing.T) {
		repo, mock, mockDB := newMockContactRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"count"}).AddRow(1)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "contacts" WHERE email = \$1`).
			WithArgs("jane@example.com").
			WillReturnRows(rows)

		exists, err := repo.ExistsByEmail(context.Background(), "jane@example.com")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty email reports not existing", func(t *testing.T) {
		repo, _, mockDB := newMockContactRepository(t)
		defer mockDB.Close()

		exists, err := repo.ExistsByEmail(context.Background(), "")

		assert.NoError(t, err)
		assert.False(t, exists)
	})
}
