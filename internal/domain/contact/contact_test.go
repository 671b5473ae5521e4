package contact

import (
	"testing"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContact(t *testing.T) {
	t.Run("creates contact with defaults", func(t *testing.T) {
		c, err := NewContact("Jane", "Doe", "jane.doe@example.com")
		require.NoError(t, err)

		assert.Equal(t, "Jane", c.FirstName)
		assert.Equal(t, "Doe", c.LastName)
		assert.Equal(t, "jane.doe@example.com", c.Email)
		assert.Equal(t, ContactStatusActive, c.Status)
		assert.Empty(t, c.Tags)
		assert.NotEqual(t, c.ID.String(), "00000000-0000-0000-0000-000000000000")
		assert.Len(t, c.GetDomainEvents(), 1)
	})

	t.Run("lowercases email", func(t *testing.T) {
		c, err := NewContact("Jane", "Doe", "Jane.Doe@Example.COM")
		require.NoError(t, err)
		assert.Equal(t, "jane.doe@example.com", c.Email)
	})

	t.Run("rejects empty first name", func(t *testing.T) {
		_, err := NewContact("", "Doe", "jane@example.com")
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_NAME", domainErr.Code)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := NewContact("Jane", "Doe", "not-an-email")
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_EMAIL", domainErr.Code)
	})
}

func TestContactFullName(t *testing.T) {
	c, err := NewContact("Jane", "Doe", "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", c.FullName())
}

func TestContactSetStatus(t *testing.T) {
	c, err := NewContact("Jane", "Doe", "jane@example.com")
	require.NoError(t, err)

	require.NoError(t, c.SetStatus(ContactStatusInactive))
	assert.Equal(t, ContactStatusInactive, c.Status)

	err = c.SetStatus(ContactStatus("Archived"))
	require.Error(t, err)
	assert.Equal(t, ContactStatusInactive, c.Status)
}

func TestContactUpdateIncrementsVersion(t *testing.T) {
	c, err := NewContact("Jane", "Doe", "jane@example.com")
	require.NoError(t, err)
	require.Equal(t, 1, c.GetVersion())

	require.NoError(t, c.UpdateName("Janet", "Doe"))
	assert.Equal(t, 2, c.GetVersion())
	assert.Equal(t, "Janet", c.FirstName)
}

func TestContactSetTagsNilBecomesEmpty(t *testing.T) {
	c, err := NewContact("Jane", "Doe", "jane@example.com")
	require.NoError(t, err)

	c.SetTags(nil)
	assert.NotNil(t, c.Tags)
	assert.Empty(t, c.Tags)
}
