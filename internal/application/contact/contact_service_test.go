package contact

import (
	"context"
	"testing"

	appactivity "github.com/crm/backend/internal/application/activity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *ContactService {
	t.Helper()
	recorder := appactivity.NewRecorder(memory.NewActivityRepository(), nil, true)
	return NewContactService(memory.NewContactRepository(), recorder)
}

func TestContactServiceCreate(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Create(context.Background(), CreateContactRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "Jane.Doe@Example.com",
		Company:   "Acme Corp",
	})
	require.NoError(t, err)

	assert.Equal(t, "jane.doe@example.com", resp.Email)
	assert.Equal(t, "Jane Doe", resp.FullName)
	assert.Equal(t, "Acme Corp", resp.Company)
}

func TestContactServiceCreateDuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), CreateContactRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateContactRequest{
		FirstName: "John",
		LastName:  "Smith",
		Email:     "JANE@example.com",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestContactServiceUpdatePreservesFields(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), CreateContactRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Phone:     "555-0100",
		Company:   "Acme Corp",
	})
	require.NoError(t, err)

	newCompany := "Globex"
	updated, err := svc.Update(context.Background(), created.ID, UpdateContactRequest{
		Company: &newCompany,
	})
	require.NoError(t, err)

	assert.Equal(t, "Globex", updated.Company)
	assert.Equal(t, "Jane", updated.FirstName)
	assert.Equal(t, "555-0100", updated.Phone)
	assert.Equal(t, "jane@example.com", updated.Email)
}

func TestContactServiceUpdateEmailConflict(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), CreateContactRequest{
		FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
	})
	require.NoError(t, err)

	other, err := svc.Create(context.Background(), CreateContactRequest{
		FirstName: "John", LastName: "Smith", Email: "john@example.com",
	})
	require.NoError(t, err)

	taken := "jane@example.com"
	_, err = svc.Update(context.Background(), other.ID, UpdateContactRequest{Email: &taken})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)

	// Re-submitting your own email is not a conflict
	own := "john@example.com"
	_, err = svc.Update(context.Background(), other.ID, UpdateContactRequest{Email: &own})
	assert.NoError(t, err)
}

func TestContactServiceDeleteTwice(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), CreateContactRequest{
		FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID, nil))
	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID, nil), shared.ErrNotFound)
}
