package task

import (
	"context"
	"testing"

	appactivity "github.com/crm/backend/internal/application/activity"
	appcontact "github.com/crm/backend/internal/application/contact"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	tasks    *TaskService
	contacts *appcontact.ContactService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	recorder := appactivity.NewRecorder(memory.NewActivityRepository(), nil, true)
	contactRepo := memory.NewContactRepository()
	return &testEnv{
		tasks: NewTaskService(
			memory.NewTaskRepository(),
			contactRepo,
			memory.NewLeadRepository(),
			memory.NewOpportunityRepository(),
			recorder,
		),
		contacts: appcontact.NewContactService(contactRepo, recorder),
	}
}

func TestTaskServiceCreate(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.tasks.Create(context.Background(), CreateTaskRequest{
		Title:    "Call the customer",
		Priority: "High",
	})
	require.NoError(t, err)

	assert.Equal(t, "Call the customer", resp.Title)
	assert.Equal(t, "High", resp.Priority)
	assert.Equal(t, "Todo", resp.Status)
	assert.Nil(t, resp.RelatedTo)
}

func TestTaskServiceLinkSnapshotsName(t *testing.T) {
	env := newTestEnv(t)

	contact, err := env.contacts.Create(context.Background(), appcontact.CreateContactRequest{
		FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
	})
	require.NoError(t, err)

	created, err := env.tasks.Create(context.Background(), CreateTaskRequest{
		Title: "Follow up",
		RelatedTo: &RelatedToRequest{
			Type: "Contact",
			ID:   contact.ID,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, created.RelatedTo)
	assert.Equal(t, "Jane Doe", created.RelatedTo.Name)

	// The snapshot name survives deletion of the referenced contact
	require.NoError(t, env.contacts.Delete(context.Background(), contact.ID, nil))

	loaded, err := env.tasks.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.RelatedTo)
	assert.Equal(t, "Jane Doe", loaded.RelatedTo.Name)
}

func TestTaskServiceLinkUnknownRecord(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.tasks.Create(context.Background(), CreateTaskRequest{
		Title: "Follow up",
		RelatedTo: &RelatedToRequest{
			Type: "Lead",
			ID:   uuid.New(),
		},
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestTaskServiceUpdatePreservesFields(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.tasks.Create(context.Background(), CreateTaskRequest{
		Title:       "Prepare proposal",
		Description: "Draft for review",
		Priority:    "High",
	})
	require.NoError(t, err)

	status := "In Progress"
	updated, err := env.tasks.Update(context.Background(), created.ID, UpdateTaskRequest{
		Status: &status,
	})
	require.NoError(t, err)

	assert.Equal(t, "In Progress", updated.Status)
	assert.Equal(t, "Prepare proposal", updated.Title)
	assert.Equal(t, "Draft for review", updated.Description)
	assert.Equal(t, "High", updated.Priority)
}

func TestTaskServiceClearLink(t *testing.T) {
	env := newTestEnv(t)

	contact, err := env.contacts.Create(context.Background(), appcontact.CreateContactRequest{
		FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
	})
	require.NoError(t, err)

	created, err := env.tasks.Create(context.Background(), CreateTaskRequest{
		Title:     "Follow up",
		RelatedTo: &RelatedToRequest{Type: "Contact", ID: contact.ID},
	})
	require.NoError(t, err)

	updated, err := env.tasks.Update(context.Background(), created.ID, UpdateTaskRequest{
		ClearLink: true,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.RelatedTo)
}

func TestTaskServiceComplete(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.tasks.Create(context.Background(), CreateTaskRequest{Title: "Wrap up"})
	require.NoError(t, err)

	resp, err := env.tasks.Complete(context.Background(), created.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Completed", resp.Status)
}

func TestTaskServiceDeleteTwice(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.tasks.Create(context.Background(), CreateTaskRequest{Title: "Wrap up"})
	require.NoError(t, err)

	require.NoError(t, env.tasks.Delete(context.Background(), created.ID, nil))
	assert.ErrorIs(t, env.tasks.Delete(context.Background(), created.ID, nil), shared.ErrNotFound)
}
