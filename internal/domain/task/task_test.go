package task

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	tk, err := NewTask("Follow up with Acme", PriorityHigh)
	require.NoError(t, err)

	assert.Equal(t, StatusTodo, tk.Status)
	assert.Equal(t, PriorityHigh, tk.Priority)
	assert.True(t, tk.IsActive())
}

func TestNewTaskDefaultsPriority(t *testing.T) {
	tk, err := NewTask("Follow up", "")
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, tk.Priority)
}

func TestNewTaskRequiresTitle(t *testing.T) {
	_, err := NewTask("  ", PriorityLow)
	require.Error(t, err)
}

func TestTaskStatusLifecycle(t *testing.T) {
	tk, err := NewTask("Demo prep", PriorityMedium)
	require.NoError(t, err)

	require.NoError(t, tk.SetStatus(StatusInProgress))
	assert.True(t, tk.IsActive())

	require.NoError(t, tk.SetStatus(StatusCompleted))
	assert.False(t, tk.IsActive())

	// cancelled tasks still count as open work for dashboard purposes
	require.NoError(t, tk.SetStatus(StatusCancelled))
	assert.True(t, tk.IsActive())

	err = tk.SetStatus(TaskStatus("Paused"))
	require.Error(t, err)
}

func TestTaskLinkTo(t *testing.T) {
	tk, err := NewTask("Call lead", PriorityUrgent)
	require.NoError(t, err)

	related := &RelatedTo{Type: RelatedTypeLead, ID: uuid.New(), Name: "Acme Rollout"}
	require.NoError(t, tk.LinkTo(related))
	assert.Equal(t, "Acme Rollout", tk.RelatedTo.Name)

	// clearing the link is allowed
	require.NoError(t, tk.LinkTo(nil))
	assert.Nil(t, tk.RelatedTo)

	err = tk.LinkTo(&RelatedTo{Type: RelatedType("Invoice"), ID: uuid.New()})
	require.Error(t, err)

	err = tk.LinkTo(&RelatedTo{Type: RelatedTypeContact, ID: uuid.Nil})
	require.Error(t, err)
}
