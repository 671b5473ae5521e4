package activity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewActivity(t *testing.T) {
	a, err := NewActivity(TypeCall, "Called Acme about renewal")
	require.NoError(t, err)

	assert.Equal(t, TypeCall, a.Type)
	assert.Nil(t, a.UserID)
	assert.Nil(t, a.RelatedToID)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestNewActivityValidation(t *testing.T) {
	_, err := NewActivity(ActivityType("fax"), "something")
	require.Error(t, err)

	_, err = NewActivity(TypeNote, "   ")
	require.Error(t, err)
}

func TestActivityAttribution(t *testing.T) {
	userID := uuid.New()
	relatedID := uuid.New()

	a, err := NewActivity(TypeStageChange, "Moved to Negotiation")
	require.NoError(t, err)

	a.WithUser(userID).WithRelated(relatedID, "Opportunity")

	require.NotNil(t, a.UserID)
	assert.Equal(t, userID, *a.UserID)
	require.NotNil(t, a.RelatedToID)
	assert.Equal(t, relatedID, *a.RelatedToID)
	assert.Equal(t, "Opportunity", a.RelatedToType)
}
