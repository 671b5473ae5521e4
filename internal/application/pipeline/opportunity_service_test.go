package pipeline

import (
	"context"
	"testing"
	"time"

	appactivity "github.com/crm/backend/internal/application/activity"
	"github.com/crm/backend/internal/domain/activity"
	domainpipeline "github.com/crm/backend/internal/domain/pipeline"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*OpportunityService, *memory.ActivityRepository) {
	t.Helper()
	activityRepo := memory.NewActivityRepository()
	recorder := appactivity.NewRecorder(activityRepo, nil, true)
	return NewOpportunityService(memory.NewOpportunityRepository(), recorder), activityRepo
}

func createOpportunity(t *testing.T, svc *OpportunityService, name string, amount int64, probability int) *OpportunityResponse {
	t.Helper()
	resp, err := svc.Create(context.Background(), CreateOpportunityRequest{
		Name:              name,
		AccountName:       "Acme Corp",
		Amount:            decimal.NewFromInt(amount),
		Probability:       probability,
		ExpectedCloseDate: time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	return resp
}

func TestOpportunityServiceCreate(t *testing.T) {
	svc, activityRepo := newTestService(t)

	resp := createOpportunity(t, svc, "Big Deal", 1000, 50)

	assert.Equal(t, "Big Deal", resp.Name)
	assert.Equal(t, string(domainpipeline.StageProspecting), resp.Stage)
	assert.True(t, decimal.NewFromInt(500).Equal(resp.WeightedValue))

	recorded, err := activityRepo.FindRecent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, activity.TypeNote, recorded[0].Type)
}

func TestOpportunityServiceCreateWithStage(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Create(context.Background(), CreateOpportunityRequest{
		Name:              "Inherited Deal",
		AccountName:       "Acme Corp",
		Stage:             string(domainpipeline.StageNegotiation),
		Amount:            decimal.NewFromInt(1000),
		Probability:       50,
		ExpectedCloseDate: time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domainpipeline.StageNegotiation), resp.Stage)

	_, err = svc.Create(context.Background(), CreateOpportunityRequest{
		Name:              "Lost Deal",
		AccountName:       "Acme Corp",
		Stage:             "Nowhere",
		Amount:            decimal.NewFromInt(1000),
		Probability:       50,
		ExpectedCloseDate: time.Now().AddDate(0, 1, 0),
	})
	require.Error(t, err)
}

func TestOpportunityServiceUpdatePreservesFields(t *testing.T) {
	svc, _ := newTestService(t)
	created := createOpportunity(t, svc, "Big Deal", 1000, 50)

	newAmount := decimal.NewFromInt(2500)
	updated, err := svc.Update(context.Background(), created.ID, UpdateOpportunityRequest{
		Amount: &newAmount,
	})
	require.NoError(t, err)

	assert.Equal(t, "Big Deal", updated.Name)
	assert.Equal(t, "Acme Corp", updated.AccountName)
	assert.Equal(t, 50, updated.Probability)
	assert.True(t, newAmount.Equal(updated.Amount))
}

func TestOpportunityServiceChangeStage(t *testing.T) {
	svc, activityRepo := newTestService(t)
	created := createOpportunity(t, svc, "Big Deal", 1000, 50)

	resp, err := svc.ChangeStage(context.Background(), created.ID, ChangeStageRequest{
		Stage: string(domainpipeline.StageClosedWon),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domainpipeline.StageClosedWon), resp.Stage)

	recorded, err := activityRepo.FindRecent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, recorded, 2)
	assert.Equal(t, activity.TypeStageChange, recorded[0].Type)
	assert.Contains(t, recorded[0].Description, "Closed Won")

	// Moving to the current stage records nothing
	_, err = svc.ChangeStage(context.Background(), created.ID, ChangeStageRequest{
		Stage: string(domainpipeline.StageClosedWon),
	})
	require.NoError(t, err)

	recorded, err = activityRepo.FindRecent(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, recorded, 2)

	// Closed deals can reopen
	resp, err = svc.ChangeStage(context.Background(), created.ID, ChangeStageRequest{
		Stage: string(domainpipeline.StageNegotiation),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domainpipeline.StageNegotiation), resp.Stage)
}

func TestOpportunityServiceChangeStageInvalid(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ChangeStage(context.Background(), createOpportunity(t, svc, "x", 1, 0).ID, ChangeStageRequest{
		Stage: "Nowhere",
	})
	require.Error(t, err)
}

func TestPipelineViewWeightedValue(t *testing.T) {
	svc, _ := newTestService(t)

	createOpportunity(t, svc, "Deal A", 1000, 50)
	createOpportunity(t, svc, "Deal B", 2000, 50)
	createOpportunity(t, svc, "Deal C", 3000, 50)

	view, err := svc.PipelineView(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, view.TotalCount)
	assert.True(t, decimal.NewFromInt(6000).Equal(view.TotalValue), "total was %s", view.TotalValue)
	assert.True(t, decimal.NewFromInt(3000).Equal(view.WeightedValue), "weighted was %s", view.WeightedValue)
}

func TestPipelineViewIncludesEmptyStages(t *testing.T) {
	svc, _ := newTestService(t)
	createOpportunity(t, svc, "Only Deal", 1000, 50)

	view, err := svc.PipelineView(context.Background())
	require.NoError(t, err)

	require.Len(t, view.Stages, len(domainpipeline.Stages))
	for i, stage := range domainpipeline.Stages {
		assert.Equal(t, string(stage), view.Stages[i].Stage)
		assert.NotNil(t, view.Stages[i].Opportunities)
	}
	assert.Equal(t, 1, view.Stages[0].Count)
	for _, group := range view.Stages[1:] {
		assert.Equal(t, 0, group.Count)
		assert.True(t, group.TotalValue.IsZero())
	}
}

func TestOpportunityServiceDelete(t *testing.T) {
	svc, _ := newTestService(t)
	created := createOpportunity(t, svc, "Doomed Deal", 1000, 50)

	require.NoError(t, svc.Delete(context.Background(), created.ID, nil))

	err := svc.Delete(context.Background(), created.ID, nil)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
