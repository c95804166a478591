package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talenthub/portal-backend/internal/cohorts/domain"
	"github.com/talenthub/portal-backend/internal/cohorts/repository"
	"github.com/talenthub/portal-backend/internal/store"
	"github.com/talenthub/portal-backend/internal/store/storetest"
	usersdomain "github.com/talenthub/portal-backend/internal/users/domain"
	"github.com/talenthub/portal-backend/internal/validation"
)

type fakeMembers map[string][]usersdomain.User

func (f fakeMembers) ByCohort(ctx context.Context, id string) ([]usersdomain.User, error) {
	return f[id], nil
}

func TestCohortService(t *testing.T) {
	ctx := context.Background()
	members := fakeMembers{}
	svc := NewCohortService(repository.NewCohortRepository(storetest.New(t)), members, nil)

	_, err := svc.Create(ctx, domain.CohortInput{Name: " ", Program: "Data Science"})
	assert.ErrorIs(t, err, validation.ErrValidation)

	_, err = svc.Create(ctx, domain.CohortInput{Name: "C1", Program: "Java", StartDate: "March"})
	assert.ErrorIs(t, err, validation.ErrValidation)

	older, err := svc.Create(ctx, domain.CohortInput{Name: "Cohort 12", Program: "Java", StartDate: "2024-01-15", Size: 25})
	require.NoError(t, err)
	newer, err := svc.Create(ctx, domain.CohortInput{Name: "Cohort 14", Program: "AI Bootcamp", Sponsor: "Standard Bank", StartDate: "2024-06-01"})
	require.NoError(t, err)
	assert.NotEmpty(t, newer.ID)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	members[older.ID] = []usersdomain.User{{ID: "u1", Name: "Lerato"}}
	c, roster, err := svc.Roster(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cohort 12", c.Name)
	assert.Len(t, roster, 1)

	_, _, err = svc.Roster(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, err, domain.ErrCohortNotFound)
}
