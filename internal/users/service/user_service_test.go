package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analyticsdomain "github.com/talenthub/portal-backend/internal/analytics/domain"
	"github.com/talenthub/portal-backend/internal/store"
	"github.com/talenthub/portal-backend/internal/store/redisstore"
	"github.com/talenthub/portal-backend/internal/users/domain"
	"github.com/talenthub/portal-backend/internal/users/repository"
	"github.com/talenthub/portal-backend/internal/validation"
)

type fakeAccounts struct {
	created []string
	deleted []string
	err     error
}

func (f *fakeAccounts) CreateAccount(ctx context.Context, email, password, displayName string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	uid := "uid-" + email
	f.created = append(f.created, uid)
	return uid, nil
}

func (f *fakeAccounts) DeleteAccount(ctx context.Context, uid string) error {
	f.deleted = append(f.deleted, uid)
	return nil
}

// failUserWrites rejects creates in the users collection.
type failUserWrites struct {
	store.Store
}

func (s failUserWrites) Create(ctx context.Context, collection, id string, doc any) error {
	if collection == store.Users {
		return store.Wrap("create", errors.New("unavailable"))
	}
	return s.Store.Create(ctx, collection, id, doc)
}

func newStore(t *testing.T) store.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redisstore.New(client)
}

func TestProvision_CandidateGetsDefaultsAndMetrics(t *testing.T) {
	s := newStore(t)
	accounts := &fakeAccounts{}
	svc := NewUserService(repository.NewUserRepository(s), accounts, nil)
	ctx := context.Background()

	u, err := svc.Provision(ctx, domain.ProvisionInput{Name: "Ayanda Zulu", Email: "ayanda@capaciti.org", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "uid-ayanda@capaciti.org", u.ID)
	assert.Equal(t, domain.RoleCandidate, u.Role)
	assert.Equal(t, domain.StatusActive, u.Status)
	assert.Equal(t, domain.DefaultDepartment, u.Department)
	assert.Equal(t, domain.DefaultLocation, u.Location)

	var metric analyticsdomain.CandidateMetric
	require.NoError(t, s.Get(ctx, store.CandidateMetrics, u.ID, &metric))
	assert.Equal(t, "Unassigned", metric.CohortName)
	assert.Nil(t, metric.RiskScore)

	stored, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ayanda Zulu", stored.Name)
}

func TestProvision_ManagerHasNoMetrics(t *testing.T) {
	s := newStore(t)
	svc := NewUserService(repository.NewUserRepository(s), &fakeAccounts{}, nil)
	ctx := context.Background()

	u, err := svc.Provision(ctx, domain.ProvisionInput{Name: "M", Email: "m@capaciti.org", Password: "secret1", Role: domain.RoleManager})
	require.NoError(t, err)

	var metric analyticsdomain.CandidateMetric
	err = s.Get(ctx, store.CandidateMetrics, u.ID, &metric)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestProvision_Validation(t *testing.T) {
	accounts := &fakeAccounts{}
	svc := NewUserService(repository.NewUserRepository(newStore(t)), accounts, nil)
	ctx := context.Background()

	_, err := svc.Provision(ctx, domain.ProvisionInput{Name: "A", Email: "not-an-email", Password: "secret1"})
	assert.ErrorIs(t, err, validation.ErrValidation)

	_, err = svc.Provision(ctx, domain.ProvisionInput{Name: "A", Email: "a@b.co", Password: "123"})
	assert.ErrorIs(t, err, validation.ErrValidation)

	_, err = svc.Provision(ctx, domain.ProvisionInput{Name: "A", Email: "a@b.co", Password: "secret1", Role: "Intern"})
	assert.ErrorIs(t, err, validation.ErrValidation)

	assert.Empty(t, accounts.created)
}

func TestProvision_RollsBackAccountWhenDocumentWriteFails(t *testing.T) {
	accounts := &fakeAccounts{}
	svc := NewUserService(repository.NewUserRepository(failUserWrites{Store: newStore(t)}), accounts, nil)

	_, err := svc.Provision(context.Background(), domain.ProvisionInput{Name: "A", Email: "a@b.co", Password: "secret1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrPersistence)
	assert.Equal(t, accounts.created, accounts.deleted)
}

func TestAdminUpdate(t *testing.T) {
	s := newStore(t)
	svc := NewUserService(repository.NewUserRepository(s), &fakeAccounts{}, nil)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, store.Users, "u1", domain.User{ID: "u1", Name: "Old", Role: domain.RoleCandidate, Status: domain.StatusActive}))

	role := domain.RoleTechChampion
	status := domain.StatusInactive
	u, err := svc.AdminUpdate(ctx, "u1", domain.AdminUpdate{Role: &role, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTechChampion, u.Role)
	assert.Equal(t, domain.StatusInactive, u.Status)
	assert.Equal(t, "Old", u.Name)

	bad := "Suspended"
	_, err = svc.AdminUpdate(ctx, "u1", domain.AdminUpdate{Status: &bad})
	assert.ErrorIs(t, err, validation.ErrValidation)

	_, err = svc.AdminUpdate(ctx, "missing", domain.AdminUpdate{Role: &role})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDirectoryAndDelete(t *testing.T) {
	s := newStore(t)
	accounts := &fakeAccounts{}
	svc := NewUserService(repository.NewUserRepository(s), accounts, nil)
	ctx := context.Background()

	for _, u := range []domain.User{
		{ID: "b", Name: "bongani", Role: domain.RoleCandidate, CohortID: "c1"},
		{ID: "a", Name: "Amahle", Role: domain.RoleManager},
		{ID: "c", Name: "Chloe", Role: domain.RoleCandidate, CohortID: "c1"},
	} {
		require.NoError(t, s.Set(ctx, store.Users, u.ID, u))
	}

	all, err := svc.Directory(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Amahle", "bongani", "Chloe"}, []string{all[0].Name, all[1].Name, all[2].Name})

	roster, err := svc.ByCohort(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, roster, 2)

	_, err = svc.ByCohort(ctx, "")
	assert.ErrorIs(t, err, validation.ErrValidation)

	require.NoError(t, svc.Delete(ctx, "b"))
	assert.Equal(t, []string{"b"}, accounts.deleted)
	_, err = svc.Get(ctx, "b")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "b"), store.ErrNotFound)
}

func TestApplyProfileFields_OnlyNonEmpty(t *testing.T) {
	s := newStore(t)
	svc := NewUserService(repository.NewUserRepository(s), nil, nil)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, store.Users, "u1", domain.User{ID: "u1", Name: "N", Phone: "+27000", Bio: "keep"}))

	require.NoError(t, svc.ApplyProfileFields(ctx, "u1", domain.ProfileFields{Phone: "+27111"}))

	u, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "+27111", u.Phone)
	assert.Equal(t, "keep", u.Bio)
}
