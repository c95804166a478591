package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	analyticsdomain "github.com/talenthub/portal-backend/internal/analytics/domain"
	"github.com/talenthub/portal-backend/internal/logging"
	"github.com/talenthub/portal-backend/internal/users/domain"
	"github.com/talenthub/portal-backend/internal/users/repository"
	"github.com/talenthub/portal-backend/internal/validation"
)

// Accounts is the auth collaborator's provisioning half.
type Accounts interface {
	CreateAccount(ctx context.Context, email, password, displayName string) (string, error)
	DeleteAccount(ctx context.Context, uid string) error
}

type UserService struct {
	repo     *repository.UserRepository
	accounts Accounts
	logger   *zap.Logger
}

func NewUserService(repo *repository.UserRepository, accounts Accounts, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, accounts: accounts, logger: logger}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.Get(ctx, id)
}

// Directory lists every user ordered by name.
func (s *UserService) Directory(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sortByName(users)
	return users, nil
}

func (s *UserService) ByCohort(ctx context.Context, cohortID string) ([]domain.User, error) {
	if err := validation.Required("cohortId", cohortID); err != nil {
		return nil, err
	}
	users, err := s.repo.ListByCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}
	sortByName(users)
	return users, nil
}

func (s *UserService) ByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	return s.repo.ListByRole(ctx, role)
}

// Provision creates the auth account, then the user document, then (for
// candidates) a zeroed candidate_metrics row. A failed document write deletes
// the just-created account again.
func (s *UserService) Provision(ctx context.Context, in domain.ProvisionInput) (*domain.User, error) {
	log := logging.WithRequest(ctx, s.logger).With(zap.String("operation", "provision_user"))

	if in.Role == "" {
		in.Role = domain.RoleCandidate
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, validation.New("role", "is not a known role")
	}

	uid, err := s.accounts.CreateAccount(ctx, in.Email, in.Password, in.Name)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	user := &domain.User{
		ID:         uid,
		Name:       in.Name,
		Email:      in.Email,
		Role:       in.Role,
		Status:     domain.StatusActive,
		Avatar:     in.Avatar,
		CohortID:   in.CohortID,
		Department: orDefault(in.Department, domain.DefaultDepartment),
		Phone:      in.Phone,
		Location:   orDefault(in.Location, domain.DefaultLocation),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if derr := s.accounts.DeleteAccount(ctx, uid); derr != nil {
			log.Error("failed to roll back auth account", zap.String("uid", uid), zap.Error(derr))
		}
		return nil, err
	}

	if user.Role == domain.RoleCandidate {
		cohortName := "Unassigned"
		if user.CohortID != "" {
			cohortName = "Assigned"
		}
		metric := &analyticsdomain.CandidateMetric{ID: uid, Name: user.Name, CohortName: cohortName}
		if err := s.repo.CreateMetrics(ctx, metric); err != nil {
			// the account is usable without metrics; a rescore recreates them
			log.Warn("failed to create candidate metrics", zap.String("uid", uid), zap.Error(err))
		}
	}

	log.Info("user provisioned", zap.String("uid", uid), zap.String("role", string(user.Role)))
	return user, nil
}

// AdminUpdate applies admin edits and returns the stored result.
func (s *UserService) AdminUpdate(ctx context.Context, id string, upd domain.AdminUpdate) (*domain.User, error) {
	fields := map[string]any{}

	if upd.Name != nil {
		if err := validation.Required("name", *upd.Name); err != nil {
			return nil, err
		}
		fields["name"] = *upd.Name
	}
	if upd.Role != nil {
		if !upd.Role.Valid() {
			return nil, validation.New("role", "is not a known role")
		}
		fields["role"] = string(*upd.Role)
	}
	if upd.Status != nil {
		if *upd.Status != domain.StatusActive && *upd.Status != domain.StatusInactive {
			return nil, validation.New("status", "must be Active or Inactive")
		}
		fields["status"] = *upd.Status
	}
	if upd.Department != nil {
		fields["department"] = *upd.Department
	}
	if upd.CohortID != nil {
		fields["cohortId"] = *upd.CohortID
	}
	if upd.Phone != nil {
		fields["phone"] = *upd.Phone
	}
	if upd.Location != nil {
		fields["location"] = *upd.Location
	}
	if len(fields) == 0 {
		return nil, validation.New("", "no fields to update")
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// ApplyProfileFields copies approved profile changes onto the user verbatim.
func (s *UserService) ApplyProfileFields(ctx context.Context, id string, fields domain.ProfileFields) error {
	values := fields.Fields()
	if len(values) == 0 {
		return nil
	}
	return s.repo.Update(ctx, id, values)
}

// Delete hard-deletes the user and their metrics. Request history is left in
// place with a dangling owner id.
func (s *UserService) Delete(ctx context.Context, id string) error {
	log := logging.WithRequest(ctx, s.logger).With(zap.String("operation", "delete_user"))

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteMetrics(ctx, id); err != nil {
		log.Warn("failed to delete candidate metrics", zap.String("uid", id), zap.Error(err))
	}
	if s.accounts != nil {
		if err := s.accounts.DeleteAccount(ctx, id); err != nil {
			log.Warn("failed to delete auth account", zap.String("uid", id), zap.Error(err))
		}
	}

	log.Info("user deleted", zap.String("uid", id))
	return nil
}

func sortByName(users []domain.User) {
	sort.SliceStable(users, func(i, j int) bool {
		return strings.ToLower(users[i].Name) < strings.ToLower(users[j].Name)
	})
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
