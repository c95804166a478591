package domain

import (
	"fmt"

	"github.com/talenthub/portal-backend/internal/store"
)

// AllCohorts is the announcement target meaning every cohort.
const AllCohorts = "All"

var ErrCohortNotFound = fmt.Errorf("cohort %w", store.ErrNotFound)

type Cohort struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Program   string `json:"program"`
	Sponsor   string `json:"sponsor,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	Size      int    `json:"size"`
}

type CohortInput struct {
	Name      string `json:"name" validate:"required"`
	Program   string `json:"program" validate:"required"`
	Sponsor   string `json:"sponsor"`
	StartDate string `json:"startDate" validate:"omitempty,date"`
	Size      int    `json:"size" validate:"gte=0"`
}
