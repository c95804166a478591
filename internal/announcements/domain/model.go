package domain

import (
	"fmt"
	"time"

	"github.com/talenthub/portal-backend/internal/store"
)

const (
	TypeGeneral = "General"
	TypeUrgent  = "Urgent"
	TypeEvent   = "Event"
)

var ErrAnnouncementNotFound = fmt.Errorf("announcement %w", store.ErrNotFound)

type Announcement struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Content          string    `json:"content"`
	Date             string    `json:"date"`
	Type             string    `json:"type"`
	TargetCohortID   string    `json:"targetCohortId"`
	TargetCohortName string    `json:"targetCohortName"`
	ImageURL         string    `json:"imageUrl,omitempty"`
	AuthorID         string    `json:"authorId"`
	AuthorName       string    `json:"authorName"`
	CreatedAt        time.Time `json:"createdAt"`
}

type AnnouncementInput struct {
	Title          string `json:"title" validate:"required"`
	Content        string `json:"content" validate:"required"`
	Type           string `json:"type" validate:"omitempty,oneof=General Urgent Event"`
	TargetCohortID string `json:"targetCohortId"`
	ImageURL       string `json:"imageUrl" validate:"omitempty,url"`
}
