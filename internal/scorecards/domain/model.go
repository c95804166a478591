package domain

import "time"

// ScoreCard is one weekly review of a candidate. Metrics are 0-100.
type ScoreCard struct {
	ID                  string    `json:"id"`
	CandidateID         string    `json:"candidateId"`
	CandidateName       string    `json:"candidateName"`
	ReviewerID          string    `json:"reviewerId"`
	ReviewerName        string    `json:"reviewerName"`
	Date                string    `json:"date"`
	Week                int       `json:"week"`
	Attendance          int       `json:"attendance"`
	Communication       int       `json:"communication"`
	Accountability      int       `json:"accountability"`
	CreativityOwnership int       `json:"creativityOwnership"`
	ObjectDelivery      int       `json:"objectDelivery"`
	TechSkills          int       `json:"techSkills"`
	Comments            string    `json:"comments,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}

type ScoreCardInput struct {
	CandidateID         string `json:"candidateId" validate:"required"`
	Week                int    `json:"week" validate:"gte=1"`
	Attendance          int    `json:"attendance" validate:"gte=0,lte=100"`
	Communication       int    `json:"communication" validate:"gte=0,lte=100"`
	Accountability      int    `json:"accountability" validate:"gte=0,lte=100"`
	CreativityOwnership int    `json:"creativityOwnership" validate:"gte=0,lte=100"`
	ObjectDelivery      int    `json:"objectDelivery" validate:"gte=0,lte=100"`
	TechSkills          int    `json:"techSkills" validate:"gte=0,lte=100"`
	Comments            string `json:"comments"`
}
