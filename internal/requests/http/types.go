package http

import (
	"github.com/talenthub/portal-backend/internal/requests/service"
	usersdomain "github.com/talenthub/portal-backend/internal/users/domain"
)

// Handler bundles the dependencies for request endpoints.
type Handler struct {
	submission *service.SubmissionService
	approval   *service.ApprovalService
	history    *service.HistoryService
}

func New(submission *service.SubmissionService, approval *service.ApprovalService, history *service.HistoryService) *Handler {
	return &Handler{submission: submission, approval: approval, history: history}
}

type approveReq struct {
	Applied *usersdomain.ProfileFields `json:"applied,omitempty"`
}
