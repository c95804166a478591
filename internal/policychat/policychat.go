// Package policychat answers HR policy questions from a fixed knowledge base.
package policychat

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/talenthub/portal-backend/internal/logging"
	"github.com/talenthub/portal-backend/internal/metrics"
	"github.com/talenthub/portal-backend/internal/oracle"
	"github.com/talenthub/portal-backend/internal/validation"
)

const operation = "policy"

// FallbackReply is returned whenever the oracle cannot answer.
const FallbackReply = "I'm having trouble connecting to the policy database. Please try again later."

const systemInstruction = `You are the AI Policy Navigator for CAPACITI. Your goal is to assist employees and managers with HR policies, onboarding, and compliance.
Use the following context as your "Knowledge Base":

[CAPACITI KNOWLEDGE BASE]
1. LEAVE POLICY: Employees accrue 1.25 days of leave per month. Sick leave requires a medical certificate if absent for more than 2 days.
2. REMOTE WORK: Remote work is permitted for Tech Champions and Senior Managers on Tuesdays and Thursdays. Candidates must be on-site.
3. ONBOARDING: Day 1 includes IT setup and HR orientation. Day 2-5 involves technical bootcamps.
4. EXPENSES: All travel expenses must be pre-approved by a Manager. Receipts must be uploaded within 48 hours.
5. CODE OF CONDUCT: Respect, Integrity, and Innovation are our core values. Harassment of any kind is zero-tolerance.
6. IT SUPPORT: Submit tickets via the portal. Severity 1 issues are resolved in 4 hours.

If the user asks something not in this list, politely explain you only have access to core HR policies. Keep answers concise and helpful.`

// maxHistory bounds how many prior turns are replayed to the oracle.
const maxHistory = 20

type Service struct {
	oracle  oracle.Client
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func New(client oracle.Client, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{oracle: client, metrics: m, logger: logger}
}

// Ask answers message in the context of history. Only an empty message is
// an error; oracle failures yield FallbackReply.
func (s *Service) Ask(ctx context.Context, history []oracle.Message, message string) (string, error) {
	message = strings.TrimSpace(message)
	if err := validation.Required("message", message); err != nil {
		return "", err
	}
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}

	turns := make([]oracle.Message, 0, len(history))
	for _, m := range history {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		if m.Role != oracle.RoleModel {
			m.Role = oracle.RoleUser
		}
		turns = append(turns, m)
	}

	if s.oracle == nil {
		s.metrics.Fallback(operation)
		return FallbackReply, nil
	}

	reply, err := s.oracle.Complete(ctx, oracle.Request{
		Operation: operation,
		System:    systemInstruction,
		History:   turns,
		Prompt:    message,
	})
	if err == nil {
		reply = strings.TrimSpace(reply)
	}
	if err != nil || reply == "" {
		s.metrics.Fallback(operation)
		logging.WithRequest(ctx, s.logger).Warn("policy chat unavailable", zap.Error(err))
		return FallbackReply, nil
	}
	return reply, nil
}
