package policychat

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talenthub/portal-backend/internal/oracle"
	"github.com/talenthub/portal-backend/internal/validation"
)

type recordingOracle struct {
	reply string
	err   error
	got   oracle.Request
}

func (r *recordingOracle) Complete(ctx context.Context, req oracle.Request) (string, error) {
	r.got = req
	return r.reply, r.err
}

func TestAsk_SendsKnowledgeBaseAndHistory(t *testing.T) {
	o := &recordingOracle{reply: "  You accrue 1.25 days per month.\n"}
	svc := New(o, nil, nil)

	history := []oracle.Message{
		{Role: "user", Text: "Hi"},
		{Role: "model", Text: "Hello! How can I help?"},
		{Role: "assistant", Text: "   "},
	}
	reply, err := svc.Ask(context.Background(), history, " How much leave do I get? ")
	require.NoError(t, err)
	assert.Equal(t, "You accrue 1.25 days per month.", reply)

	assert.Contains(t, o.got.System, "[CAPACITI KNOWLEDGE BASE]")
	assert.Equal(t, "How much leave do I get?", o.got.Prompt)
	assert.False(t, o.got.WantsJSON())
	require.Len(t, o.got.History, 2)
	assert.Equal(t, oracle.RoleModel, o.got.History[1].Role)
}

func TestAsk_Fallback(t *testing.T) {
	for name, client := range map[string]oracle.Client{
		"error": &recordingOracle{err: errors.New("unreachable")},
		"empty": &recordingOracle{reply: " "},
		"none":  nil,
	} {
		t.Run(name, func(t *testing.T) {
			reply, err := New(client, nil, nil).Ask(context.Background(), nil, "Can I work remotely?")
			require.NoError(t, err)
			assert.Equal(t, FallbackReply, reply)
		})
	}
}

func TestAsk_EmptyMessage(t *testing.T) {
	_, err := New(&recordingOracle{reply: "x"}, nil, nil).Ask(context.Background(), nil, "  ")
	assert.ErrorIs(t, err, validation.ErrValidation)
}

func TestAsk_TrimsLongHistory(t *testing.T) {
	o := &recordingOracle{reply: "ok"}
	history := make([]oracle.Message, 30)
	for i := range history {
		history[i] = oracle.Message{Role: oracle.RoleUser, Text: strings.Repeat("q", i+1)}
	}

	_, err := New(o, nil, nil).Ask(context.Background(), history, "next")
	require.NoError(t, err)
	require.Len(t, o.got.History, maxHistory)
	assert.Equal(t, strings.Repeat("q", 30), o.got.History[maxHistory-1].Text)
}

func TestHandler_Ask(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(New(&recordingOracle{reply: "Day 1 is IT setup."}, nil, nil)).Register(r.Group("/policy"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/policy/ask", bytes.NewBufferString(`{"message":"What happens on day 1?"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reply":"Day 1 is IT setup."}`, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/policy/ask", bytes.NewBufferString(`{"message":""}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
