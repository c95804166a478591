package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talenthub/portal-backend/internal/metrics"
)

type stubClient struct {
	text string
	err  error
	last Request
}

func (s *stubClient) Complete(ctx context.Context, req Request) (string, error) {
	s.last = req
	return s.text, s.err
}

type verdict struct {
	Status string `json:"status" validate:"required,oneof=OK BAD"`
	Score  int    `json:"score" validate:"gte=0,lte=100"`
}

func TestDecode(t *testing.T) {
	ctx := context.Background()

	var v verdict
	err := Decode(ctx, &stubClient{text: "```json\n{\"status\":\"OK\",\"score\":87}\n```"}, Request{Operation: "t"}, &v)
	require.NoError(t, err)
	assert.Equal(t, verdict{Status: "OK", Score: 87}, v)

	err = Decode(ctx, &stubClient{text: `{"status":"MAYBE","score":10}`}, Request{Operation: "t"}, &v)
	assert.ErrorIs(t, err, ErrExternalService)

	err = Decode(ctx, &stubClient{text: "not json"}, Request{Operation: "t"}, &v)
	assert.ErrorIs(t, err, ErrExternalService)

	err = Decode(ctx, &stubClient{err: errors.New("boom")}, Request{Operation: "t"}, &v)
	assert.ErrorIs(t, err, ErrExternalService)

	var list []verdict
	err = Decode(ctx, &stubClient{text: `[{"status":"OK","score":1},{"status":"BAD","score":101}]`}, Request{Operation: "t"}, &list)
	assert.ErrorIs(t, err, ErrExternalService)

	err = Decode(ctx, &stubClient{text: `[{"status":"OK","score":1}]`}, Request{Operation: "t"}, &list)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGemini_Complete(t *testing.T) {
	var got geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "key-123", r.Header.Get("x-goog-api-key"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"ok\":"},{"text":"true}"}]}}]}`))
	}))
	defer srv.Close()

	g, err := NewGemini(context.Background(), srv.URL+"/", "gemini-test", "key-123")
	require.NoError(t, err)

	text, err := g.Complete(context.Background(), Request{
		System:    "be brief",
		History:   []Message{{Role: RoleUser, Text: "hi"}, {Role: RoleModel, Text: "hello"}},
		Prompt:    "check this",
		Image:     []byte{0x89, 0x50},
		ImageMIME: "image/png",
		Schema:    map[string]any{"type": "OBJECT"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)

	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "be brief", got.SystemInstruction.Parts[0].Text)
	require.Len(t, got.Contents, 3)
	assert.Equal(t, RoleModel, got.Contents[1].Role)
	last := got.Contents[2]
	require.Len(t, last.Parts, 2)
	assert.Equal(t, "image/png", last.Parts[0].InlineData.MimeType)
	assert.Equal(t, "check this", last.Parts[1].Text)
	require.NotNil(t, got.GenerationConfig)
	assert.Equal(t, "application/json", got.GenerationConfig.ResponseMimeType)
}

func TestGemini_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/empty") {
			_, _ = w.Write([]byte(`{"candidates":[]}`))
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"quota"}`))
	}))
	defer srv.Close()

	g, err := NewGemini(context.Background(), srv.URL, "m", "k")
	require.NoError(t, err)

	_, err = g.Complete(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, ErrExternalService)
	assert.Contains(t, err.Error(), "429")

	empty, err := NewGemini(context.Background(), srv.URL+"/empty", "m", "k")
	require.NoError(t, err)
	_, err = empty.WithHTTPClient(srv.Client()).Complete(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, ErrExternalService)
}

func TestOpenAI_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-test", body["model"])
		msgs := body["messages"].([]any)
		assert.Len(t, msgs, 2)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-test",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Pong"}}]}`))
	}))
	defer srv.Close()

	o := NewOpenAI("sk-test", srv.URL, "gpt-test")
	text, err := o.Complete(context.Background(), Request{System: "sys", Prompt: "Ping"})
	require.NoError(t, err)
	assert.Equal(t, "Pong", text)
}

func TestInstrumented_TimeoutAndMetrics(t *testing.T) {
	m := metrics.NewNop()
	slow := clientFunc(func(ctx context.Context, req Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	c := NewInstrumented(slow, 20*time.Millisecond, m, nil)
	_, err := c.Complete(context.Background(), Request{Operation: "feedback"})
	assert.ErrorIs(t, err, ErrExternalService)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OracleCalls.WithLabelValues("feedback", "error")))

	ok := NewInstrumented(&stubClient{text: "fine"}, time.Second, m, nil)
	text, err := ok.Complete(context.Background(), Request{Operation: "feedback"})
	require.NoError(t, err)
	assert.Equal(t, "fine", text)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OracleCalls.WithLabelValues("feedback", "ok")))
}

func TestLimited_RespectsContext(t *testing.T) {
	stub := &stubClient{text: "x"}
	l := NewLimited(stub, 0.001, 1)

	_, err := l.Complete(context.Background(), Request{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.Complete(ctx, Request{})
	assert.ErrorIs(t, err, ErrExternalService)
}

type clientFunc func(ctx context.Context, req Request) (string, error)

func (f clientFunc) Complete(ctx context.Context, req Request) (string, error) { return f(ctx, req) }
