package oracle

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2/google"
)

const generativeLanguageScope = "https://www.googleapis.com/auth/generative-language"

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Role  string        `json:"role,omitempty"`
	Parts []*geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Contents          []*geminiContent        `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content *geminiContent `json:"content"`
	} `json:"candidates"`
}

// Gemini calls the generateContent REST endpoint.
type Gemini struct {
	baseURL string
	model   string
	apiKey  string
	http    *http.Client
}

// NewGemini builds a Gemini client. Without an API key it authenticates with
// application default credentials.
func NewGemini(ctx context.Context, baseURL, model, apiKey string) (*Gemini, error) {
	g := &Gemini{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		http:    &http.Client{},
	}
	if apiKey == "" {
		client, err := google.DefaultClient(ctx, generativeLanguageScope)
		if err != nil {
			return nil, fmt.Errorf("gemini: no API key and no default credentials: %w", err)
		}
		g.http = client
	}
	return g, nil
}

// WithHTTPClient swaps the transport, for tests.
func (g *Gemini) WithHTTPClient(c *http.Client) *Gemini {
	g.http = c
	return g
}

func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	payload := geminiRequest{}
	if req.System != "" {
		payload.SystemInstruction = &geminiContent{Parts: []*geminiPart{{Text: req.System}}}
	}
	for _, m := range req.History {
		role := RoleUser
		if m.Role == RoleModel {
			role = RoleModel
		}
		payload.Contents = append(payload.Contents, &geminiContent{Role: role, Parts: []*geminiPart{{Text: m.Text}}})
	}

	parts := []*geminiPart{}
	if len(req.Image) > 0 {
		parts = append(parts, &geminiPart{InlineData: &geminiInlineData{
			MimeType: req.ImageMIME,
			Data:     base64.StdEncoding.EncodeToString(req.Image),
		}})
	}
	parts = append(parts, &geminiPart{Text: req.Prompt})
	payload.Contents = append(payload.Contents, &geminiContent{Role: RoleUser, Parts: parts})

	if req.WantsJSON() {
		payload.GenerationConfig = &geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   req.Schema,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		httpReq.Header.Set("x-goog-api-key", g.apiKey)
	}

	res, err := g.http.Do(httpReq)
	if err != nil {
		return "", external(err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", external(err)
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: gemini status %d: %s", ErrExternalService, res.StatusCode, string(resBody))
	}

	var out geminiResponse
	if err := json.Unmarshal(resBody, &out); err != nil {
		return "", external(err)
	}

	var text strings.Builder
	for _, c := range out.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			text.WriteString(p.Text)
		}
		break
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("%w: gemini returned no text", ErrExternalService)
	}
	return text.String(), nil
}
