package oracle

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI talks to any OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	client openai.Client
	model  string
}

func NewOpenAI(apiKey, baseURL, model string, opts ...option.RequestOption) *OpenAI {
	all := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		all = append(all, option.WithBaseURL(baseURL))
	}
	all = append(all, opts...)
	return &OpenAI{client: openai.NewClient(all...), model: model}
}

func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{}

	system := req.System
	if req.WantsJSON() {
		schema, err := json.Marshal(req.Schema)
		if err != nil {
			return "", err
		}
		system += "\n\nRespond with JSON only, matching this schema:\n" + string(schema)
	}
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}

	for _, m := range req.History {
		if m.Role == RoleModel {
			messages = append(messages, openai.AssistantMessage(m.Text))
			continue
		}
		messages = append(messages, openai.UserMessage(m.Text))
	}

	if len(req.Image) > 0 {
		dataURL := fmt.Sprintf("data:%s;base64,%s", req.ImageMIME, base64.StdEncoding.EncodeToString(req.Image))
		messages = append(messages, openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
			openai.TextContentPart(req.Prompt),
		}))
	} else {
		messages = append(messages, openai.UserMessage(req.Prompt))
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    o.model,
		Messages: messages,
	})
	if err != nil {
		return "", external(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no response from model", ErrExternalService)
	}
	return resp.Choices[0].Message.Content, nil
}
