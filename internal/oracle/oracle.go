// Package oracle is the completion collaborator: a prompt (optionally with an
// image and a response schema) goes in, model text comes out.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/talenthub/portal-backend/internal/validation"
)

// ErrExternalService marks every oracle failure: transport, non-2xx,
// empty output, or output that does not match the expected shape.
var ErrExternalService = errors.New("external service error")

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one prior turn of a conversation.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Request is a single completion call.
type Request struct {
	// Operation labels metrics and logs, e.g. "feedback" or "certificate".
	Operation string
	System    string
	History   []Message
	Prompt    string

	Image     []byte
	ImageMIME string

	// Schema, when set, asks for JSON output of this shape.
	Schema map[string]any
}

// WantsJSON reports whether the caller expects structured output.
func (r Request) WantsJSON() bool {
	return r.Schema != nil
}

type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Decode runs req and unmarshals the JSON answer into dst, then validates dst
// with its validate tags. dst may be a struct pointer or a slice pointer.
func Decode(ctx context.Context, c Client, req Request, dst any) error {
	text, err := c.Complete(ctx, req)
	if err != nil {
		return external(err)
	}

	raw := stripFences([]byte(text))
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: decode %s output: %w", ErrExternalService, req.Operation, err)
	}
	if err := validateAll(dst); err != nil {
		return fmt.Errorf("%w: %s output: %w", ErrExternalService, req.Operation, err)
	}
	return nil
}

// validateAll validates a struct, or each struct element of a slice.
func validateAll(dst any) error {
	v := reflect.Indirect(reflect.ValueOf(dst))
	if v.Kind() != reflect.Slice {
		return validation.Struct(dst)
	}
	for i := 0; i < v.Len(); i++ {
		el := reflect.Indirect(v.Index(i))
		if el.Kind() != reflect.Struct {
			continue
		}
		if err := validation.Struct(el.Interface()); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

func stripFences(b []byte) []byte {
	b = bytes.TrimSpace(b)
	b = bytes.TrimPrefix(b, []byte("```json"))
	b = bytes.TrimPrefix(b, []byte("```"))
	b = bytes.TrimSuffix(b, []byte("```"))
	return bytes.TrimSpace(b)
}

func external(err error) error {
	if errors.Is(err, ErrExternalService) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrExternalService, err)
}
