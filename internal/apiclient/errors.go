package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// FallbackMessage is shown when a failure carries no usable message.
const FallbackMessage = "network error"

// RequestError is the single failure type returned by Client methods.
// Status is zero for transport failures; Detail is the server-provided
// "detail" field when the error body had one.
type RequestError struct {
	Op      string
	Method  string
	Path    string
	Status  int
	Detail  string
	Body    []byte
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(" ")
	b.WriteString(e.Method)
	b.WriteString(" ")
	b.WriteString(e.Path)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.Status)
	}
	b.WriteString(": ")
	b.WriteString(e.UserMessage())
	return b.String()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// UserMessage returns the best message to show a user: the server detail,
// then the transport message, then FallbackMessage.
func (e *RequestError) UserMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Message != "" {
		return e.Message
	}
	return FallbackMessage
}

// UserMessage extracts a user-facing message from any error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.UserMessage()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackMessage
}

// IsNotFound reports whether err is a RequestError with status 404.
func IsNotFound(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Status == 404
}

// validationItem is one entry of a validation error list in "detail".
type validationItem struct {
	Msg string `json:"msg"`
}

// parseDetail extracts the "detail" field of an error body. String details
// are returned as is; lists of validation items are joined by "; ".
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	var items []validationItem
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	if string(envelope.Detail) == "null" {
		return ""
	}
	return string(envelope.Detail)
}
