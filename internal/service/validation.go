package service

import "fmt"

var validRoles = map[string]bool{
	"system":    true,
	"user":      true,
	"assistant": true,
}

// ValidateChatRequest checks the request invariants and returns the first violation.
func ValidateChatRequest(req ChatRequest) error {
	if len(req.Messages) == 0 {
		return &ValidationError{Field: "messages", Message: "at least one message is required"}
	}
	for i, m := range req.Messages {
		if !validRoles[m.Role] {
			return &ValidationError{
				Field:   fmt.Sprintf("messages[%d].role", i),
				Message: fmt.Sprintf("must be one of system, user, assistant, got %q", m.Role),
			}
		}
		if m.Content == "" {
			return &ValidationError{Field: fmt.Sprintf("messages[%d].content", i), Message: "cannot be empty"}
		}
	}
	if req.Temperature != nil && (*req.Temperature < 0 || *req.Temperature > 2) {
		return &ValidationError{Field: "temperature", Message: "must be between 0 and 2"}
	}
	if req.TopP != nil && (*req.TopP < 0 || *req.TopP > 1) {
		return &ValidationError{Field: "topP", Message: "must be between 0 and 1"}
	}
	if req.MaxTokens < 0 {
		return &ValidationError{Field: "maxTokens", Message: "must be at least 1"}
	}
	return nil
}
