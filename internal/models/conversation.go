// internal/models/conversation.go
package models

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the transport contract accepted by the chat endpoint.
// The last user message is the active query, the rest is history.
type ChatRequest struct {
	Messages []ConversationTurn `json:"messages"`
}

type ChatResponse struct {
	Completion         string          `json:"completion,omitempty"`
	Error              string          `json:"error,omitempty"`
	PlanReferences     []PlanReference `json:"planReferences,omitempty"`
	TypingDelaySeconds float64         `json:"typingDelaySeconds,omitempty"`
	ConfidenceScore    float64         `json:"confidenceScore,omitempty"`
}
