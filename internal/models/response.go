// internal/models/response.go
package models

type ResponseSource string

const (
	SourceRemote ResponseSource = "remote"
	SourceLocal  ResponseSource = "local"
	SourceError  ResponseSource = "error"
)

type EngineResponse struct {
	Content            string          `json:"content"`
	PlanReferences     []PlanReference `json:"planReferences"`
	TypingDelaySeconds float64         `json:"typingDelaySeconds"`
	ConfidenceScore    float64         `json:"confidenceScore"`

	Source    ResponseSource `json:"source"`
	Intent    string         `json:"intent,omitempty"`
	ErrorCode string         `json:"errorCode,omitempty"`

	// FallbackReason is set when a remote failure was recovered locally.
	FallbackReason string `json:"fallbackReason,omitempty"`

	// Status returned by the completion endpoint on pass-through errors.
	UpstreamStatus int `json:"-"`
}
