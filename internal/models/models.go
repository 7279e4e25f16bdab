// Package models defines the data structures used across the application.
// These are the JSON shapes exchanged with the RailSahayak front end.
package models

import (
	"encoding/json"
	"time"
)

// ComplaintSubmission is the request body for filing a new complaint.
// Only Type and Description are checked; the rest are passed through.
type ComplaintSubmission struct {
	Type          string `json:"type" validate:"required"`
	Description   string `json:"description" validate:"required"`
	Priority      string `json:"priority,omitempty"`
	TrainNumber   string `json:"trainNumber,omitempty"`
	CoachNumber   string `json:"coachNumber,omitempty"`
	SeatNumber    string `json:"seatNumber,omitempty"`
	PassengerName string `json:"passengerName,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	Language      string `json:"language,omitempty"`
}

// Acknowledgment is returned once a complaint has been accepted.
// Data carries the submitted object exactly as it was received.
type Acknowledgment struct {
	Message    string          `json:"message"`
	TrackingID string          `json:"trackingId"`
	Data       json.RawMessage `json:"data"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Language is a display language supported by the assistant
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
)

// Valid reports whether the assistant has responses for l
func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageHindi
}

// Intent is the assistant's reading of a single utterance
type Intent string

const (
	IntentGreeting        Intent = "greeting"
	IntentComplaintStatus Intent = "complaintStatus"
	IntentFileComplaint   Intent = "fileComplaint"
	IntentGeneral         Intent = "general"
)

// Role identifies the author of a conversation message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationMessage is one entry of an assistant conversation log.
// Entries are appended once and never changed.
type ConversationMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Language  Language  `json:"language,omitempty"`
}

// ConversationState is "idle" or "awaiting_reply"
type ConversationState string

const (
	StateIdle          ConversationState = "idle"
	StateAwaitingReply ConversationState = "awaiting_reply"
)

// ConversationSnapshot is a read-only view of a session
type ConversationSnapshot struct {
	SessionID string                `json:"sessionId"`
	State     ConversationState     `json:"state"`
	Language  Language              `json:"language"`
	Messages  []ConversationMessage `json:"messages"`
}

// CreateSessionRequest is the body for opening an assistant session
type CreateSessionRequest struct {
	Language Language `json:"language,omitempty"`
}

// SendMessageRequest is the body for posting an utterance
type SendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessageResponse reports whether an utterance entered the log
type SendMessageResponse struct {
	Accepted bool              `json:"accepted"`
	State    ConversationState `json:"state"`
}

// SetLanguageRequest is the body for switching the reply language
type SetLanguageRequest struct {
	Language Language `json:"language" validate:"required"`
}

// QuickAction is a canned utterance the chat widget can prefill
type QuickAction struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// LanguageOption is a selectable form language
type LanguageOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ComplaintOptions lists the choices offered by the intake form
type ComplaintOptions struct {
	Types      []string         `json:"types"`
	Priorities []string         `json:"priorities"`
	Languages  []LanguageOption `json:"languages"`
}

// HealthStatus represents the server health check response
type HealthStatus struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime,omitempty"`
	Sessions int    `json:"sessions"`
	Redis    string `json:"redis,omitempty"`
}
