package domain

import (
	"time"
)

// Status is the lifecycle state of a KYC session. Progression is strictly
// forward: SESSION_CREATED → DOCUMENT_PROCESSED → LIVENESS_COMPLETED →
// VERIFICATION_COMPLETED, with FAILED absorbing from any non-terminal state.
type Status string

const (
	StatusSessionCreated        Status = "SESSION_CREATED"
	StatusDocumentProcessed     Status = "DOCUMENT_PROCESSED"
	StatusLivenessCompleted     Status = "LIVENESS_COMPLETED"
	StatusVerificationCompleted Status = "VERIFICATION_COMPLETED"
	StatusFailed                Status = "FAILED"
)

var statusRank = map[Status]int{
	StatusSessionCreated:        1,
	StatusDocumentProcessed:     2,
	StatusLivenessCompleted:     3,
	StatusVerificationCompleted: 4,
}

// Valid reports whether s is a known session status.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok || s == StatusFailed
}

// Reached reports whether the session has progressed at least as far as target.
// FAILED never counts as having reached anything.
func (s Status) Reached(target Status) bool {
	if s == StatusFailed {
		return false
	}
	return statusRank[s] >= statusRank[target]
}

// Terminal reports whether the status accepts no further transitions.
func (s Status) Terminal() bool {
	return s == StatusVerificationCompleted || s == StatusFailed
}

// Session is one identity-verification attempt. Each workflow step mutates it
// additively; no step erases data written by a prior step.
type Session struct {
	ID                   string            `json:"session_id"`
	Status               Status            `json:"status"`
	DocumentType         DocumentType      `json:"document_type,omitempty"`
	ExtractedFields      map[string]string `json:"extracted_fields,omitempty"`
	IDFaceKey            *string           `json:"id_face_s3_key,omitempty"`
	LivenessSessionID    *string           `json:"liveness_session_id,omitempty"`
	LivenessReferenceKey *string           `json:"liveness_reference_s3_key,omitempty"`
	LivenessConfidence   *float64          `json:"liveness_confidence,omitempty"`
	SimilarityScore      *float64          `json:"similarity_score,omitempty"`
	IsMatch              *bool             `json:"is_match,omitempty"`
	VerificationPassed   *bool             `json:"verification_passed,omitempty"`
	FailureReason        *string           `json:"failure_reason,omitempty"`
	Version              int               `json:"-"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

// HasFaceReferences reports whether both face artifacts needed by the
// comparison step exist. The comparison verdict may only be computed from
// references belonging to this session.
func (s *Session) HasFaceReferences() bool {
	return s.IDFaceKey != nil && *s.IDFaceKey != "" &&
		s.LivenessReferenceKey != nil && *s.LivenessReferenceKey != ""
}

// Guard rejects an action whose prerequisite status has not been reached.
// Terminal sessions reject everything.
func (s *Session) Guard(prerequisite Status) error {
	if s.Status.Terminal() {
		return ErrSessionTerminal
	}
	if !s.Status.Reached(prerequisite) {
		return ErrInvalidSessionState
	}
	return nil
}

// Fail moves the session to the absorbing FAILED state, recording the cause.
func (s *Session) Fail(cause error) {
	s.Status = StatusFailed
	reason := cause.Error()
	s.FailureReason = &reason
}
