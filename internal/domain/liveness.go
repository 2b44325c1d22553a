package domain

// LivenessResults is the state of one liveness-capture attempt as reported by
// the external capture engine. The core branches only on whether results are
// available; Confidence is informational and never gates the final verdict.
type LivenessResults struct {
	SessionID      string   `json:"session_id"`
	Status         string   `json:"status"`
	Confidence     *float64 `json:"confidence,omitempty"`
	ReferenceImage *string  `json:"reference_image,omitempty"`
	AuditImages    []string `json:"audit_images,omitempty"`
	Challenge      *string  `json:"challenge,omitempty"`
}

// HasReference reports whether the capture produced a usable reference frame.
func (r *LivenessResults) HasReference() bool {
	return r.ReferenceImage != nil && *r.ReferenceImage != ""
}
