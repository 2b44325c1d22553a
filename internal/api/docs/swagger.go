package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// KYCActionRequest represents the action envelope of the workflow endpoint
type KYCActionRequest struct {
	Action                 string `json:"action" example:"process_document"`
	SessionID              string `json:"session_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	ImageData              string `json:"image_data,omitempty" example:"<base64>"`
	DocumentType           string `json:"document_type,omitempty" example:"passport"`
	LivenessSessionID      string `json:"liveness_session_id,omitempty" example:"lv-7c2f1a"`
	IDFaceS3Key            string `json:"id_face_s3_key,omitempty" example:"faces/550e8400/id_face.jpg"`
	LivenessReferenceS3Key string `json:"liveness_reference_s3_key,omitempty" example:"liveness-sessions/550e8400/reference.jpg"`
}

// StartKYCResponse represents the response for the start_kyc action
type StartKYCResponse struct {
	SessionID         string `json:"session_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	LivenessSessionID string `json:"liveness_session_id" example:"lv-7c2f1a"`
	Status            string `json:"status" example:"SESSION_CREATED"`
}

// DocumentProcessingData represents the document extraction outcome
type DocumentProcessingData struct {
	DocumentType    string            `json:"document_type" example:"passport"`
	ExtractedFields map[string]string `json:"extracted_fields"`
	FaceDetected    bool              `json:"face_detected" example:"true"`
	FaceS3Key       string            `json:"face_s3_key" example:"faces/550e8400/id_face.jpg"`
}

// ProcessDocumentResponse represents the response for the process_document action
type ProcessDocumentResponse struct {
	SessionID          string                 `json:"session_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Status             string                 `json:"status" example:"DOCUMENT_PROCESSED"`
	DocumentProcessing DocumentProcessingData `json:"document_processing"`
}

// LivenessResultsData represents the capture engine results
type LivenessResultsData struct {
	SessionID      string   `json:"session_id" example:"lv-7c2f1a"`
	Status         string   `json:"status" example:"SUCCEEDED"`
	Confidence     float64  `json:"confidence,omitempty" example:"98.7"`
	ReferenceImage string   `json:"reference_image,omitempty" example:"liveness-sessions/550e8400/reference.jpg"`
	AuditImages    []string `json:"audit_images,omitempty"`
	Challenge      string   `json:"challenge,omitempty" example:"FaceMovementAndLightChallenge@1.0"`
}

// CompleteLivenessResponse represents the response for the complete_liveness action
type CompleteLivenessResponse struct {
	SessionID       string              `json:"session_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Status          string              `json:"status" example:"LIVENESS_COMPLETED"`
	LivenessResults LivenessResultsData `json:"liveness_results"`
}

// FaceMatchData represents one candidate pairing
type FaceMatchData struct {
	Similarity float64 `json:"similarity" example:"98.2"`
	Confidence float64 `json:"confidence" example:"99.9"`
}

// FaceComparisonData represents the face comparison outcome
type FaceComparisonData struct {
	IsMatch              bool            `json:"is_match" example:"true"`
	SimilarityScore      float64         `json:"similarity_score" example:"98.2"`
	FaceMatches          []FaceMatchData `json:"face_matches"`
	UnmatchedFaces       []FaceMatchData `json:"unmatched_faces"`
	SourceImageFaceCount int             `json:"source_image_face_count" example:"1"`
	TargetImageFaceCount int             `json:"target_image_face_count" example:"1"`
	VerificationPassed   bool            `json:"verification_passed" example:"true"`
}

// FinalVerificationResponse represents the response for the final_verification action
type FinalVerificationResponse struct {
	SessionID          string             `json:"session_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Status             string             `json:"status" example:"VERIFICATION_COMPLETED"`
	FaceComparison     FaceComparisonData `json:"face_comparison"`
	VerificationPassed bool               `json:"verification_passed" example:"true"`
}

// SessionResponse represents a session in status lookups
type SessionResponse struct {
	SessionID          string            `json:"session_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Status             string            `json:"status" example:"VERIFICATION_COMPLETED"`
	DocumentType       string            `json:"document_type" example:"passport"`
	ExtractedFields    map[string]string `json:"extracted_fields,omitempty"`
	VerificationPassed bool              `json:"verification_passed,omitempty" example:"true"`
	FailureReason      string            `json:"failure_reason,omitempty"`
	CreatedAt          string            `json:"created_at" example:"2025-01-01T00:00:00Z"`
	UpdatedAt          string            `json:"updated_at" example:"2025-01-01T00:05:00Z"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"INVALID_SESSION_STATE"`
	Message string `json:"message" example:"Action invoked before its prerequisite step completed"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version,omitempty" example:"0.1.0"`
}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Veriface KYC API",
		Version:     "v1.0.0",
		Description: "Identity verification workflow: document extraction, liveness capture and face comparison behind a session state machine",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /v1/kyc - workflow action dispatch
		endpoint.New(
			endpoint.POST,
			"/kyc",
			endpoint.WithTags("KYC"),
			endpoint.WithSummary("Run one KYC workflow action"),
			endpoint.WithDescription("Dispatches one of start_kyc, process_document, complete_liveness, final_verification or get_status against a verification session."),
			endpoint.WithBody(KYCActionRequest{}),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StartKYCResponse{}, "201", "Session created"),
				response.New(ProcessDocumentResponse{}, "200", "Action completed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "MISSING_PARAMETER", Message: "Missing required parameter"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "SESSION_NOT_FOUND", Message: "KYC session not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "SESSION_CONFLICT", Message: "Session was modified concurrently, retry the request"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "INVALID_SESSION_STATE", Message: "Action invoked before its prerequisite step completed"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "UPSTREAM_FAILED", Message: "An external capability call failed"}, "502", "Bad Gateway"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/kyc/sessions/{session_id} - status lookup
		endpoint.New(
			endpoint.GET,
			"/kyc/sessions/{session_id}",
			endpoint.WithTags("KYC"),
			endpoint.WithSummary("Get session status"),
			endpoint.WithDescription("Read-only session lookup for caller polling."),
			endpoint.WithParams(parameter.StrParam("session_id", parameter.Path, parameter.WithRequired())),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SessionResponse{}, "200", "Session found"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "SESSION_NOT_FOUND", Message: "KYC session not found"}, "404", "Not Found"),
			}),
		),

		// GET /health
		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Liveness probe"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Service healthy"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)
	return sw
}
