package handler

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
)

// Workflow actions accepted by POST /v1/kyc
const (
	ActionStartKYC          = "start_kyc"
	ActionProcessDocument   = "process_document"
	ActionCompleteLiveness  = "complete_liveness"
	ActionFinalVerification = "final_verification"
	ActionGetStatus         = "get_status"
)

// KYCWorkflow interface for the orchestrator service
type KYCWorkflow interface {
	StartKYC(ctx context.Context, sessionID string) (*domain.Session, error)
	ProcessDocument(ctx context.Context, sessionID string, image []byte, documentType string) (*domain.Session, *domain.DocumentExtraction, error)
	CompleteLiveness(ctx context.Context, sessionID, livenessSessionID string) (*domain.Session, *domain.LivenessResults, error)
	FinalVerification(ctx context.Context, sessionID, idFaceKey, livenessReferenceKey string) (*domain.Session, *domain.FaceComparison, error)
	GetStatus(ctx context.Context, sessionID string) (*domain.Session, error)
}

// KYCHandler handles the verification workflow requests
type KYCHandler struct {
	service KYCWorkflow
	logger  *slog.Logger
}

// NewKYCHandler creates a new KYCHandler instance
func NewKYCHandler(service KYCWorkflow, logger *slog.Logger) *KYCHandler {
	return &KYCHandler{
		service: service,
		logger:  logger,
	}
}

// KYCRequest is the action envelope of POST /v1/kyc. S3Bucket is accepted for
// wire compatibility; the store bucket comes from deployment configuration.
type KYCRequest struct {
	Action                 string `json:"action"`
	SessionID              string `json:"session_id"`
	ImageData              string `json:"image_data"`
	DocumentType           string `json:"document_type"`
	LivenessSessionID      string `json:"liveness_session_id"`
	IDFaceS3Key            string `json:"id_face_s3_key"`
	LivenessReferenceS3Key string `json:"liveness_reference_s3_key"`
	S3Bucket               string `json:"s3_bucket"`
}

// StartKYCResponse response for the start_kyc action
type StartKYCResponse struct {
	SessionID         string        `json:"session_id"`
	LivenessSessionID string        `json:"liveness_session_id"`
	Status            domain.Status `json:"status"`
}

// ProcessDocumentResponse response for the process_document action
type ProcessDocumentResponse struct {
	SessionID          string                     `json:"session_id"`
	Status             domain.Status              `json:"status"`
	DocumentProcessing *domain.DocumentExtraction `json:"document_processing"`
}

// CompleteLivenessResponse response for the complete_liveness action
type CompleteLivenessResponse struct {
	SessionID       string                  `json:"session_id"`
	Status          domain.Status           `json:"status"`
	LivenessResults *domain.LivenessResults `json:"liveness_results"`
}

// FinalVerificationResponse response for the final_verification action
type FinalVerificationResponse struct {
	SessionID          string                 `json:"session_id"`
	Status             domain.Status          `json:"status"`
	FaceComparison     *domain.FaceComparison `json:"face_comparison"`
	VerificationPassed bool                   `json:"verification_passed"`
}

// Handle POST /v1/kyc - dispatches one workflow action
func (h *KYCHandler) Handle(c *fiber.Ctx) error {
	var req KYCRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	switch req.Action {
	case ActionStartKYC:
		return h.startKYC(c, req)
	case ActionProcessDocument:
		return h.processDocument(c, req)
	case ActionCompleteLiveness:
		return h.completeLiveness(c, req)
	case ActionFinalVerification:
		return h.finalVerification(c, req)
	case ActionGetStatus:
		return h.getStatus(c, req.SessionID)
	case "":
		return domain.ErrMissingParameter.WithMessage("action is required")
	}

	return domain.ErrInvalidAction
}

// GetSession GET /v1/kyc/sessions/:session_id - read-only status lookup
func (h *KYCHandler) GetSession(c *fiber.Ctx) error {
	return h.getStatus(c, c.Params("session_id"))
}

func (h *KYCHandler) startKYC(c *fiber.Ctx, req KYCRequest) error {
	session, err := h.service.StartKYC(c.UserContext(), req.SessionID)
	if err != nil {
		return err
	}

	resp := StartKYCResponse{
		SessionID: session.ID,
		Status:    session.Status,
	}
	if session.LivenessSessionID != nil {
		resp.LivenessSessionID = *session.LivenessSessionID
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *KYCHandler) processDocument(c *fiber.Ctx, req KYCRequest) error {
	if req.SessionID == "" {
		return domain.ErrMissingParameter.WithMessage("session_id is required")
	}
	if req.ImageData == "" {
		return domain.ErrMissingParameter.WithMessage("image_data is required")
	}

	image, err := base64.StdEncoding.DecodeString(req.ImageData)
	if err != nil {
		return domain.ErrInvalidImage.WithError(err)
	}

	session, extraction, err := h.service.ProcessDocument(c.UserContext(), req.SessionID, image, req.DocumentType)
	if err != nil {
		return err
	}

	return c.JSON(ProcessDocumentResponse{
		SessionID:          session.ID,
		Status:             session.Status,
		DocumentProcessing: extraction,
	})
}

func (h *KYCHandler) completeLiveness(c *fiber.Ctx, req KYCRequest) error {
	if req.SessionID == "" {
		return domain.ErrMissingParameter.WithMessage("session_id is required")
	}

	// liveness_session_id may be omitted; the workflow falls back to the
	// handle recorded at start_kyc
	session, results, err := h.service.CompleteLiveness(c.UserContext(), req.SessionID, req.LivenessSessionID)
	if err != nil {
		return err
	}

	return c.JSON(CompleteLivenessResponse{
		SessionID:       session.ID,
		Status:          session.Status,
		LivenessResults: results,
	})
}

func (h *KYCHandler) finalVerification(c *fiber.Ctx, req KYCRequest) error {
	if req.SessionID == "" {
		return domain.ErrMissingParameter.WithMessage("session_id is required")
	}

	session, comparison, err := h.service.FinalVerification(c.UserContext(), req.SessionID, req.IDFaceS3Key, req.LivenessReferenceS3Key)
	if err != nil {
		return err
	}

	return c.JSON(FinalVerificationResponse{
		SessionID:          session.ID,
		Status:             session.Status,
		FaceComparison:     comparison,
		VerificationPassed: comparison.VerificationPassed,
	})
}

func (h *KYCHandler) getStatus(c *fiber.Ctx, sessionID string) error {
	if sessionID == "" {
		return domain.ErrMissingParameter.WithMessage("session_id is required")
	}

	session, err := h.service.GetStatus(c.UserContext(), sessionID)
	if err != nil {
		return err
	}

	return c.JSON(session)
}
