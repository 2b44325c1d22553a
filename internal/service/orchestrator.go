package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
)

// SessionStore is the session persistence surface the orchestrator needs
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Update(ctx context.Context, session *domain.Session) error
}

// KYCService drives the verification workflow across its steps. Every action
// loads the session, checks the state-machine guard, runs its step and
// persists the outcome with a version check. A failed step moves the session
// to FAILED; a failed guard leaves it untouched.
type KYCService struct {
	sessions   SessionStore
	documents  *DocumentService
	liveness   *LivenessService
	comparison *ComparisonService
	logger     *slog.Logger
}

func NewKYCService(
	sessions SessionStore,
	documents *DocumentService,
	liveness *LivenessService,
	comparison *ComparisonService,
	logger *slog.Logger,
) *KYCService {
	return &KYCService{
		sessions:   sessions,
		documents:  documents,
		liveness:   liveness,
		comparison: comparison,
		logger:     logger,
	}
}

// StartKYC opens a new session and provisions its liveness capture session.
// sessionID may be empty, in which case one is generated.
func (s *KYCService) StartKYC(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	livenessSessionID, err := s.liveness.CreateSession(ctx, sessionID)
	if err != nil {
		s.logger.ErrorContext(ctx, "start_kyc failed", "session_id", sessionID, "error", err)
		return nil, err
	}

	session := &domain.Session{
		ID:                sessionID,
		Status:            domain.StatusSessionCreated,
		DocumentType:      domain.DocumentPassport,
		ExtractedFields:   map[string]string{},
		LivenessSessionID: &livenessSessionID,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// ProcessDocument runs field extraction and face cropping for the session's
// identity document.
func (s *KYCService) ProcessDocument(ctx context.Context, sessionID string, image []byte, documentType string) (*domain.Session, *domain.DocumentExtraction, error) {
	docType, err := domain.ParseDocumentType(documentType)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if err := session.Guard(domain.StatusSessionCreated); err != nil {
		return nil, nil, err
	}

	extraction, err := s.documents.Process(ctx, session.ID, image, docType)
	if err != nil {
		return nil, nil, s.failSession(ctx, "process_document", session, err)
	}

	session.DocumentType = extraction.DocumentType
	session.ExtractedFields = extraction.ExtractedFields
	session.IDFaceKey = extraction.FaceKey
	session.Status = domain.StatusDocumentProcessed

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, nil, err
	}

	return session, extraction, nil
}

// CompleteLiveness fetches the capture results and records them on the
// session. The capture verdict never gates the workflow; only result
// availability does.
func (s *KYCService) CompleteLiveness(ctx context.Context, sessionID, livenessSessionID string) (*domain.Session, *domain.LivenessResults, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if err := session.Guard(domain.StatusDocumentProcessed); err != nil {
		return nil, nil, err
	}

	handle := livenessSessionID
	if handle == "" && session.LivenessSessionID != nil {
		handle = *session.LivenessSessionID
	}
	if handle == "" {
		return nil, nil, domain.ErrMissingParameter.WithMessage("liveness_session_id is required")
	}

	results, err := s.liveness.GetResults(ctx, handle)
	if err != nil {
		return nil, nil, s.failSession(ctx, "complete_liveness", session, err)
	}

	session.LivenessSessionID = &handle
	session.LivenessReferenceKey = results.ReferenceImage
	session.LivenessConfidence = results.Confidence
	session.Status = domain.StatusLivenessCompleted

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, nil, err
	}

	return session, results, nil
}

// FinalVerification compares the document portrait against the liveness
// reference and records the verdict. Both references must exist before the
// comparison capability is invoked.
func (s *KYCService) FinalVerification(ctx context.Context, sessionID, idFaceKey, livenessReferenceKey string) (*domain.Session, *domain.FaceComparison, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if err := session.Guard(domain.StatusLivenessCompleted); err != nil {
		return nil, nil, err
	}

	sourceKey := idFaceKey
	if sourceKey == "" && session.IDFaceKey != nil {
		sourceKey = *session.IDFaceKey
	}
	targetKey := livenessReferenceKey
	if targetKey == "" && session.LivenessReferenceKey != nil {
		targetKey = *session.LivenessReferenceKey
	}
	if sourceKey == "" || targetKey == "" {
		return nil, nil, domain.ErrMissingFaceReference
	}

	comparison, err := s.comparison.Compare(ctx, sourceKey, targetKey, 0)
	if err != nil {
		return nil, nil, s.failSession(ctx, "final_verification", session, err)
	}

	session.SimilarityScore = &comparison.SimilarityScore
	session.IsMatch = &comparison.IsMatch
	session.VerificationPassed = &comparison.VerificationPassed
	session.Status = domain.StatusVerificationCompleted

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, nil, err
	}

	return session, comparison, nil
}

// GetStatus returns the current session state for caller polling
func (s *KYCService) GetStatus(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.sessions.GetByID(ctx, sessionID)
}

// failSession moves the session to FAILED and returns the causing error.
// The FAILED write is best effort; losing it must not mask the step error.
func (s *KYCService) failSession(ctx context.Context, action string, session *domain.Session, cause error) error {
	s.logger.ErrorContext(ctx, "kyc step failed",
		"action", action,
		"session_id", session.ID,
		"error", cause,
	)

	session.Fail(cause)
	if err := s.sessions.Update(ctx, session); err != nil {
		s.logger.ErrorContext(ctx, "could not persist FAILED status",
			"action", action,
			"session_id", session.ID,
			"error", err,
		)
	}

	return cause
}
