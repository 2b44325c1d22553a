package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
)

type SessionRepository struct {
	pool PgxPool
}

var _ SessionRepositoryInterface = (*SessionRepository)(nil)

func NewSessionRepository(pool PgxPool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create inserts a new KYC session at version 1
func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO kyc_sessions (id, status, document_type, extracted_fields, liveness_session_id, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 1, NOW(), NOW())
		RETURNING version, created_at, updated_at
	`

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.ExtractedFields == nil {
		session.ExtractedFields = map[string]string{}
	}

	err := r.pool.QueryRow(ctx, query,
		session.ID,
		session.Status,
		session.DocumentType,
		session.ExtractedFields,
		session.LivenessSessionID,
	).Scan(&session.Version, &session.CreatedAt, &session.UpdatedAt)

	if isUniqueViolation(err) {
		return domain.ErrSessionExists
	}
	if err != nil {
		return fmt.Errorf("create kyc session: %w", err)
	}

	return nil
}

// GetByID retrieves a KYC session by ID
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `
		SELECT id, status, document_type, extracted_fields,
		       id_face_key, liveness_session_id, liveness_reference_key,
		       liveness_confidence, similarity_score, is_match,
		       verification_passed, failure_reason, version,
		       created_at, updated_at
		FROM kyc_sessions
		WHERE id = $1
	`

	var session domain.Session
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.Status,
		&session.DocumentType,
		&session.ExtractedFields,
		&session.IDFaceKey,
		&session.LivenessSessionID,
		&session.LivenessReferenceKey,
		&session.LivenessConfidence,
		&session.SimilarityScore,
		&session.IsMatch,
		&session.VerificationPassed,
		&session.FailureReason,
		&session.Version,
		&session.CreatedAt,
		&session.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get kyc session by id: %w", err)
	}

	return &session, nil
}

// Update persists a session guarded by its version. The row is only written
// when the stored version still matches the one the caller loaded; a stale
// version means a concurrent writer won and the caller must re-read.
func (r *SessionRepository) Update(ctx context.Context, session *domain.Session) error {
	query := `
		UPDATE kyc_sessions
		SET status = $2,
		    document_type = $3,
		    extracted_fields = $4,
		    id_face_key = $5,
		    liveness_session_id = $6,
		    liveness_reference_key = $7,
		    liveness_confidence = $8,
		    similarity_score = $9,
		    is_match = $10,
		    verification_passed = $11,
		    failure_reason = $12,
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $1 AND version = $13
		RETURNING version, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		session.ID,
		session.Status,
		session.DocumentType,
		session.ExtractedFields,
		session.IDFaceKey,
		session.LivenessSessionID,
		session.LivenessReferenceKey,
		session.LivenessConfidence,
		session.SimilarityScore,
		session.IsMatch,
		session.VerificationPassed,
		session.FailureReason,
		session.Version,
	).Scan(&session.Version, &session.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return r.classifyMiss(ctx, session.ID)
	}
	if err != nil {
		return fmt.Errorf("update kyc session: %w", err)
	}

	return nil
}

// classifyMiss distinguishes a vanished row from a version conflict
func (r *SessionRepository) classifyMiss(ctx context.Context, id string) error {
	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM kyc_sessions WHERE id = $1)", id,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check kyc session existence: %w", err)
	}

	if !exists {
		return domain.ErrSessionNotFound
	}
	return domain.ErrSessionConflict
}
