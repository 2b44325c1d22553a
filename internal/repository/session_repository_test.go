package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
)

func TestSessionRepository_Create(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		session   *domain.Session
		mockSetup func(mock pgxmock.PgxPoolIface, session *domain.Session)
		wantErr   error
	}{
		{
			name: "successful creation",
			session: &domain.Session{
				Status:       domain.StatusSessionCreated,
				DocumentType: domain.DocumentPassport,
			},
			mockSetup: func(mock pgxmock.PgxPoolIface, session *domain.Session) {
				rows := pgxmock.NewRows([]string{"version", "created_at", "updated_at"}).
					AddRow(1, now, now)

				mock.ExpectQuery(`INSERT INTO kyc_sessions`).
					WithArgs(pgxmock.AnyArg(), domain.StatusSessionCreated, domain.DocumentPassport, map[string]string{}, session.LivenessSessionID).
					WillReturnRows(rows)
			},
			wantErr: nil,
		},
		{
			name: "duplicate session id",
			session: &domain.Session{
				ID:           uuid.NewString(),
				Status:       domain.StatusSessionCreated,
				DocumentType: domain.DocumentPassport,
			},
			mockSetup: func(mock pgxmock.PgxPoolIface, session *domain.Session) {
				mock.ExpectQuery(`INSERT INTO kyc_sessions`).
					WithArgs(session.ID, domain.StatusSessionCreated, domain.DocumentPassport, map[string]string{}, session.LivenessSessionID).
					WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "kyc_sessions_pkey" (SQLSTATE 23505)`))
			},
			wantErr: domain.ErrSessionExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock, tt.session)

			repo := NewSessionRepository(mock)
			err = repo.Create(context.Background(), tt.session)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, tt.session.ID, "Create assigns an ID when missing")
				assert.Equal(t, 1, tt.session.Version)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepository_GetByID(t *testing.T) {
	sessionID := uuid.NewString()
	now := time.Now()
	faceKey := "faces/" + sessionID + "/id_face.jpg"

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		check     func(t *testing.T, got *domain.Session)
		wantErr   error
	}{
		{
			name: "successful retrieval",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{
					"id", "status", "document_type", "extracted_fields",
					"id_face_key", "liveness_session_id", "liveness_reference_key",
					"liveness_confidence", "similarity_score", "is_match",
					"verification_passed", "failure_reason", "version",
					"created_at", "updated_at",
				}).AddRow(
					sessionID,
					domain.StatusDocumentProcessed,
					domain.DocumentPassport,
					map[string]string{"DOCUMENT_NUMBER": "X123"},
					&faceKey,
					nil, nil, nil, nil, nil, nil, nil,
					2,
					now, now,
				)

				mock.ExpectQuery(`SELECT id, status, document_type, extracted_fields`).
					WithArgs(sessionID).
					WillReturnRows(rows)
			},
			check: func(t *testing.T, got *domain.Session) {
				assert.Equal(t, sessionID, got.ID)
				assert.Equal(t, domain.StatusDocumentProcessed, got.Status)
				assert.Equal(t, "X123", got.ExtractedFields["DOCUMENT_NUMBER"])
				require.NotNil(t, got.IDFaceKey)
				assert.Equal(t, faceKey, *got.IDFaceKey)
				assert.Nil(t, got.LivenessSessionID)
				assert.Equal(t, 2, got.Version)
			},
			wantErr: nil,
		},
		{
			name: "session not found",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id, status, document_type, extracted_fields`).
					WithArgs(sessionID).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrSessionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewSessionRepository(mock)
			got, err := repo.GetByID(context.Background(), sessionID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.NotNil(t, got)
				tt.check(t, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepository_Update(t *testing.T) {
	sessionID := uuid.NewString()
	now := time.Now()

	baseSession := func() *domain.Session {
		return &domain.Session{
			ID:              sessionID,
			Status:          domain.StatusDocumentProcessed,
			DocumentType:    domain.DocumentPassport,
			ExtractedFields: map[string]string{"DOCUMENT_NUMBER": "X123"},
			Version:         1,
		}
	}

	t.Run("successful update bumps the version", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		session := baseSession()

		rows := pgxmock.NewRows([]string{"version", "updated_at"}).AddRow(2, now)
		mock.ExpectQuery(`UPDATE kyc_sessions`).
			WithArgs(
				session.ID, session.Status, session.DocumentType, session.ExtractedFields,
				session.IDFaceKey, session.LivenessSessionID, session.LivenessReferenceKey,
				session.LivenessConfidence, session.SimilarityScore, session.IsMatch,
				session.VerificationPassed, session.FailureReason, 1,
			).
			WillReturnRows(rows)

		repo := NewSessionRepository(mock)
		require.NoError(t, repo.Update(context.Background(), session))

		assert.Equal(t, 2, session.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version on an existing row is a conflict", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		session := baseSession()

		mock.ExpectQuery(`UPDATE kyc_sessions`).
			WithArgs(
				session.ID, session.Status, session.DocumentType, session.ExtractedFields,
				session.IDFaceKey, session.LivenessSessionID, session.LivenessReferenceKey,
				session.LivenessConfidence, session.SimilarityScore, session.IsMatch,
				session.VerificationPassed, session.FailureReason, 1,
			).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(session.ID).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

		repo := NewSessionRepository(mock)
		err = repo.Update(context.Background(), session)

		assert.ErrorIs(t, err, domain.ErrSessionConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row is not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		session := baseSession()

		mock.ExpectQuery(`UPDATE kyc_sessions`).
			WithArgs(
				session.ID, session.Status, session.DocumentType, session.ExtractedFields,
				session.IDFaceKey, session.LivenessSessionID, session.LivenessReferenceKey,
				session.LivenessConfidence, session.SimilarityScore, session.IsMatch,
				session.VerificationPassed, session.FailureReason, 1,
			).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(session.ID).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

		repo := NewSessionRepository(mock)
		err = repo.Update(context.Background(), session)

		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
