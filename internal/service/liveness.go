package service

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
	"github.com/saturnino-fabrica-de-software/veriface/internal/provider"
)

// LivenessService provisions capture sessions and fetches their results.
// The core never judges the capture: confidence is carried as metadata only.
type LivenessService struct {
	provider provider.LivenessProvider
	prefix   string
}

func NewLivenessService(livenessProvider provider.LivenessProvider, prefix string) *LivenessService {
	return &LivenessService{provider: livenessProvider, prefix: prefix}
}

// CreateSession provisions a capture session whose artifacts land under
// {prefix}/{kycSessionID}/. The KYC session id doubles as the idempotency
// token, so retried calls reuse the same capture session.
func (s *LivenessService) CreateSession(ctx context.Context, kycSessionID string) (string, error) {
	outputPrefix := fmt.Sprintf("%s/%s/", s.prefix, kycSessionID)

	livenessSessionID, err := s.provider.CreateSession(ctx, kycSessionID, outputPrefix)
	if err != nil {
		return "", classifyStepError("create liveness session", err)
	}

	return livenessSessionID, nil
}

// GetResults returns the capture engine's view of the session
func (s *LivenessService) GetResults(ctx context.Context, livenessSessionID string) (*domain.LivenessResults, error) {
	raw, err := s.provider.GetSessionResults(ctx, livenessSessionID)
	if err != nil {
		return nil, classifyStepError("get liveness results", err)
	}

	return &domain.LivenessResults{
		SessionID:      raw.SessionID,
		Status:         raw.Status,
		Confidence:     raw.Confidence,
		ReferenceImage: raw.ReferenceImageKey,
		AuditImages:    raw.AuditImageKeys,
		Challenge:      raw.Challenge,
	}, nil
}
