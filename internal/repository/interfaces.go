package repository

import (
	"context"

	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
)

// SessionRepositoryInterface defines operations for KYC session data access
type SessionRepositoryInterface interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Update(ctx context.Context, session *domain.Session) error
}
