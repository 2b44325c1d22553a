package mock

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
	"github.com/saturnino-fabrica-de-software/veriface/internal/provider"
)

// minImageSize below which the mock treats the payload as a corrupted image
const minImageSize = 1000

// Provider implementa as quatro interfaces de provider para testes e
// desenvolvimento local, sem chamadas externas
type Provider struct {
	mu       sync.Mutex
	sessions map[string]string // liveness session id → output prefix
}

var (
	_ provider.DocumentAnalyzer = (*Provider)(nil)
	_ provider.FaceDetector     = (*Provider)(nil)
	_ provider.FaceComparer     = (*Provider)(nil)
	_ provider.LivenessProvider = (*Provider)(nil)
)

// New cria uma nova instância do MockProvider
func New() *Provider {
	return &Provider{sessions: make(map[string]string)}
}

// AnalyzeDocument simula extração de campos do documento
func (p *Provider) AnalyzeDocument(ctx context.Context, image []byte) (map[string]string, error) {
	if len(image) < minImageSize {
		return nil, domain.ErrInvalidImage
	}

	sum := sha256.Sum256(image)
	return map[string]string{
		"DOCUMENT_NUMBER": fmt.Sprintf("%X", sum[:4]),
		"FIRST_NAME":      "JANE",
		"LAST_NAME":       "DOE",
		"DATE_OF_BIRTH":   "1990-01-01",
		"EXPIRATION_DATE": "2030-01-01",
	}, nil
}

// DetectFaces simula detecção de faces
func (p *Provider) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	if len(image) < minImageSize {
		return nil, domain.ErrInvalidImage
	}

	return []provider.DetectedFace{
		{
			BoundingBox: provider.BoundingBox{
				Left:   0.25,
				Top:    0.2,
				Width:  0.5,
				Height: 0.6,
			},
			Confidence: 99.6,
		},
	}, nil
}

// CompareFaces calcula similaridade determinística a partir dos bytes das
// imagens: imagens idênticas pontuam 99.9, as demais derivam do hash
func (p *Provider) CompareFaces(ctx context.Context, source, target []byte, threshold float64) (*provider.ComparisonResult, error) {
	if len(source) < minImageSize || len(target) < minImageSize {
		return nil, domain.ErrInvalidImage
	}

	similarity := 99.9
	if !bytes.Equal(source, target) {
		sum := sha256.Sum256(append(append([]byte{}, source...), target...))
		similarity = float64(sum[0]%100) + float64(sum[1])/256.0
	}

	result := &provider.ComparisonResult{SourceImageFaceCount: 1}
	face := provider.ComparedFace{Similarity: similarity, Confidence: 99.9}

	if similarity >= threshold {
		result.FaceMatches = []provider.ComparedFace{face}
	} else {
		result.UnmatchedFaces = []provider.ComparedFace{face}
	}
	result.TargetImageFaceCount = 1

	return result, nil
}

// CreateSession simula criação de sessão de liveness
func (p *Provider) CreateSession(ctx context.Context, clientToken, outputPrefix string) (string, error) {
	sessionID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(clientToken)).String()

	p.mu.Lock()
	p.sessions[sessionID] = outputPrefix
	p.mu.Unlock()

	return sessionID, nil
}

// GetSessionResults simula um capture concluído com sucesso
func (p *Provider) GetSessionResults(ctx context.Context, sessionID string) (*provider.LivenessSessionResults, error) {
	p.mu.Lock()
	prefix, ok := p.sessions[sessionID]
	p.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("liveness session %s not found", sessionID)
	}

	confidence := 98.7
	reference := prefix + "reference.jpg"

	return &provider.LivenessSessionResults{
		SessionID:  sessionID,
		Status:     "SUCCEEDED",
		Confidence: &confidence,
		ReferenceImageKey: &reference,
		AuditImageKeys: []string{
			prefix + "audit-0.jpg",
			prefix + "audit-1.jpg",
		},
	}, nil
}
