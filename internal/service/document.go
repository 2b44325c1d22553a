package service

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
	"github.com/saturnino-fabrica-de-software/veriface/internal/imaging"
	"github.com/saturnino-fabrica-de-software/veriface/internal/provider"
	"github.com/saturnino-fabrica-de-software/veriface/internal/storage"
)

// DocumentService runs the document-processing step: field extraction plus
// locating, cropping and storing the document portrait.
type DocumentService struct {
	analyzer      provider.DocumentAnalyzer
	detector      provider.FaceDetector
	store         storage.ObjectStore
	cropScale     float64
	confidenceMin float64
}

func NewDocumentService(
	analyzer provider.DocumentAnalyzer,
	detector provider.FaceDetector,
	store storage.ObjectStore,
	cropScale float64,
	confidenceMin float64,
) *DocumentService {
	return &DocumentService{
		analyzer:      analyzer,
		detector:      detector,
		store:         store,
		cropScale:     cropScale,
		confidenceMin: confidenceMin,
	}
}

// FaceKey is the object-store location of the cropped document portrait
func FaceKey(sessionID string) string {
	return fmt.Sprintf("faces/%s/id_face.jpg", sessionID)
}

// Process extracts document fields and, when a face clears the confidence
// bar, crops it and stores it under the session's face key. A document with
// no detectable face is a normal outcome, not an error.
func (s *DocumentService) Process(ctx context.Context, sessionID string, image []byte, docType domain.DocumentType) (*domain.DocumentExtraction, error) {
	fields, err := s.analyzer.AnalyzeDocument(ctx, image)
	if err != nil {
		return nil, classifyStepError("analyze document", err)
	}

	faces, err := s.detector.DetectFaces(ctx, image)
	if err != nil {
		return nil, classifyStepError("detect document face", err)
	}

	extraction := &domain.DocumentExtraction{
		DocumentType:    docType,
		ExtractedFields: fields,
	}

	face, ok := primaryFace(faces, s.confidenceMin)
	if !ok {
		return extraction, nil
	}

	cropped, err := imaging.CropFace(image, face.BoundingBox, s.cropScale)
	if err != nil {
		return nil, classifyStepError("crop document face", err)
	}

	key := FaceKey(sessionID)
	if err := s.store.Put(ctx, key, cropped, "image/jpeg"); err != nil {
		return nil, classifyStepError("store document face", err)
	}

	extraction.FaceDetected = true
	extraction.FaceKey = &key
	return extraction, nil
}

// primaryFace returns the first face clearing the confidence bar
func primaryFace(faces []provider.DetectedFace, confidenceMin float64) (provider.DetectedFace, bool) {
	for _, face := range faces {
		if face.Confidence >= confidenceMin {
			return face, true
		}
	}
	return provider.DetectedFace{}, false
}
