package service

import (
	"context"

	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
	"github.com/saturnino-fabrica-de-software/veriface/internal/provider"
	"github.com/saturnino-fabrica-de-software/veriface/internal/storage"
)

// ComparisonService compares the document portrait against the liveness
// reference frame and applies the verification decision rule.
type ComparisonService struct {
	comparer  provider.FaceComparer
	store     storage.ObjectStore
	threshold float64
}

func NewComparisonService(comparer provider.FaceComparer, store storage.ObjectStore, threshold float64) *ComparisonService {
	return &ComparisonService{comparer: comparer, store: store, threshold: threshold}
}

// Compare downloads both face images and scores them against threshold; a
// non-positive threshold falls back to the configured default. A download or
// compare failure yields no partial result.
func (s *ComparisonService) Compare(ctx context.Context, sourceKey, targetKey string, threshold float64) (*domain.FaceComparison, error) {
	if threshold <= 0 {
		threshold = s.threshold
	}

	source, err := s.store.Get(ctx, sourceKey)
	if err != nil {
		return nil, classifyStepError("download source face", err)
	}

	target, err := s.store.Get(ctx, targetKey)
	if err != nil {
		return nil, classifyStepError("download target face", err)
	}

	result, err := s.comparer.CompareFaces(ctx, source, target, threshold)
	if err != nil {
		return nil, classifyStepError("compare faces", err)
	}

	comparison := buildComparison(result)
	comparison.VerificationPassed = comparison.Passed(threshold)
	return comparison, nil
}

// buildComparison applies the match decision rule to a raw comparison:
// any reported pairing is a match and the first pairing's similarity is the
// session's score.
func buildComparison(result *provider.ComparisonResult) *domain.FaceComparison {
	comparison := &domain.FaceComparison{
		IsMatch:              len(result.FaceMatches) > 0,
		FaceMatches:          make([]domain.FaceMatch, 0, len(result.FaceMatches)),
		UnmatchedFaces:       make([]domain.FaceMatch, 0, len(result.UnmatchedFaces)),
		SourceImageFaceCount: result.SourceImageFaceCount,
		TargetImageFaceCount: result.TargetImageFaceCount,
	}

	for _, match := range result.FaceMatches {
		comparison.FaceMatches = append(comparison.FaceMatches, domain.FaceMatch{
			Similarity: match.Similarity,
			Confidence: match.Confidence,
		})
	}
	for _, unmatched := range result.UnmatchedFaces {
		comparison.UnmatchedFaces = append(comparison.UnmatchedFaces, domain.FaceMatch{
			Similarity: unmatched.Similarity,
			Confidence: unmatched.Confidence,
		})
	}

	if comparison.IsMatch {
		comparison.SimilarityScore = comparison.FaceMatches[0].Similarity
	}

	return comparison
}
