package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/veriface/internal/provider"
	"github.com/saturnino-fabrica-de-software/veriface/internal/storage"
)

func comparisonFixtures(t *testing.T) (*storage.MemoryStore, string, string) {
	t.Helper()

	store := storage.NewMemoryStore()
	sourceKey := "faces/sess-1/id_face.jpg"
	targetKey := "liveness-sessions/sess-1/reference.jpg"

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, sourceKey, testJPEG(t, 200, 200), "image/jpeg"))
	require.NoError(t, store.Put(ctx, targetKey, testJPEG(t, 300, 300), "image/jpeg"))

	return store, sourceKey, targetKey
}

func TestComparisonService_Compare(t *testing.T) {
	t.Run("match above the threshold passes verification", func(t *testing.T) {
		store, sourceKey, targetKey := comparisonFixtures(t)

		comparer := new(MockFaceComparer)
		comparer.On("CompareFaces", mock.Anything, mock.Anything, mock.Anything, 95.0).
			Return(&provider.ComparisonResult{
				FaceMatches:          []provider.ComparedFace{{Similarity: 98.2, Confidence: 99.9}},
				SourceImageFaceCount: 1,
				TargetImageFaceCount: 1,
			}, nil)

		svc := NewComparisonService(comparer, store, 95)
		comparison, err := svc.Compare(context.Background(), sourceKey, targetKey, 0)
		require.NoError(t, err)

		assert.True(t, comparison.IsMatch)
		assert.Equal(t, 98.2, comparison.SimilarityScore)
		assert.True(t, comparison.VerificationPassed)
		assert.Equal(t, 1, comparison.SourceImageFaceCount)
		assert.Equal(t, 1, comparison.TargetImageFaceCount)
	})

	t.Run("match below the threshold is re-asserted and fails", func(t *testing.T) {
		store, sourceKey, targetKey := comparisonFixtures(t)

		// Upstream reported a pairing anyway; the verdict must not trust it
		comparer := new(MockFaceComparer)
		comparer.On("CompareFaces", mock.Anything, mock.Anything, mock.Anything, 95.0).
			Return(&provider.ComparisonResult{
				FaceMatches:          []provider.ComparedFace{{Similarity: 90.0, Confidence: 99.0}},
				SourceImageFaceCount: 1,
				TargetImageFaceCount: 1,
			}, nil)

		svc := NewComparisonService(comparer, store, 95)
		comparison, err := svc.Compare(context.Background(), sourceKey, targetKey, 0)
		require.NoError(t, err)

		assert.True(t, comparison.IsMatch)
		assert.Equal(t, 90.0, comparison.SimilarityScore)
		assert.False(t, comparison.VerificationPassed)
	})

	t.Run("per-call threshold overrides the configured default", func(t *testing.T) {
		store, sourceKey, targetKey := comparisonFixtures(t)

		// 92.0 fails the configured 95 but passes the caller's 90
		comparer := new(MockFaceComparer)
		comparer.On("CompareFaces", mock.Anything, mock.Anything, mock.Anything, 90.0).
			Return(&provider.ComparisonResult{
				FaceMatches:          []provider.ComparedFace{{Similarity: 92.0, Confidence: 99.5}},
				SourceImageFaceCount: 1,
				TargetImageFaceCount: 1,
			}, nil)

		svc := NewComparisonService(comparer, store, 95)
		comparison, err := svc.Compare(context.Background(), sourceKey, targetKey, 90)
		require.NoError(t, err)

		assert.True(t, comparison.IsMatch)
		assert.Equal(t, 92.0, comparison.SimilarityScore)
		assert.True(t, comparison.VerificationPassed)
	})

	t.Run("no pairings means no match and zero similarity", func(t *testing.T) {
		store, sourceKey, targetKey := comparisonFixtures(t)

		comparer := new(MockFaceComparer)
		comparer.On("CompareFaces", mock.Anything, mock.Anything, mock.Anything, 95.0).
			Return(&provider.ComparisonResult{
				UnmatchedFaces:       []provider.ComparedFace{{Confidence: 99.1}},
				SourceImageFaceCount: 1,
				TargetImageFaceCount: 1,
			}, nil)

		svc := NewComparisonService(comparer, store, 95)
		comparison, err := svc.Compare(context.Background(), sourceKey, targetKey, 0)
		require.NoError(t, err)

		assert.False(t, comparison.IsMatch)
		assert.Zero(t, comparison.SimilarityScore)
		assert.False(t, comparison.VerificationPassed)
		assert.Len(t, comparison.UnmatchedFaces, 1)
	})

	t.Run("missing stored face aborts before comparing", func(t *testing.T) {
		store, _, targetKey := comparisonFixtures(t)

		comparer := new(MockFaceComparer)

		svc := NewComparisonService(comparer, store, 95)
		_, err := svc.Compare(context.Background(), "faces/unknown/id_face.jpg", targetKey, 0)

		assertAppCode(t, err, "UPSTREAM_FAILED")
		comparer.AssertNotCalled(t, "CompareFaces", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
