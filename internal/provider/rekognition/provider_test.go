package rekognition

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/veriface/internal/provider"
)

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, int32(5), cfg.AuditImagesLimit)
}

// ptr is a helper function to get pointer to a value
func ptr[T any](v T) *T {
	return &v
}

// fakeImageData returns fake image data with minimum valid size
func fakeImageData() []byte {
	data := make([]byte, 150)
	for i := range data {
		data[i] = byte(i % 256)
	}
	return data
}

// TestDetectFaces_Success verifies successful face detection
func TestDetectFaces_Success(t *testing.T) {
	mock := &mockRekognitionAPI{
		detectFacesFunc: func(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error) {
			return &rekognition.DetectFacesOutput{
				FaceDetails: []types.FaceDetail{
					{
						BoundingBox: &types.BoundingBox{
							Left:   ptr(float32(0.1)),
							Top:    ptr(float32(0.2)),
							Width:  ptr(float32(0.3)),
							Height: ptr(float32(0.4)),
						},
						Confidence: ptr(float32(99.5)),
					},
				},
			}, nil
		},
	}

	client := &Client{rekognition: mock, config: DefaultConfig()}
	p := NewProvider(client)

	faces, err := p.DetectFaces(context.Background(), fakeImageData())

	require.NoError(t, err)
	require.Len(t, faces, 1)
	assert.InDelta(t, 0.1, faces[0].BoundingBox.Left, 0.01)
	assert.InDelta(t, 0.2, faces[0].BoundingBox.Top, 0.01)
	assert.InDelta(t, 0.3, faces[0].BoundingBox.Width, 0.01)
	assert.InDelta(t, 0.4, faces[0].BoundingBox.Height, 0.01)
	assert.InDelta(t, 99.5, faces[0].Confidence, 0.1)
}

// TestDetectFaces_NoFaces verifies handling of images with no faces
func TestDetectFaces_NoFaces(t *testing.T) {
	mock := &mockRekognitionAPI{
		detectFacesFunc: func(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error) {
			return &rekognition.DetectFacesOutput{
				FaceDetails: []types.FaceDetail{},
			}, nil
		},
	}

	client := &Client{rekognition: mock, config: DefaultConfig()}
	p := NewProvider(client)

	faces, err := p.DetectFaces(context.Background(), fakeImageData())

	require.NoError(t, err)
	assert.Empty(t, faces)
}

// TestDetectFaces_SkipsPartialDetails verifies faces without box or confidence are dropped
func TestDetectFaces_SkipsPartialDetails(t *testing.T) {
	mock := &mockRekognitionAPI{
		detectFacesFunc: func(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error) {
			return &rekognition.DetectFacesOutput{
				FaceDetails: []types.FaceDetail{
					{Confidence: ptr(float32(99.0))}, // no bounding box
					{
						BoundingBox: &types.BoundingBox{
							Left:   ptr(float32(0.5)),
							Top:    ptr(float32(0.5)),
							Width:  ptr(float32(0.2)),
							Height: ptr(float32(0.2)),
						},
						Confidence: ptr(float32(96.0)),
					},
				},
			}, nil
		},
	}

	client := &Client{rekognition: mock, config: DefaultConfig()}
	p := NewProvider(client)

	faces, err := p.DetectFaces(context.Background(), fakeImageData())

	require.NoError(t, err)
	require.Len(t, faces, 1)
	assert.InDelta(t, 96.0, faces[0].Confidence, 0.1)
}

// TestDetectFaces_Error verifies error handling in face detection
func TestDetectFaces_Error(t *testing.T) {
	mock := &mockRekognitionAPI{
		detectFacesFunc: func(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error) {
			return nil, assert.AnError
		},
	}

	client := &Client{rekognition: mock, config: DefaultConfig()}
	p := NewProvider(client)

	faces, err := p.DetectFaces(context.Background(), fakeImageData())

	require.Error(t, err)
	assert.Nil(t, faces)
	assert.Contains(t, err.Error(), "detect faces")
}

// TestCompareFaces_Success verifies successful face comparison
func TestCompareFaces_Success(t *testing.T) {
	mock := &mockRekognitionAPI{
		compareFacesFunc: func(ctx context.Context, params *rekognition.CompareFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.CompareFacesOutput, error) {
			assert.InDelta(t, float32(95.0), *params.SimilarityThreshold, 0.01)
			return &rekognition.CompareFacesOutput{
				SourceImageFace: &types.ComparedSourceImageFace{
					Confidence: ptr(float32(99.9)),
				},
				FaceMatches: []types.CompareFacesMatch{
					{
						Similarity: ptr(float32(98.2)),
						Face: &types.ComparedFace{
							Confidence: ptr(float32(99.9)),
						},
					},
				},
			}, nil
		},
	}

	client := &Client{rekognition: mock, config: DefaultConfig()}
	p := NewProvider(client)

	result, err := p.CompareFaces(context.Background(), fakeImageData(), fakeImageData(), 95.0)

	require.NoError(t, err)
	require.Len(t, result.FaceMatches, 1)
	assert.InDelta(t, 98.2, result.FaceMatches[0].Similarity, 0.01)
	assert.InDelta(t, 99.9, result.FaceMatches[0].Confidence, 0.01)
	assert.Equal(t, 1, result.SourceImageFaceCount)
	assert.Equal(t, 1, result.TargetImageFaceCount)
}

// TestCompareFaces_NoMatch verifies below-threshold faces land in UnmatchedFaces
func TestCompareFaces_NoMatch(t *testing.T) {
	mock := &mockRekognitionAPI{
		compareFacesFunc: func(ctx context.Context, params *rekognition.CompareFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.CompareFacesOutput, error) {
			return &rekognition.CompareFacesOutput{
				SourceImageFace: &types.ComparedSourceImageFace{
					Confidence: ptr(float32(99.0)),
				},
				FaceMatches: []types.CompareFacesMatch{},
				UnmatchedFaces: []types.ComparedFace{
					{Confidence: ptr(float32(97.3))},
				},
			}, nil
		},
	}

	client := &Client{rekognition: mock, config: DefaultConfig()}
	p := NewProvider(client)

	result, err := p.CompareFaces(context.Background(), fakeImageData(), fakeImageData(), 95.0)

	require.NoError(t, err)
	assert.Empty(t, result.FaceMatches)
	require.Len(t, result.UnmatchedFaces, 1)
	assert.InDelta(t, 97.3, result.UnmatchedFaces[0].Confidence, 0.01)
	assert.Equal(t, 1, result.TargetImageFaceCount)
}

// TestCompareFaces_Error verifies error handling during comparison
func TestCompareFaces_Error(t *testing.T) {
	mock := &mockRekognitionAPI{
		compareFacesFunc: func(ctx context.Context, params *rekognition.CompareFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.CompareFacesOutput, error) {
			return nil, assert.AnError
		},
	}

	client := &Client{rekognition: mock, config: DefaultConfig()}
	p := NewProvider(client)

	result, err := p.CompareFaces(context.Background(), fakeImageData(), fakeImageData(), 95.0)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "compare faces")
}

// TestValidateImage_EmptyImage verifies validation of empty images
func TestValidateImage_EmptyImage(t *testing.T) {
	mock := &mockRekognitionAPI{}
	client := &Client{rekognition: mock, config: DefaultConfig()}
	p := NewProvider(client)

	_, err := p.DetectFaces(context.Background(), []byte{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

// TestValidateImage_TooSmall verifies validation of images that are too small
func TestValidateImage_TooSmall(t *testing.T) {
	mock := &mockRekognitionAPI{}
	client := &Client{rekognition: mock, config: DefaultConfig()}
	p := NewProvider(client)

	smallImage := make([]byte, 50) // Less than minImageSize (100)

	_, err := p.DetectFaces(context.Background(), smallImage)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidImage)
	assert.Contains(t, err.Error(), "too small")
}

// TestValidateImage_TooLarge verifies validation of images that are too large
func TestValidateImage_TooLarge(t *testing.T) {
	mock := &mockRekognitionAPI{}
	client := &Client{rekognition: mock, config: DefaultConfig()}
	p := NewProvider(client)

	largeImage := make([]byte, 6*1024*1024)

	_, err := p.CompareFaces(context.Background(), largeImage, fakeImageData(), 95.0)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidImage)
	assert.Contains(t, err.Error(), "too large")
}

// TestProviderImplementsInterfaces verifies the provider satisfies both step interfaces
func TestProviderImplementsInterfaces(t *testing.T) {
	var _ provider.FaceDetector = (*Provider)(nil)
	var _ provider.FaceComparer = (*Provider)(nil)
}
