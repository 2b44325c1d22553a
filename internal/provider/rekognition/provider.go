package rekognition

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/saturnino-fabrica-de-software/veriface/internal/audit"
	"github.com/saturnino-fabrica-de-software/veriface/internal/provider"
)

const (
	// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024
	// minImageSize is the minimum image size for valid processing
	minImageSize = 100
)

// Provider implements provider.FaceDetector and provider.FaceComparer using
// AWS Rekognition
type Provider struct {
	client      *Client
	auditLogger audit.Logger
}

// ProviderOption defines optional configuration for Provider
type ProviderOption func(*Provider)

// WithAuditLogger sets the audit logger for the provider
func WithAuditLogger(logger audit.Logger) ProviderOption {
	return func(p *Provider) {
		p.auditLogger = logger
	}
}

// Ensure Provider implements the step interfaces at compile time
var (
	_ provider.FaceDetector = (*Provider)(nil)
	_ provider.FaceComparer = (*Provider)(nil)
)

// NewProvider creates a new Rekognition provider on top of an existing client,
// so the detection, comparison and liveness providers share one AWS client
func NewProvider(client *Client, opts ...ProviderOption) *Provider {
	p := &Provider{client: client}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// logAudit logs an audit event if an audit logger is configured
// Audit failure does not affect the operation (fire-and-forget)
func (p *Provider) logAudit(ctx context.Context, eventType audit.EventType, success bool, err error, metadata map[string]string) {
	if p.auditLogger == nil {
		return
	}

	event := audit.Event{
		EventType: eventType,
		Provider:  "rekognition",
		Success:   success,
		Metadata:  metadata,
	}

	if err != nil {
		event.Error = err.Error()
	}

	_ = p.auditLogger.Log(ctx, event)
}

// validateImage checks if image data is valid for Rekognition processing
func validateImage(image []byte) error {
	if len(image) == 0 {
		return ErrInvalidImage
	}
	if len(image) < minImageSize {
		return fmt.Errorf("%w: image too small (%d bytes, minimum %d)", ErrInvalidImage, len(image), minImageSize)
	}
	if len(image) > maxImageSize {
		return fmt.Errorf("%w: image too large (%d bytes, maximum %d)", ErrInvalidImage, len(image), maxImageSize)
	}
	return nil
}

// DetectFaces detects faces in an image using AWS Rekognition DetectFaces API
// Returns an empty slice if no faces are detected (not an error)
func (p *Provider) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	if err := validateImage(image); err != nil {
		p.logAudit(ctx, audit.EventFaceDetected, false, err, map[string]string{
			"image_size": strconv.Itoa(len(image)),
		})
		return nil, err
	}

	input := &rekognition.DetectFacesInput{
		Image: &types.Image{
			Bytes: image,
		},
		Attributes: []types.Attribute{types.AttributeAll},
	}

	output, err := p.client.rekognition.DetectFaces(ctx, input)
	if err != nil {
		err = ParseImageError(err)
		p.logAudit(ctx, audit.EventFaceDetected, false, err, map[string]string{
			"image_size": strconv.Itoa(len(image)),
		})
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	faces := make([]provider.DetectedFace, 0, len(output.FaceDetails))
	for _, detail := range output.FaceDetails {
		if detail.BoundingBox == nil || detail.Confidence == nil {
			continue
		}
		faces = append(faces, provider.DetectedFace{
			BoundingBox: provider.BoundingBox{
				Left:   float64(*detail.BoundingBox.Left),
				Top:    float64(*detail.BoundingBox.Top),
				Width:  float64(*detail.BoundingBox.Width),
				Height: float64(*detail.BoundingBox.Height),
			},
			Confidence: float64(*detail.Confidence),
		})
	}

	p.logAudit(ctx, audit.EventFaceDetected, true, nil, map[string]string{
		"faces_count": strconv.Itoa(len(faces)),
		"image_size":  strconv.Itoa(len(image)),
	})

	return faces, nil
}

// CompareFaces compares a source face image against a target image using the
// AWS Rekognition CompareFaces API. The threshold is on the native 0-100
// scale; pairings below it are reported in UnmatchedFaces.
func (p *Provider) CompareFaces(ctx context.Context, source, target []byte, threshold float64) (*provider.ComparisonResult, error) {
	if err := validateImage(source); err != nil {
		p.logAudit(ctx, audit.EventFaceCompared, false, err, map[string]string{
			"source_image_size": strconv.Itoa(len(source)),
			"target_image_size": strconv.Itoa(len(target)),
		})
		return nil, fmt.Errorf("source image: %w", err)
	}
	if err := validateImage(target); err != nil {
		p.logAudit(ctx, audit.EventFaceCompared, false, err, map[string]string{
			"source_image_size": strconv.Itoa(len(source)),
			"target_image_size": strconv.Itoa(len(target)),
		})
		return nil, fmt.Errorf("target image: %w", err)
	}

	input := &rekognition.CompareFacesInput{
		SourceImage: &types.Image{
			Bytes: source,
		},
		TargetImage: &types.Image{
			Bytes: target,
		},
		SimilarityThreshold: aws.Float32(float32(threshold)),
	}

	output, err := p.client.rekognition.CompareFaces(ctx, input)
	if err != nil {
		err = ParseImageError(err)
		p.logAudit(ctx, audit.EventFaceCompared, false, err, map[string]string{
			"source_image_size": strconv.Itoa(len(source)),
			"target_image_size": strconv.Itoa(len(target)),
		})
		return nil, fmt.Errorf("compare faces: %w", err)
	}

	result := &provider.ComparisonResult{
		FaceMatches:    make([]provider.ComparedFace, 0, len(output.FaceMatches)),
		UnmatchedFaces: make([]provider.ComparedFace, 0, len(output.UnmatchedFaces)),
	}

	for _, match := range output.FaceMatches {
		face := provider.ComparedFace{}
		if match.Similarity != nil {
			face.Similarity = float64(*match.Similarity)
		}
		if match.Face != nil && match.Face.Confidence != nil {
			face.Confidence = float64(*match.Face.Confidence)
		}
		result.FaceMatches = append(result.FaceMatches, face)
	}

	for _, unmatched := range output.UnmatchedFaces {
		face := provider.ComparedFace{}
		if unmatched.Confidence != nil {
			face.Confidence = float64(*unmatched.Confidence)
		}
		result.UnmatchedFaces = append(result.UnmatchedFaces, face)
	}

	// CompareFaces only ever considers the largest face in the source image
	if output.SourceImageFace != nil {
		result.SourceImageFaceCount = 1
	}
	result.TargetImageFaceCount = len(result.FaceMatches) + len(result.UnmatchedFaces)

	p.logAudit(ctx, audit.EventFaceCompared, true, nil, map[string]string{
		"matches":           strconv.Itoa(len(result.FaceMatches)),
		"unmatched":         strconv.Itoa(len(result.UnmatchedFaces)),
		"source_image_size": strconv.Itoa(len(source)),
		"target_image_size": strconv.Itoa(len(target)),
	})

	return result, nil
}
