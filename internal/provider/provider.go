package provider

import "context"

// DocumentAnalyzer extrai campos estruturados de um documento de identidade
type DocumentAnalyzer interface {
	// AnalyzeDocument returns field name → detected text for every field the
	// engine extracted with a non-empty value. Fields without a confident
	// text value are dropped silently.
	AnalyzeDocument(ctx context.Context, image []byte) (map[string]string, error)
}

// FaceDetector locates faces in an image
type FaceDetector interface {
	// DetectFaces detects faces in the image and returns information about
	// each one. An empty slice means no face was found (not an error).
	DetectFaces(ctx context.Context, image []byte) ([]DetectedFace, error)
}

// FaceComparer scores the similarity of two face images
type FaceComparer interface {
	// CompareFaces compares a source face against a target image using the
	// given similarity threshold (0-100) and returns the raw comparison
	// outcome: matched pairings, unmatched faces and per-side face counts.
	CompareFaces(ctx context.Context, source, target []byte, threshold float64) (*ComparisonResult, error)
}

// LivenessProvider drives a challenge-response liveness capture session
type LivenessProvider interface {
	// CreateSession provisions a capture session writing its artifacts under
	// outputPrefix and returns the capture-side session identifier.
	CreateSession(ctx context.Context, clientToken, outputPrefix string) (string, error)

	// GetSessionResults returns the current capture status and, once the
	// capture succeeded, the confidence score and reference image location.
	GetSessionResults(ctx context.Context, sessionID string) (*LivenessSessionResults, error)
}

// DetectedFace represents a detected face in the image
type DetectedFace struct {
	BoundingBox BoundingBox `json:"bounding_box"`
	Confidence  float64     `json:"confidence"`
}

// BoundingBox represents the face area in the image, normalized to 0-1
type BoundingBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ComparedFace is one face seen by the comparison capability
type ComparedFace struct {
	Similarity float64 `json:"similarity"`
	Confidence float64 `json:"confidence"`
}

// ComparisonResult is the raw outcome of a face comparison call.
// Similarity scores are on the capability's native 0-100 scale.
type ComparisonResult struct {
	FaceMatches          []ComparedFace `json:"face_matches"`
	UnmatchedFaces       []ComparedFace `json:"unmatched_faces"`
	SourceImageFaceCount int            `json:"source_image_face_count"`
	TargetImageFaceCount int            `json:"target_image_face_count"`
}

// LivenessSessionResults is the capture engine's view of a liveness session
type LivenessSessionResults struct {
	SessionID         string
	Status            string
	Confidence        *float64
	ReferenceImageKey *string
	AuditImageKeys    []string
	Challenge         *string
}
