package domain

// FaceMatch is one candidate pairing reported by the comparison capability.
type FaceMatch struct {
	Similarity float64 `json:"similarity"`
	Confidence float64 `json:"confidence"`
}

// FaceComparison is the output of the face-comparison step. Scores use the
// 0–100 scale of the underlying capability.
type FaceComparison struct {
	IsMatch              bool        `json:"is_match"`
	SimilarityScore      float64     `json:"similarity_score"`
	FaceMatches          []FaceMatch `json:"face_matches"`
	UnmatchedFaces       []FaceMatch `json:"unmatched_faces"`
	SourceImageFaceCount int         `json:"source_image_face_count"`
	TargetImageFaceCount int         `json:"target_image_face_count"`
	VerificationPassed   bool        `json:"verification_passed"`
}

// Passed applies the verification decision rule for a given threshold.
// The similarity check is redundant with the capability's own threshold but is
// re-asserted so the verdict never depends on upstream threshold handling.
func (c FaceComparison) Passed(threshold float64) bool {
	return c.IsMatch && c.SimilarityScore >= threshold
}
