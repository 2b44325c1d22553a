package domain

// DocumentType is the kind of identity document submitted for extraction.
type DocumentType string

const (
	DocumentPassport       DocumentType = "passport"
	DocumentDriversLicense DocumentType = "drivers-license"
	DocumentNationalID     DocumentType = "national-id"
)

// ParseDocumentType validates a caller-supplied document type, defaulting to
// passport when unspecified.
func ParseDocumentType(raw string) (DocumentType, error) {
	if raw == "" {
		return DocumentPassport, nil
	}
	dt := DocumentType(raw)
	switch dt {
	case DocumentPassport, DocumentDriversLicense, DocumentNationalID:
		return dt, nil
	}
	return "", ErrInvalidDocumentType
}

// DocumentExtraction is the outcome of the document-processing step.
// FaceKey is nil when no face cleared the confidence bar; that is a normal
// result, not an error.
type DocumentExtraction struct {
	DocumentType    DocumentType      `json:"document_type"`
	ExtractedFields map[string]string `json:"extracted_fields"`
	FaceDetected    bool              `json:"face_detected"`
	FaceKey         *string           `json:"face_s3_key"`
}
