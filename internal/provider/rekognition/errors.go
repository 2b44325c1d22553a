package rekognition

import "errors"

var (
	// ErrInvalidCredentials indicates that AWS credentials are invalid or missing
	ErrInvalidCredentials = errors.New("invalid or missing AWS credentials")

	// ErrNoFaceDetected indicates that no face was found in the provided image
	ErrNoFaceDetected = errors.New("no face detected in image")

	// ErrInvalidImage indicates the image bytes cannot be processed by Rekognition
	ErrInvalidImage = errors.New("invalid image for rekognition processing")

	// ErrSessionNotFound indicates the liveness session id is unknown to Rekognition
	ErrSessionNotFound = errors.New("liveness session not found")
)
