package rekognition

// Config holds configuration for the AWS Rekognition provider
type Config struct {
	// Region is the AWS region where Rekognition will be used (e.g., "us-east-1")
	Region string

	// S3Bucket is the bucket where liveness capture artifacts are written
	S3Bucket string

	// AuditImagesLimit bounds the number of supporting frames the liveness
	// session retains (Rekognition accepts 0-4 extra frames plus reference)
	AuditImagesLimit int32
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		Region:           "us-east-1",
		AuditImagesLimit: 5,
	}
}
