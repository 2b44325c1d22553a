package rekognition

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"

	"github.com/saturnino-fabrica-de-software/veriface/internal/audit"
	"github.com/saturnino-fabrica-de-software/veriface/internal/provider"
)

// challengeVersion pins the face-movement-and-lighting challenge to a single
// supported version range
const challengeVersion = "1.0"

// LivenessProvider implements provider.LivenessProvider using the AWS
// Rekognition Face Liveness APIs
type LivenessProvider struct {
	client      *Client
	auditLogger audit.Logger
}

var _ provider.LivenessProvider = (*LivenessProvider)(nil)

// NewLivenessProvider creates a liveness provider sharing the Rekognition
// client. auditLogger may be nil to disable audit events.
func NewLivenessProvider(client *Client, auditLogger audit.Logger) *LivenessProvider {
	return &LivenessProvider{client: client, auditLogger: auditLogger}
}

func (l *LivenessProvider) logAudit(ctx context.Context, eventType audit.EventType, success bool, err error, metadata map[string]string) {
	if l.auditLogger == nil {
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

	_ = l.auditLogger.Log(ctx, event)
}

// CreateSession provisions a Rekognition face liveness session. Artifacts are
// written under outputPrefix in the configured bucket; clientToken makes the
// call idempotent per KYC session.
func (l *LivenessProvider) CreateSession(ctx context.Context, clientToken, outputPrefix string) (string, error) {
	input := &rekognition.CreateFaceLivenessSessionInput{
		ClientRequestToken: aws.String(clientToken),
		Settings: &types.CreateFaceLivenessSessionRequestSettings{
			OutputConfig: &types.LivenessOutputConfig{
				S3Bucket:    aws.String(l.client.config.S3Bucket),
				S3KeyPrefix: aws.String(outputPrefix),
			},
			AuditImagesLimit: aws.Int32(l.client.config.AuditImagesLimit),
			ChallengePreferences: []types.ChallengePreference{
				{
					Type: types.ChallengeTypeFaceMovementAndLightChallenge,
					Versions: &types.Versions{
						Minimum: aws.String(challengeVersion),
						Maximum: aws.String(challengeVersion),
					},
				},
			},
		},
	}

	output, err := l.client.rekognition.CreateFaceLivenessSession(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == errCodeAccessDenied {
			err = ErrInvalidCredentials
		}
		l.logAudit(ctx, audit.EventLivenessCreated, false, err, map[string]string{
			"client_token": clientToken,
		})
		return "", fmt.Errorf("create liveness session: %w", err)
	}

	sessionID := aws.ToString(output.SessionId)
	l.logAudit(ctx, audit.EventLivenessCreated, true, nil, map[string]string{
		"liveness_session_id": sessionID,
	})

	return sessionID, nil
}

// GetSessionResults fetches the current state of a liveness session. The
// reference image and audit frames are reported as blob-store keys written by
// Rekognition under the session's output prefix.
func (l *LivenessProvider) GetSessionResults(ctx context.Context, sessionID string) (*provider.LivenessSessionResults, error) {
	input := &rekognition.GetFaceLivenessSessionResultsInput{
		SessionId: aws.String(sessionID),
	}

	output, err := l.client.rekognition.GetFaceLivenessSessionResults(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case errCodeSessionNotFound:
				err = ErrSessionNotFound
			case errCodeAccessDenied:
				err = ErrInvalidCredentials
			}
		}
		l.logAudit(ctx, audit.EventLivenessResults, false, err, map[string]string{
			"liveness_session_id": sessionID,
		})
		return nil, fmt.Errorf("get liveness session results: %w", err)
	}

	results := &provider.LivenessSessionResults{
		SessionID: aws.ToString(output.SessionId),
		Status:    string(output.Status),
	}

	if output.Confidence != nil {
		confidence := float64(*output.Confidence)
		results.Confidence = &confidence
	}

	if key := auditImageKey(output.ReferenceImage); key != "" {
		results.ReferenceImageKey = &key
	}

	for _, img := range output.AuditImages {
		if key := auditImageKey(&img); key != "" {
			results.AuditImageKeys = append(results.AuditImageKeys, key)
		}
	}

	if output.Challenge != nil && output.Challenge.Type != "" {
		challenge := fmt.Sprintf("%s@%s", output.Challenge.Type, aws.ToString(output.Challenge.Version))
		results.Challenge = &challenge
	}

	l.logAudit(ctx, audit.EventLivenessResults, true, nil, map[string]string{
		"liveness_session_id": results.SessionID,
		"status":              results.Status,
		"audit_images":        strconv.Itoa(len(results.AuditImageKeys)),
	})

	return results, nil
}

func auditImageKey(img *types.AuditImage) string {
	if img == nil || img.S3Object == nil {
		return ""
	}
	return aws.ToString(img.S3Object.Name)
}
