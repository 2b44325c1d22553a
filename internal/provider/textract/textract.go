package textract

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/aws/smithy-go"

	"github.com/saturnino-fabrica-de-software/veriface/internal/audit"
	"github.com/saturnino-fabrica-de-software/veriface/internal/provider"
)

const (
	errCodeAccessDenied     = "AccessDeniedException"
	errCodeUnsupportedDoc   = "UnsupportedDocumentException"
	errCodeBadDocument      = "BadDocumentException"
	errCodeDocumentTooLarge = "DocumentTooLargeException"
	errCodeInvalidParameter = "InvalidParameterException"
)

var (
	// ErrInvalidDocument indicates the document image cannot be analyzed
	ErrInvalidDocument = errors.New("document image cannot be analyzed")

	// ErrInvalidCredentials indicates that AWS credentials are invalid or missing
	ErrInvalidCredentials = errors.New("invalid or missing AWS credentials")
)

// Config holds configuration for the AWS Textract provider
type Config struct {
	// Region is the AWS region where Textract will be used (e.g., "us-east-1")
	Region string
}

// TextractAPI defines the subset of the AWS Textract client used by the
// analyzer, so tests can substitute a mock.
type TextractAPI interface {
	AnalyzeID(ctx context.Context, params *textract.AnalyzeIDInput, optFns ...func(*textract.Options)) (*textract.AnalyzeIDOutput, error)
}

// Analyzer implements provider.DocumentAnalyzer using AWS Textract AnalyzeID
type Analyzer struct {
	textract    TextractAPI
	auditLogger audit.Logger
}

var _ provider.DocumentAnalyzer = (*Analyzer)(nil)

// NewAnalyzer creates a Textract analyzer using the AWS default credential
// chain. auditLogger may be nil to disable audit events.
func NewAnalyzer(ctx context.Context, cfg Config, auditLogger audit.Logger) (*Analyzer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Analyzer{
		textract:    textract.NewFromConfig(awsCfg),
		auditLogger: auditLogger,
	}, nil
}

func (a *Analyzer) logAudit(ctx context.Context, success bool, err error, metadata map[string]string) {
	if a.auditLogger == nil {
		return
	}

	event := audit.Event{
		EventType: audit.EventDocumentAnalyzed,
		Provider:  "textract",
		Success:   success,
		Metadata:  metadata,
	}
	if err != nil {
		event.Error = err.Error()
	}

	_ = a.auditLogger.Log(ctx, event)
}

// AnalyzeDocument extracts identity-document fields from the image. Only
// fields carrying a non-empty detected text value are returned, keyed by the
// semantic field type reported by Textract. Low-confidence fields with no
// detected text are dropped silently.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, image []byte) (map[string]string, error) {
	input := &textract.AnalyzeIDInput{
		DocumentPages: []types.Document{
			{Bytes: image},
		},
	}

	output, err := a.textract.AnalyzeID(ctx, input)
	if err != nil {
		err = parseAnalyzeError(err)
		a.logAudit(ctx, false, err, map[string]string{
			"image_size": strconv.Itoa(len(image)),
		})
		return nil, fmt.Errorf("analyze id: %w", err)
	}

	fields := make(map[string]string)
	for _, doc := range output.IdentityDocuments {
		for _, field := range doc.IdentityDocumentFields {
			if field.Type == nil || field.Type.Text == nil {
				continue
			}
			if field.ValueDetection == nil || field.ValueDetection.Text == nil || *field.ValueDetection.Text == "" {
				continue
			}
			fields[*field.Type.Text] = *field.ValueDetection.Text
		}
		// AnalyzeID is invoked with a single page; further documents would
		// belong to other pages
		break
	}

	a.logAudit(ctx, true, nil, map[string]string{
		"fields_count": strconv.Itoa(len(fields)),
		"image_size":   strconv.Itoa(len(image)),
	})

	return fields, nil
}

func parseAnalyzeError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case errCodeUnsupportedDoc, errCodeBadDocument, errCodeDocumentTooLarge, errCodeInvalidParameter:
			return fmt.Errorf("%w: %s", ErrInvalidDocument, apiErr.ErrorMessage())
		case errCodeAccessDenied:
			return ErrInvalidCredentials
		}
	}
	return err
}
