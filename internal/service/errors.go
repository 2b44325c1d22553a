package service

import (
	"errors"
	"fmt"

	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
	"github.com/saturnino-fabrica-de-software/veriface/internal/imaging"
	"github.com/saturnino-fabrica-de-software/veriface/internal/provider/rekognition"
	"github.com/saturnino-fabrica-de-software/veriface/internal/provider/textract"
)

// classifyStepError maps provider and imaging failures onto the API error
// taxonomy. Errors already carrying an AppError pass through untouched.
func classifyStepError(op string, err error) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, rekognition.ErrInvalidImage),
		errors.Is(err, textract.ErrInvalidDocument),
		errors.Is(err, imaging.ErrDecodeImage):
		return domain.ErrInvalidImage.WithError(err)
	}

	return domain.ErrUpstreamFailed.WithError(fmt.Errorf("%s: %w", op, err))
}
