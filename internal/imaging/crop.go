// Package imaging isolates the pixel work of the document-processing step:
// scaling a detected face's normalized bounding box, clamping it to the image
// and re-encoding the crop as JPEG.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	_ "image/png"

	"github.com/saturnino-fabrica-de-software/veriface/internal/provider"
)

// jpegQuality used when re-encoding face crops
const jpegQuality = 90

var (
	// ErrDecodeImage indicates the source bytes are not a decodable image
	ErrDecodeImage = errors.New("cannot decode image")

	// ErrEmptyCrop indicates the scaled, clamped box has no area inside the image
	ErrEmptyCrop = errors.New("scaled bounding box has no area inside the image")
)

// ScaleBox grows (or shrinks) a normalized bounding box by factor s about its
// own center. Coordinates remain normalized and may exceed [0,1]; clamping
// happens in pixel space at crop time.
func ScaleBox(box provider.BoundingBox, s float64) provider.BoundingBox {
	newW := box.Width * s
	newH := box.Height * s

	return provider.BoundingBox{
		Left:   box.Left - (newW-box.Width)/2,
		Top:    box.Top - (newH-box.Height)/2,
		Width:  newW,
		Height: newH,
	}
}

// PixelRect converts a normalized box to a pixel rectangle clamped to the
// image dimensions.
func PixelRect(box provider.BoundingBox, imgW, imgH int) image.Rectangle {
	x1 := int(box.Left * float64(imgW))
	y1 := int(box.Top * float64(imgH))
	x2 := int((box.Left + box.Width) * float64(imgW))
	y2 := int((box.Top + box.Height) * float64(imgH))

	if x1 < 0 {
		x1 = 0
	}
	if y1 < 0 {
		y1 = 0
	}
	if x2 > imgW {
		x2 = imgW
	}
	if y2 > imgH {
		y2 = imgH
	}

	// Built literally: image.Rect would swap a fully-clamped (inverted) box
	// into a non-empty rectangle
	return image.Rectangle{Min: image.Point{X: x1, Y: y1}, Max: image.Point{X: x2, Y: y2}}
}

// CropFace cuts the face located by box (normalized, unscaled) out of the
// image, padded by scale about the box center, and re-encodes it as JPEG.
func CropFace(imageBytes []byte, box provider.BoundingBox, scale float64) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeImage, err)
	}

	bounds := img.Bounds()
	rect := PixelRect(ScaleBox(box, scale), bounds.Dx(), bounds.Dy())
	if rect.Empty() {
		return nil, ErrEmptyCrop
	}

	// Rect is relative to a zero-origin image; offset for decoders that
	// produce non-zero bounds
	rect = rect.Add(bounds.Min)

	cropped := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(cropped, cropped.Bounds(), img, rect.Min, draw.Src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, cropped, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode cropped face: %w", err)
	}

	return buf.Bytes(), nil
}
