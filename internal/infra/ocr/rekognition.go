// Package ocr extracts label text from photos with AWS Rekognition.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/bryanwahyu/purelabel/internal/domain/labels"
)

// Rekognition accepts images up to 5MB as raw bytes.
const maxImageBytes = 5 * 1024 * 1024

var (
	ErrEmptyImage    = errors.New("image is empty")
	ErrImageTooLarge = errors.New("image exceeds 5MB")
	ErrNoText        = errors.New("no text detected")
)

// DetectTextAPI is the slice of the Rekognition client we use.
type DetectTextAPI interface {
	DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
}

type Rekognition struct {
	api           DetectTextAPI
	minConfidence float32
}

// NewRekognition loads the default AWS credential chain for region.
func NewRekognition(ctx context.Context, region string, minConfidence float32) (*Rekognition, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return NewWithClient(rekognition.NewFromConfig(cfg), minConfidence), nil
}

func NewWithClient(api DetectTextAPI, minConfidence float32) *Rekognition {
	return &Rekognition{api: api, minConfidence: minConfidence}
}

// ExtractText returns the detected LINE entries joined by newlines.
func (r *Rekognition) ExtractText(ctx context.Context, img labels.Image) (string, error) {
	if len(img.Data) == 0 {
		return "", ErrEmptyImage
	}
	if len(img.Data) > maxImageBytes {
		return "", ErrImageTooLarge
	}

	out, err := r.api.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: img.Data},
	})
	if err != nil {
		return "", fmt.Errorf("rekognition detect text: %w", err)
	}

	lines := make([]string, 0, len(out.TextDetections))
	for _, d := range out.TextDetections {
		if d.Type != types.TextTypesLine {
			continue
		}
		if aws.ToFloat32(d.Confidence) < r.minConfidence {
			continue
		}
		if s := strings.TrimSpace(aws.ToString(d.DetectedText)); s != "" {
			lines = append(lines, s)
		}
	}
	if len(lines) == 0 {
		return "", ErrNoText
	}
	return strings.Join(lines, "\n"), nil
}
