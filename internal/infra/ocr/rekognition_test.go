package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/purelabel/internal/domain/labels"
)

type fakeDetector struct {
	out   *rekognition.DetectTextOutput
	err   error
	input *rekognition.DetectTextInput
}

func (f *fakeDetector) DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error) {
	f.input = params
	return f.out, f.err
}

func detection(text string, kind types.TextTypes, conf float32) types.TextDetection {
	return types.TextDetection{DetectedText: aws.String(text), Type: kind, Confidence: aws.Float32(conf)}
}

func TestRekognition_ExtractText(t *testing.T) {
	f := &fakeDetector{out: &rekognition.DetectTextOutput{TextDetections: []types.TextDetection{
		detection("INGREDIENTS: Wheat Flour,", types.TextTypesLine, 98),
		detection("Wheat", types.TextTypesWord, 99),
		detection("Palm Oil, Salt", types.TextTypesLine, 91),
		detection("~~smudge~~", types.TextTypesLine, 40),
	}}}
	r := NewWithClient(f, 80)

	text, err := r.ExtractText(context.Background(), labels.Image{Data: []byte{1, 2, 3}, ContentType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, "INGREDIENTS: Wheat Flour,\nPalm Oil, Salt", text)
	assert.Equal(t, []byte{1, 2, 3}, f.input.Image.Bytes)
}

func TestRekognition_Failures(t *testing.T) {
	ctx := context.Background()

	_, err := NewWithClient(&fakeDetector{}, 0).ExtractText(ctx, labels.Image{})
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = NewWithClient(&fakeDetector{}, 0).ExtractText(ctx, labels.Image{Data: make([]byte, maxImageBytes+1)})
	assert.ErrorIs(t, err, ErrImageTooLarge)

	cause := errors.New("throttled")
	_, err = NewWithClient(&fakeDetector{err: cause}, 0).ExtractText(ctx, labels.Image{Data: []byte{1}})
	assert.ErrorIs(t, err, cause)

	_, err = NewWithClient(&fakeDetector{out: &rekognition.DetectTextOutput{}}, 0).ExtractText(ctx, labels.Image{Data: []byte{1}})
	assert.ErrorIs(t, err, ErrNoText)
}
