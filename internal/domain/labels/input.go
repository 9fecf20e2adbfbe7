package labels

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// InputKind enum
type InputKind string

const (
	InputText  InputKind = "text"
	InputImage InputKind = "image"
)

// Image is a label photo as uploaded by the user.
type Image struct {
	Data        []byte
	ContentType string
}

// DataURL renders the image as a data URI ("data:<mime>;base64,<payload>").
func (img Image) DataURL() string {
	return "data:" + img.ContentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// Input is either an ingredient text or an image, never both.
type Input struct {
	Text  string
	Image *Image
}

func TextInput(text string) Input { return Input{Text: text} }

func ImageInput(data []byte, contentType string) Input {
	return Input{Image: &Image{Data: data, ContentType: contentType}}
}

func (in Input) Kind() InputKind {
	if in.Image != nil {
		return InputImage
	}
	return InputText
}

// ParseDataURI decodes "data:image/png;base64,...." into an Image.
func ParseDataURI(uri string) (Image, error) {
	meta, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(meta, "data:") || !strings.HasSuffix(meta, ";base64") {
		return Image{}, fmt.Errorf("%w: invalid data URI", ErrInvalidInput)
	}
	contentType := strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
	if !strings.HasPrefix(contentType, "image/") {
		return Image{}, fmt.Errorf("%w: unsupported content type %q", ErrInvalidInput, contentType)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: invalid base64 payload: %v", ErrInvalidInput, err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: empty image", ErrInvalidInput)
	}
	return Image{Data: data, ContentType: contentType}, nil
}
