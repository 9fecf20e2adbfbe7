package labels

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEngine(t *testing.T) {
	e, err := ParseEngine("", EngineCloud)
	require.NoError(t, err)
	assert.Equal(t, EngineCloud, e)

	e, err = ParseEngine(" Local ", EngineCloud)
	require.NoError(t, err)
	assert.Equal(t, EngineLocal, e)

	_, err = ParseEngine("gemini", EngineCloud)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProductContext(t *testing.T) {
	r := &AnalysisResult{
		ProductName: "Maggi Noodles",
		Verdict:     "Moderately Processed",
		Translations: []Translation{
			{Original: "wheat flour"},
			{Original: "palm oil"},
		},
	}
	assert.Equal(t, "Product: Maggi Noodles. Verdict: Moderately Processed. Ingredients: wheat flour, palm oil", r.ProductContext())

	var empty *AnalysisResult
	assert.Equal(t, "", empty.ProductContext())
}

func TestNormalize_SerializesEmptyArrays(t *testing.T) {
	r := &AnalysisResult{Verdict: "Balanced Choice"}
	r.Normalize()
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"insights":[]`)
	assert.Contains(t, string(b), `"uncertainties":[]`)
	assert.NotContains(t, string(b), "suggestedQuestions")
}

func TestValidateHistory(t *testing.T) {
	assert.ErrorIs(t, ValidateHistory(nil), ErrInvalidInput)
	assert.ErrorIs(t, ValidateHistory([]Message{{Role: "system", Content: "x"}}), ErrInvalidInput)
	assert.ErrorIs(t, ValidateHistory([]Message{{Role: RoleUser, Content: "hi"}, {Role: RoleAssistant, Content: "hello"}}), ErrInvalidInput)
	assert.ErrorIs(t, ValidateHistory([]Message{{Role: RoleUser, Content: "  "}}), ErrInvalidInput)
	assert.NoError(t, ValidateHistory([]Message{
		{Role: RoleUser, Content: "Is this safe?"},
		{Role: RoleAssistant, Content: "Mostly."},
		{Role: RoleUser, Content: "For kids?"},
	}))
}

func TestParseDataURI(t *testing.T) {
	img, err := ParseDataURI("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, []byte("hello"), img.Data)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", img.DataURL())

	for _, bad := range []string{
		"aGVsbG8=",
		"data:text/plain;base64,aGVsbG8=",
		"data:image/png,aGVsbG8=",
		"data:image/png;base64,!!!",
		"data:image/png;base64,",
	} {
		_, err := ParseDataURI(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}

func TestInputKind(t *testing.T) {
	assert.Equal(t, InputText, TextInput("salt").Kind())
	assert.Equal(t, InputImage, ImageInput([]byte{1}, "image/jpeg").Kind())
}

func TestAnalysisFailure_UserMessage(t *testing.T) {
	ext := &AnalysisFailure{Engine: EngineLocal, Cause: &ExtractionError{Cause: errors.New("ocr")}}
	assert.Equal(t, ExtractionMessage, ext.UserMessage())

	local := &AnalysisFailure{Engine: EngineLocal, Cause: errors.New("boom")}
	assert.Equal(t, LocalFailureMessage, local.UserMessage())

	remote := &AnalysisFailure{Engine: EngineCloud, Cause: &RemoteError{Op: "analyze", Cause: errors.New("dial")}}
	assert.Equal(t, CloudFailureMessage, remote.UserMessage())
	var re *RemoteError
	assert.ErrorAs(t, remote, &re)
}
