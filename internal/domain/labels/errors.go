package labels

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("scan not found")
	ErrHistoryDisabled = errors.New("scan history is disabled")
)

// User facing messages.
const (
	ExtractionMessage   = "Local OCR failed. Please ensure the label is well-lit."
	LocalFailureMessage = "Local analysis failed. Please ensure the image is clear."
	CloudFailureMessage = "Cloud analysis failed. Check your internet connection."
	ApologyReply        = "Sorry, I lost my connection. Try again?"
	RephraseReply       = "I'm having trouble interpreting that. Can you rephrase?"
)

// ExtractionError means the label photo could not be turned into text.
type ExtractionError struct {
	Cause error
}

func (e *ExtractionError) Error() string {
	if e.Cause == nil {
		return ExtractionMessage
	}
	return fmt.Sprintf("%s (%v)", ExtractionMessage, e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// RemoteError is a network or format failure of the hosted model.
type RemoteError struct {
	Op    string
	Cause error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s failed: %v", e.Op, e.Cause)
}

func (e *RemoteError) Unwrap() error { return e.Cause }

// ConversationError is a failed follow-up call; callers degrade to ApologyReply.
type ConversationError struct {
	Cause error
}

func (e *ConversationError) Error() string {
	return fmt.Sprintf("conversation failed: %v", e.Cause)
}

func (e *ConversationError) Unwrap() error { return e.Cause }

// AnalysisFailure is the terminal error of one analysis request.
type AnalysisFailure struct {
	Engine Engine
	Cause  error
}

func (e *AnalysisFailure) Error() string {
	return fmt.Sprintf("%s analysis failed: %v", e.Engine, e.Cause)
}

func (e *AnalysisFailure) Unwrap() error { return e.Cause }

// UserMessage is the short actionable text shown for this failure.
func (e *AnalysisFailure) UserMessage() string {
	var ext *ExtractionError
	if errors.As(e.Cause, &ext) {
		return ExtractionMessage
	}
	if e.Engine == EngineLocal {
		return LocalFailureMessage
	}
	return CloudFailureMessage
}
