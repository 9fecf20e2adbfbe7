package labels

import "context"

// Analyzer port, implemented by the local and the cloud engine.
type Analyzer interface {
	Analyze(ctx context.Context, in Input) (*AnalysisResult, error)
}

// TextExtractor port (OCR).
type TextExtractor interface {
	ExtractText(ctx context.Context, img Image) (string, error)
}

// Conversationalist port for the follow-up chat.
type Conversationalist interface {
	Converse(ctx context.Context, history []Message, productContext string) (string, error)
}

// Repository port (scan history persistence)
type Repository interface {
	Save(ctx context.Context, s *Scan) error
	Get(ctx context.Context, id ScanID) (*Scan, error)
	Latest(ctx context.Context, limit int) ([]*Scan, error)
}

// ImageStore port (label photo archive)
type ImageStore interface {
	UploadImage(ctx context.Context, key string, img Image) (string, error)
}
