package secondary

import "context"

// BackgroundFetcher loads a template background image from its source URI.
type BackgroundFetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// RenderRequest carries everything drawn on one certificate page.
type RenderRequest struct {
	Background         []byte // PNG or JPEG
	RecipientName      string
	SerialNumber       string
	ShareableReference string // encoded into the QR code
}

// DocumentRenderer produces a single-page PDF for one certificate.
type DocumentRenderer interface {
	Render(ctx context.Context, req RenderRequest) ([]byte, error)
}
