package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/example/certbatch/internal/ports/secondary"
	"github.com/example/certbatch/internal/version"
)

// ErrFetchFailed is returned when a background cannot be retrieved.
var ErrFetchFailed = errors.New("Template fetch failed")

// MaxBackgroundBytes caps the size of a downloaded background.
const MaxBackgroundBytes = 20 << 20

// HTTPFetcher implements secondary.BackgroundFetcher. Sources are http(s)
// URLs, file:// URLs or plain local paths.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher. A nil client gets a 30s timeout.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPFetcher{client: client}
}

// Fetch returns the image bytes behind source.
func (f *HTTPFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		data, err = f.download(ctx, source)
	default:
		data, err = os.ReadFile(strings.TrimPrefix(source, "file://"))
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrFetchFailed, err)
		}
	}
	if err != nil {
		return nil, err
	}

	if _, err := imageType(data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailed, source, err)
	}
	return data, nil
}

func (f *HTTPFetcher) download(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ErrFetchFailed
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBackgroundBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if len(data) > MaxBackgroundBytes {
		return nil, fmt.Errorf("%w: background larger than %d bytes", ErrFetchFailed, MaxBackgroundBytes)
	}
	return data, nil
}

// Ensure HTTPFetcher implements the interface.
var _ secondary.BackgroundFetcher = (*HTTPFetcher)(nil)
