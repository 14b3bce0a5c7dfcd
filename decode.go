package paint

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder for imports
	_ "image/jpeg" // register JPEG decoder for imports
	_ "image/png"
	"io"
	"net/http"
	"strings"

	_ "golang.org/x/image/webp" // register WebP decoder for imports

	"github.com/gogpu/paint/internal/dataurl"
)

// maxFetchSize bounds remote image downloads.
const maxFetchSize = 64 << 20

// Completion applies the result of a background decode. It must be called
// on the goroutine that owns the Area.
type Completion func()

// Pending delivers completions of background image decodes. A host that runs
// its own event loop selects on it and calls each value it receives;
// alternatively Sync drains it.
func (a *Area) Pending() <-chan Completion {
	return a.pending
}

// Sync applies completions until no decode is outstanding or ctx is done.
func (a *Area) Sync(ctx context.Context) error {
	for a.inflight > 0 {
		select {
		case c := <-a.pending:
			c()
		case <-ctx.Done():
			return ctx.Err()
		case <-a.ctx.Done():
			return a.ctx.Err()
		}
	}
	return nil
}

// Loading reports the number of outstanding background decodes.
func (a *Area) Loading() int {
	return a.inflight
}

func (a *Area) decodeAsync(src string, apply func(image.Image, error)) {
	a.inflight++
	Logger().Debug("paint: decode scheduled", "inflight", a.inflight)
	ctx, client := a.ctx, a.client
	go func() {
		img, err := fetchImage(ctx, client, src)
		c := func() {
			a.inflight--
			apply(img, err)
		}
		select {
		case a.pending <- c:
		case <-ctx.Done():
		}
	}()
}

func fetchImage(ctx context.Context, client *http.Client, src string) (image.Image, error) {
	var data []byte
	switch {
	case strings.HasPrefix(src, "data:"):
		_, b, err := dataurl.Decode(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		data = b
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		if client == nil {
			return nil, fmt.Errorf("%w: remote images are disabled", ErrDecode)
		}
		b, err := fetch(ctx, client, src)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		data = b
	default:
		return nil, fmt.Errorf("%w: unsupported image source", ErrDecode)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return img, nil
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxFetchSize))
}
