package paint

import "net/http"

// AreaOption configures an Area during creation.
//
// Example:
//
//	// 800x600 document with the default history depth
//	a := paint.NewArea(paint.WithDocumentSize(800, 600))
//
//	// Deeper history, remote images allowed
//	a := paint.NewArea(paint.WithHistoryLimit(50), paint.WithHTTPClient(http.DefaultClient))
type AreaOption func(*areaOptions)

type areaOptions struct {
	width, height int
	historyLimit  int
	jumpThreshold float64
	client        *http.Client
	tool          []ToolOption
}

// DefaultHistoryLimit is the number of undo records kept when no
// WithHistoryLimit option is given.
const DefaultHistoryLimit = 25

// DefaultJumpThreshold is the mouse travel, in document pixels, above which
// a single move sample is treated as a tablet glitch and dropped.
const DefaultJumpThreshold = 200

func defaultAreaOptions() areaOptions {
	return areaOptions{
		historyLimit:  DefaultHistoryLimit,
		jumpThreshold: DefaultJumpThreshold,
	}
}

// WithDocumentSize sets the initial document extent. Negative values are
// treated as zero.
func WithDocumentSize(w, h int) AreaOption {
	return func(o *areaOptions) {
		o.width, o.height = max(w, 0), max(h, 0)
	}
}

// WithHistoryLimit bounds both the undo and the redo stack. Values below 1
// are ignored.
func WithHistoryLimit(n int) AreaOption {
	return func(o *areaOptions) {
		if n >= 1 {
			o.historyLimit = n
		}
	}
}

// WithJumpThreshold sets the mouse jump filter distance. Zero or a negative
// value disables the filter.
func WithJumpThreshold(px float64) AreaOption {
	return func(o *areaOptions) {
		o.jumpThreshold = px
	}
}

// WithHTTPClient allows snapshots and imports to reference http(s) image
// URLs, fetched with c. Without it only data: URLs are decoded.
func WithHTTPClient(c *http.Client) AreaOption {
	return func(o *areaOptions) {
		o.client = c
	}
}

// WithTool applies tool options to the initial tool configuration.
func WithTool(opts ...ToolOption) AreaOption {
	return func(o *areaOptions) {
		o.tool = append(o.tool, opts...)
	}
}
