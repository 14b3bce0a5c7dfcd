package paint

import "errors"

var (
	// ErrStrokeInProgress is returned by SetToolOptions when a tool change is
	// requested while at least one device is drawing.
	ErrStrokeInProgress = errors.New("paint: tool change while a stroke is in progress")

	// ErrCorruptSnapshot reports a snapshot that cannot be restored. The
	// operation that received it leaves the document unchanged.
	ErrCorruptSnapshot = errors.New("paint: corrupt snapshot")

	// ErrUnsupportedFormat is returned for import payloads and export formats
	// paint does not understand.
	ErrUnsupportedFormat = errors.New("paint: unsupported format")

	// ErrDecode wraps image decoding and fetching failures. It is delivered
	// through the layer:error event for asynchronous loads.
	ErrDecode = errors.New("paint: image decode failed")
)
