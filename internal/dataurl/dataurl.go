// Package dataurl encodes and decodes RFC 2397 data URLs.
package dataurl

import (
	"errors"
	"strings"

	"github.com/vincent-petithory/dataurl"
)

// ErrMalformed is returned for strings that are not data URLs.
var ErrMalformed = errors.New("dataurl: malformed data URL")

// Is reports whether s looks like a data URL with the given media type
// prefix, e.g. Is(s, "image/").
func Is(s, mediaPrefix string) bool {
	return strings.HasPrefix(s, "data:"+mediaPrefix)
}

// Decode splits a data URL into its media type and payload. The media type
// is returned without parameters.
func Decode(s string) (mediaType string, data []byte, err error) {
	if !strings.HasPrefix(s, "data:") {
		return "", nil, ErrMalformed
	}
	du, err := dataurl.DecodeString(s)
	if err != nil {
		return "", nil, errors.Join(ErrMalformed, err)
	}
	return du.MediaType.ContentType(), du.Data, nil
}

// Encode returns a base64 data URL for data. mediaType must have the form
// type/subtype.
func Encode(mediaType string, data []byte) string {
	return dataurl.New(data, mediaType).String()
}
