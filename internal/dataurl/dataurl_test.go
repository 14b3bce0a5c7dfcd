package dataurl

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantType  string
		wantData  []byte
		wantError bool
	}{
		{"base64 png", "data:image/png;base64,AAEC", "image/png", []byte{0, 1, 2}, false},
		{"parameters", "data:image/svg+xml;charset=utf-8;base64,PHN2Zy8+", "image/svg+xml", []byte("<svg/>"), false},
		{"percent encoded", "data:image/svg+xml,%3Csvg%2F%3E", "image/svg+xml", []byte("<svg/>"), false},
		{"default type", "data:,hi", "text/plain", []byte("hi"), false},
		{"not a data url", "http://example.com/a.png", "", nil, true},
		{"missing comma", "data:image/png;base64", "", nil, true},
		{"bad base64", "data:image/png;base64,!!!", "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mt, data, err := Decode(tt.in)
			if tt.wantError {
				if !errors.Is(err, ErrMalformed) {
					t.Fatalf("Decode(%q) error = %v, want ErrMalformed", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode(%q) error = %v", tt.in, err)
			}
			if mt != tt.wantType || !bytes.Equal(data, tt.wantData) {
				t.Errorf("Decode(%q) = %q, %v; want %q, %v", tt.in, mt, data, tt.wantType, tt.wantData)
			}
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	in := []byte("\x89PNG\r\n")
	s := Encode("image/png", in)
	if want := "data:image/png;base64,iVBORw0K"; s != want {
		t.Fatalf("Encode = %q, want %q", s, want)
	}
	_, out, err := Decode(s)
	if err != nil || !bytes.Equal(out, in) {
		t.Errorf("Decode(Encode(x)) = %v, %v; want %v", out, err, in)
	}
}
