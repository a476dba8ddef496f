// Package jsonx is the JSON codec used for every request and response body.
// It uses sonic on amd64/arm64 and falls back to encoding/json elsewhere.
package jsonx

import (
	stdjson "encoding/json"
	"io"
	"runtime"

	"github.com/bytedance/sonic"
)

var (
	// Marshal encodes v into JSON bytes.
	Marshal func(v any) ([]byte, error)

	// Unmarshal decodes JSON bytes into v.
	Unmarshal func(data []byte, v any) error

	// NewDecoder creates a streaming decoder reading from r.
	NewDecoder func(r io.Reader) Decoder

	usingSonic bool
)

// Decoder is the subset of a JSON decoder the client needs.
type Decoder interface {
	Decode(v any) error
}

func init() {
	if runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64" {
		api := sonic.ConfigStd
		Marshal = api.Marshal
		Unmarshal = api.Unmarshal
		NewDecoder = func(r io.Reader) Decoder {
			return api.NewDecoder(r)
		}
		usingSonic = true
		return
	}

	Marshal = stdjson.Marshal
	Unmarshal = stdjson.Unmarshal
	NewDecoder = func(r io.Reader) Decoder {
		return stdjson.NewDecoder(r)
	}
}

// IsUsingSonic reports whether sonic backs the codec on this platform.
func IsUsingSonic() bool {
	return usingSonic
}

// Valid reports whether data is a syntactically valid JSON document.
func Valid(data []byte) bool {
	if usingSonic {
		return sonic.Valid(data)
	}
	return stdjson.Valid(data)
}
