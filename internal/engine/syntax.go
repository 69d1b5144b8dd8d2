package engine

import (
	"bytes"
	"errors"
	"io"
	"unicode/utf8"

	j "github.com/goccy/go-json"
)

// ErrInvalidUTF8 reports text that is not valid UTF-8. The token source would
// otherwise replace such bytes with U+FFFD.
var ErrInvalidUTF8 = errors.New("invalid UTF-8 in JSON text")

// CheckSyntax validates data as a single JSON text. The token source relies
// on it: go-json's Decoder.Token does not check separators.
func CheckSyntax(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return io.ErrUnexpectedEOF
	}
	if !utf8.Valid(data) {
		return ErrInvalidUTF8
	}
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if dec.More() && dec.InputOffset() < int64(len(data)) {
		return errors.New("unexpected data after top-level value")
	}
	return nil
}
