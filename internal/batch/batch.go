// Package batch implements the stdin/stdout contract: a JSON array of
// texts in, a JSON array of embedding vectors out.
package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/embedpipe/embedpipe/internal/adapter"
)

// ParseRequest decodes a request body into its ordered batch of texts.
// The body must be a single JSON array whose elements are all strings.
func ParseRequest(data []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty input; expected a JSON array of strings")
	}
	// encoding/json would silently turn a top-level null into a nil slice,
	// so the array check happens up front.
	if trimmed[0] != '[' {
		return nil, fmt.Errorf("expected a JSON array of strings, got %s", jsonValueName(trimmed[0]))
	}

	var texts []string
	if err := json.Unmarshal(trimmed, &texts); err != nil {
		return nil, fmt.Errorf("parse request: %w", err)
	}
	return texts, nil
}

// jsonValueName names the JSON value beginning with b, for error messages.
func jsonValueName(b byte) string {
	switch {
	case b == '{':
		return "an object"
	case b == '"':
		return "a string"
	case b == 't' || b == 'f':
		return "a boolean"
	case b == 'n':
		return "null"
	case b == '-' || (b >= '0' && b <= '9'):
		return "a number"
	default:
		return "a non-array value"
	}
}

// EncodeResponse serializes vectors as a JSON array of arrays of numbers.
// A nil batch encodes as [].
func EncodeResponse(vectors [][]float32) ([]byte, error) {
	if vectors == nil {
		vectors = [][]float32{}
	}
	out, err := json.Marshal(vectors)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return out, nil
}

// Process runs one embedding request end to end: read r until EOF, parse
// the batch, embed it in a single call, and write the vectors to w as one
// newline-terminated JSON line. Nothing is written to w on failure. An
// empty batch is answered without consulting the embedder.
func Process(ctx context.Context, r io.Reader, w io.Writer, e adapter.Embedder) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	texts, err := ParseRequest(data)
	if err != nil {
		return err
	}

	var vectors [][]float32
	if len(texts) > 0 {
		vectors, err = e.Embed(ctx, texts)
		if err != nil {
			return err
		}
		if len(vectors) != len(texts) {
			return fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
		}
	}

	out, err := EncodeResponse(vectors)
	if err != nil {
		return err
	}

	out = append(out, '\n')
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
