package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"
	"reflect"
	"strings"
	"testing"

	"github.com/embedpipe/embedpipe/internal/adapter"
)

// stubEmbedder derives a fixed 4-dimensional vector from each text's
// FNV-1a hash, so outputs are deterministic across runs.
type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		h := fnv.New32a()
		_, _ = h.Write([]byte(t))
		sum := h.Sum32()
		out[i] = []float32{
			float32(sum&0xff) / 255,
			float32((sum>>8)&0xff) / 255,
			float32((sum>>16)&0xff) / 255,
			float32((sum>>24)&0xff) / 255,
		}
	}
	return out, nil
}

func (s *stubEmbedder) Info() adapter.ModelInfo {
	return adapter.ModelInfo{Name: "stub", Provider: "stub", Dimensions: 4}
}

// miscountEmbedder always returns a single vector regardless of batch size.
type miscountEmbedder struct{}

func (miscountEmbedder) Embed(_ context.Context, _ []string) ([][]float32, error) {
	return [][]float32{{0.5}}, nil
}

func (miscountEmbedder) Info() adapter.ModelInfo {
	return adapter.ModelInfo{Name: "miscount", Provider: "stub", Dimensions: 1}
}

type errReader struct{}

func (errReader) Read(_ []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestParseRequest_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"two texts", `["hello", "world"]`, []string{"hello", "world"}},
		{"empty array", `[]`, []string{}},
		{"empty string element", `[""]`, []string{""}},
		{"surrounding whitespace", "\n\t [\"a\"] \n", []string{"a"}},
		{"unicode", `["héllo", "日本語"]`, []string{"héllo", "日本語"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRequest([]byte(tt.input))
			if err != nil {
				t.Fatalf("ParseRequest(%q) error: %v", tt.input, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d texts, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("texts[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseRequest_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `not json`},
		{"object", `{"a": 1}`},
		{"string", `"hello"`},
		{"number", `42`},
		{"boolean", `true`},
		{"null", `null`},
		{"number elements", `[1, 2]`},
		{"mixed elements", `["a", 5]`},
		{"nested arrays", `[["a"]]`},
		{"empty input", ``},
		{"whitespace only", "  \n\t"},
		{"trailing garbage", `[] extra`},
		{"truncated", `["a",`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRequest([]byte(tt.input)); err == nil {
				t.Errorf("ParseRequest(%q): expected error", tt.input)
			}
		})
	}
}

func TestEncodeResponse(t *testing.T) {
	tests := []struct {
		name    string
		vectors [][]float32
		want    string
	}{
		{"nil", nil, `[]`},
		{"empty", [][]float32{}, `[]`},
		{"values", [][]float32{{1, 2.5}, {-3, 0}}, `[[1,2.5],[-3,0]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeResponse(tt.vectors)
			if err != nil {
				t.Fatalf("EncodeResponse error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestProcess(t *testing.T) {
	out := &bytes.Buffer{}
	err := Process(context.Background(), strings.NewReader(`["hello", "world"]`), out, &stubEmbedder{})
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}

	line := out.String()
	if !strings.HasSuffix(line, "\n") {
		t.Error("output should end with a newline")
	}
	if strings.Count(line, "\n") != 1 {
		t.Errorf("output should be exactly one line, got %q", line)
	}

	var vectors [][]float32
	if err := json.Unmarshal([]byte(line), &vectors); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vectors))
	}
	for i, v := range vectors {
		if len(v) != 4 {
			t.Errorf("vectors[%d] has %d dimensions, want 4", i, len(v))
		}
	}
}

func TestProcess_OrderPreserved(t *testing.T) {
	batchOut := &bytes.Buffer{}
	if err := Process(context.Background(), strings.NewReader(`["hello", "world"]`), batchOut, &stubEmbedder{}); err != nil {
		t.Fatalf("Process error: %v", err)
	}

	soloOut := &bytes.Buffer{}
	if err := Process(context.Background(), strings.NewReader(`["world"]`), soloOut, &stubEmbedder{}); err != nil {
		t.Fatalf("Process error: %v", err)
	}

	var fromBatch, solo [][]float32
	if err := json.Unmarshal(batchOut.Bytes(), &fromBatch); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(soloOut.Bytes(), &solo); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(fromBatch[1], solo[0]) {
		t.Errorf("vector for %q differs by batch position: %v vs %v", "world", fromBatch[1], solo[0])
	}
}

func TestProcess_Deterministic(t *testing.T) {
	first := &bytes.Buffer{}
	second := &bytes.Buffer{}
	input := `["alpha", "beta", "gamma"]`

	if err := Process(context.Background(), strings.NewReader(input), first, &stubEmbedder{}); err != nil {
		t.Fatalf("first run error: %v", err)
	}
	if err := Process(context.Background(), strings.NewReader(input), second, &stubEmbedder{}); err != nil {
		t.Fatalf("second run error: %v", err)
	}

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Errorf("runs differ: %q vs %q", first.String(), second.String())
	}
}

func TestProcess_EmptyBatch(t *testing.T) {
	out := &bytes.Buffer{}
	// A failing embedder proves the empty batch never reaches it.
	err := Process(context.Background(), strings.NewReader(`[]`), out, &stubEmbedder{err: errors.New("should not be called")})
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if out.String() != "[]\n" {
		t.Errorf("got %q, want %q", out.String(), "[]\n")
	}
}

func TestProcess_ParseErrorWritesNothing(t *testing.T) {
	out := &bytes.Buffer{}
	err := Process(context.Background(), strings.NewReader(`not json`), out, &stubEmbedder{})
	if err == nil {
		t.Fatal("expected error for malformed input")
	}
	if out.Len() != 0 {
		t.Errorf("no output expected on parse failure, got %q", out.String())
	}
}

func TestProcess_EmbedErrorWritesNothing(t *testing.T) {
	out := &bytes.Buffer{}
	err := Process(context.Background(), strings.NewReader(`["hello"]`), out, &stubEmbedder{err: errors.New("model exploded")})
	if err == nil {
		t.Fatal("expected error from failing embedder")
	}
	if !strings.Contains(err.Error(), "model exploded") {
		t.Errorf("error should carry the embedder's message, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("no output expected on embed failure, got %q", out.String())
	}
}

func TestProcess_VectorCountMismatch(t *testing.T) {
	out := &bytes.Buffer{}
	err := Process(context.Background(), strings.NewReader(`["a", "b"]`), out, miscountEmbedder{})
	if err == nil {
		t.Fatal("expected error for vector count mismatch")
	}
	if out.Len() != 0 {
		t.Errorf("no output expected on mismatch, got %q", out.String())
	}
}

func TestProcess_ReadError(t *testing.T) {
	out := &bytes.Buffer{}
	err := Process(context.Background(), errReader{}, out, &stubEmbedder{})
	if err == nil {
		t.Fatal("expected error from failing reader")
	}
	if out.Len() != 0 {
		t.Errorf("no output expected on read failure, got %q", out.String())
	}
}
