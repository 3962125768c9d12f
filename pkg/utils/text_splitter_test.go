package utils

import (
	"strings"
	"testing"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		chunkSize  int
		overlap    int
		wantChunks int
	}{
		{name: "short text single chunk", text: "hello", chunkSize: 100, overlap: 10, wantChunks: 1},
		{name: "exact fit single chunk", text: strings.Repeat("a", 100), chunkSize: 100, overlap: 10, wantChunks: 1},
		{name: "two chunks with overlap", text: strings.Repeat("a", 150), chunkSize: 100, overlap: 10, wantChunks: 2},
		{name: "empty text", text: "", chunkSize: 100, overlap: 10, wantChunks: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitText(tt.text, tt.chunkSize, tt.overlap)
			if len(chunks) != tt.wantChunks {
				t.Errorf("chunk count = %d, want %d", len(chunks), tt.wantChunks)
			}
		})
	}

	t.Run("chunks overlap at boundaries", func(t *testing.T) {
		text := strings.Repeat("abcdefghij", 30) // 300 chars
		chunks := SplitText(text, 100, 20)

		for i := 1; i < len(chunks); i++ {
			prevTail := chunks[i-1][len(chunks[i-1])-20:]
			if !strings.HasPrefix(chunks[i], prevTail) {
				t.Errorf("chunk %d does not start with the previous chunk's tail", i)
			}
		}
	})

	t.Run("overlap >= chunk size falls back to no overlap", func(t *testing.T) {
		text := strings.Repeat("x", 250)
		chunks := SplitText(text, 100, 100)
		if len(chunks) != 3 {
			t.Errorf("chunk count = %d, want 3", len(chunks))
		}
	})

	t.Run("multibyte runes are not split mid-character", func(t *testing.T) {
		text := strings.Repeat("日本語テキスト", 50)
		chunks := SplitText(text, 100, 10)
		for i, c := range chunks {
			if !strings.Contains(text, c) {
				t.Errorf("chunk %d is not a substring of the input", i)
			}
		}
	})
}

func TestHashContent(t *testing.T) {
	t.Run("stable for identical content", func(t *testing.T) {
		a, err := HashContent(strings.NewReader("same bytes"))
		if err != nil {
			t.Fatalf("HashContent returned error: %v", err)
		}
		b, err := HashContent(strings.NewReader("same bytes"))
		if err != nil {
			t.Fatalf("HashContent returned error: %v", err)
		}
		if a != b {
			t.Errorf("hashes differ for identical content: %s vs %s", a, b)
		}
		if len(a) != 64 {
			t.Errorf("hash length = %d, want 64 hex chars", len(a))
		}
	})

	t.Run("differs for different content", func(t *testing.T) {
		a, _ := HashContent(strings.NewReader("one"))
		b, _ := HashContent(strings.NewReader("two"))
		if a == b {
			t.Error("hashes collide for different content")
		}
	})
}
