package persistence

import (
	"io"
	"testing"
)

func TestProgressReader(t *testing.T) {
	payload := make([]byte, 3*uploadChunkSize/2)
	var reported []int
	r := newProgressReader(payload, func(percent int) {
		reported = append(reported, percent)
	})

	if _, err := io.Copy(io.Discard, r); err != nil {
		t.Fatal(err)
	}

	if len(reported) == 0 {
		t.Fatal("no progress reported")
	}
	last := 0
	for _, percent := range reported {
		if percent < last {
			t.Fatalf("progress went backwards: %v", reported)
		}
		if percent < 0 || percent > 100 {
			t.Fatalf("progress out of range: %v", reported)
		}
		last = percent
	}
	if last != 100 {
		t.Errorf("final progress = %d, want 100", last)
	}
	// The chunked read must surface an intermediate percentage, not jump
	// straight to 100.
	if reported[0] == 100 {
		t.Errorf("first report = 100, want an intermediate value: %v", reported)
	}
}

func TestProgressReaderEmptyPayload(t *testing.T) {
	r := newProgressReader(nil, func(int) {
		t.Fatal("no progress expected for empty payload")
	})
	if _, err := io.Copy(io.Discard, r); err != nil {
		t.Fatal(err)
	}
}
