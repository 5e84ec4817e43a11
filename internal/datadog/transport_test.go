package datadog

import (
	"io"
	"strings"
	"testing"
)

type closableReader struct {
	io.Reader
}

func (closableReader) Close() error { return nil }

func TestLimitedReaderUnderLimit(t *testing.T) {
	lr := &limitedReader{
		ReadCloser: closableReader{strings.NewReader("small body")},
		limit:      1024,
	}
	data, err := io.ReadAll(lr)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(data) != "small body" {
		t.Errorf("read %q", data)
	}
}

func TestLimitedReaderOverLimit(t *testing.T) {
	lr := &limitedReader{
		ReadCloser: closableReader{strings.NewReader(strings.Repeat("x", 100))},
		limit:      10,
	}
	_, err := io.ReadAll(lr)
	if err == nil {
		t.Fatal("expected an error once the limit is exceeded")
	}
	if !strings.Contains(err.Error(), "response size exceeded limit") {
		t.Errorf("unexpected error: %v", err)
	}
}
