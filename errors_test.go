package agrilingo

import (
	"errors"
	"testing"
)

func TestTranslationError(t *testing.T) {
	cause := errors.New("underlying error")
	err := &TranslationError{Message: "translation failed", Cause: cause}

	if err.Error() != "translation failed: underlying error" {
		t.Errorf("unexpected error message: %s", err.Error())
	}

	if err.Unwrap() != cause {
		t.Error("Unwrap() should return the cause")
	}

	err2 := &TranslationError{Message: "simple error"}
	if err2.Error() != "simple error" {
		t.Errorf("unexpected error message: %s", err2.Error())
	}
}

func TestProviderError(t *testing.T) {
	err := &ProviderError{Message: "rate limited", Retryable: true}
	if err.Error() != "provider error: rate limited" {
		t.Errorf("unexpected error message: %s", err.Error())
	}

	withStatus := &ProviderError{Message: "bad response", StatusCode: 503}
	if withStatus.Error() != "provider error: bad response (status 503)" {
		t.Errorf("unexpected error message: %s", withStatus.Error())
	}

	cause := errors.New("connection reset")
	wrapped := &ProviderError{Message: "request failed", Cause: cause}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is should find the cause")
	}
}

func TestStoreError(t *testing.T) {
	cause := errors.New("disk full")
	err := &StoreError{Op: "set", Key: KeyCache, Cause: cause}

	want := `store error: set "translationCache": disk full`
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}

	var se *StoreError
	if !errors.As(error(err), &se) || se.Key != KeyCache {
		t.Error("errors.As should extract StoreError")
	}
}

func TestProcessorError(t *testing.T) {
	err := &ProcessorError{Message: "failed to parse", ContentType: "html"}
	if err.Error() != "processor error (html): failed to parse" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}
