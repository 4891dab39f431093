package app

import (
	"errors"
	"io/fs"
	"testing"
)

func TestInitError(t *testing.T) {
	err := initError("source", fs.ErrNotExist)

	if got, want := err.Error(), "init source: file does not exist"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is should match the wrapped error")
	}
	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Component != "source" {
		t.Errorf("errors.As = %v", initErr)
	}
	if initError("source", nil) != nil {
		t.Error("initError(nil) should be nil")
	}

	var nilErr *InitError
	if nilErr.Error() != "" || nilErr.Unwrap() != nil || nilErr.Is(fs.ErrNotExist) {
		t.Error("nil InitError should be inert")
	}
}

func TestErrorList(t *testing.T) {
	var list ErrorList
	list.Add(nil)
	if list.HasErrors() || list.AsError() != nil {
		t.Fatal("empty list should not be an error")
	}

	first := errors.New("first")
	list.Add(first)
	if got := list.Error(); got != "first" {
		t.Errorf("Error() = %q, want %q", got, "first")
	}

	list.Add(ErrNotRunning)
	if list.Len() != 2 {
		t.Errorf("Len() = %d, want 2", list.Len())
	}
	if got, want := list.Error(), "2 errors: first: first"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err := list.AsError()
	if !errors.Is(err, first) || !errors.Is(err, ErrNotRunning) {
		t.Error("errors.Is should match every collected error")
	}
}
