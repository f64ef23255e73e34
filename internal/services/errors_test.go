package services_test

import (
	"errors"
	"strings"
	"testing"

	"organizer/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "executor", "move", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"executor", "move", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutUnderlyingError(t *testing.T) {
	err := services.Wrap(services.ErrConflict, "planner", "collision", "target already claimed", nil)
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected conflict marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "target already claimed") {
		t.Fatalf("expected message in error string, got %q", err.Error())
	}
}

func TestWrapDefaultsToTransientWhenMarkerNil(t *testing.T) {
	err := services.Wrap(nil, "", "", "", errors.New("io"))
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker fallback, got %v", err)
	}
}
