package logging_test

import (
	"testing"

	"organizer/internal/logging"
)

func TestProgressSamplerEmitsOncePerBucket(t *testing.T) {
	s := logging.NewProgressSampler(100, 10)

	if !s.ShouldLog(1) {
		t.Fatal("first progress should emit")
	}
	if s.ShouldLog(5) {
		t.Fatal("same bucket should not emit")
	}
	if !s.ShouldLog(12) {
		t.Fatal("next bucket should emit")
	}
	if s.ShouldLog(14) {
		t.Fatal("still in bucket, should not emit")
	}
	if !s.ShouldLog(100) {
		t.Fatal("completion should emit")
	}
}

func TestProgressSamplerBoundsLineCount(t *testing.T) {
	s := logging.NewProgressSampler(1000, 10)
	emitted := 0
	for done := int64(1); done <= 1000; done++ {
		if s.ShouldLog(done) {
			emitted++
		}
	}
	if emitted > 11 {
		t.Fatalf("a 1000-step run should log at most 11 lines, got %d", emitted)
	}
}

func TestProgressSamplerUnknownTotalEmitsOnce(t *testing.T) {
	s := logging.NewProgressSampler(0, 10)

	if !s.ShouldLog(1) {
		t.Fatal("first call should emit even without a total")
	}
	if s.ShouldLog(2) || s.ShouldLog(50) {
		t.Fatal("without a total there is no bucket to cross")
	}
}

func TestProgressSamplerReset(t *testing.T) {
	s := logging.NewProgressSampler(10, 10)
	s.ShouldLog(9)
	s.Reset()
	if !s.ShouldLog(1) {
		t.Fatal("after reset the first progress should emit again")
	}
}
