package logging

// ProgressSampler rate-limits progress logging for long runs (resolving a
// large tree, applying a plan's items) so non-interactive output shows
// movement without one line per file. It knows the run's total up front
// and emits whenever completed work crosses into a new percent bucket.
type ProgressSampler struct {
	total      int64
	bucketSize float64
	lastBucket int
}

// NewProgressSampler returns a sampler over a run of total steps that
// emits roughly once per bucketPercent of progress (default 10). With an
// unknown total only the first call emits.
func NewProgressSampler(total int64, bucketPercent float64) *ProgressSampler {
	if bucketPercent <= 0 {
		bucketPercent = 10
	}
	return &ProgressSampler{total: total, bucketSize: bucketPercent, lastBucket: -1}
}

// ShouldLog reports whether progress at done completed steps deserves a
// log line.
func (s *ProgressSampler) ShouldLog(done int64) bool {
	if s == nil {
		return true
	}
	if s.total <= 0 {
		if s.lastBucket < 0 {
			s.lastBucket = 0
			return true
		}
		return false
	}
	percent := float64(done) / float64(s.total) * 100
	bucket := int(percent / s.bucketSize)
	if percent >= 100 {
		bucket = int(100 / s.bucketSize)
	}
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		return true
	}
	return false
}

// Reset clears sampler state so the next call emits again.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastBucket = -1
}
