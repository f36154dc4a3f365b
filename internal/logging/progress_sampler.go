package logging

// ProgressSampler suppresses repetitive progress logs while preserving
// signal when percentage buckets advance. Encoder progress arrives many
// times per second; logging every update would drown the rest of the run.
type ProgressSampler struct {
	bucketSize    float64
	lastBucket    int
	unknownLogged bool
}

// NewProgressSampler constructs a sampler that emits when the percent
// crosses bucket boundaries (default 5%).
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 5
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether a progress event should be logged. Percent
// can be negative to indicate "unknown", which logs once until reset.
func (s *ProgressSampler) ShouldLog(percent float64) bool {
	if s == nil {
		return true
	}
	if percent < 0 {
		if s.unknownLogged {
			return false
		}
		s.unknownLogged = true
		return true
	}
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

// Reset clears the sampler state when a new job starts.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastBucket = -1
	s.unknownLogged = false
}
