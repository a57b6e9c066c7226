package logger

import (
	"strconv"
	"strings"
	"sync"
)

// ratioSampler lets n out of every d events through, in bursts at the
// start of each window. A zero ratio lets everything through.
type ratioSampler struct {
	mu   sync.Mutex
	n, d int
	seen int
}

func newRatioSampler(n, d int) *ratioSampler {
	s := &ratioSampler{}
	s.Set(n, d)
	return s
}

// Set replaces the ratio and restarts the window.
func (s *ratioSampler) Set(n, d int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 || d <= 0 {
		n, d = 0, 0
	}
	s.n, s.d, s.seen = min(n, d), d, 0
}

func (s *ratioSampler) Allow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.d == 0 {
		return true
	}
	s.seen = s.seen%s.d + 1
	return s.seen <= s.n
}

// parseRatioSpec accepts "n/d", "p%" or a plain "d" meaning one in d.
// Anything unparsable or non-positive yields 0, 0.
func parseRatioSpec(spec string) (int, int) {
	spec = strings.TrimSpace(spec)
	atoi := func(s string) int {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || v <= 0 {
			return 0
		}
		return v
	}
	if pct, ok := strings.CutSuffix(spec, "%"); ok {
		if p := atoi(pct); p > 0 {
			return p, 100
		}
		return 0, 0
	}
	if num, den, ok := strings.Cut(spec, "/"); ok {
		n, d := atoi(num), atoi(den)
		if n == 0 || d == 0 {
			return 0, 0
		}
		return n, d
	}
	if d := atoi(spec); d > 0 {
		return 1, d
	}
	return 0, 0
}
