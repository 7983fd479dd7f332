package stream

import (
	"math"

	"github.com/iov-one/drip"
)

// Claimable returns the amount the recipient can withdraw at given time.
//
// Accrual is counted from the last update and never exceeds what is left
// of the deposit. A time before the last update accrues nothing. The
// accrued amount saturates instead of overflowing.
func Claimable(s *Stream, now drip.UnixTime) int64 {
	streamed := mulSaturating(now.SecondsSince(s.LastUpdateTime), s.RatePerSecond)
	if remaining := s.Remaining(); streamed > remaining {
		return remaining
	}
	return streamed
}

// mulSaturating multiplies two non negative numbers, returning
// math.MaxInt64 on overflow.
func mulSaturating(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}
