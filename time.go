package drip

import (
	"encoding/json"
	"time"

	"github.com/iov-one/drip/errors"
)

// UnixTime is a point in time in whole seconds since the epoch. Streams
// accrue per second, so this is the only time the ledger persists.
type UnixTime int64

func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

// SecondsSince returns the whole seconds from earlier to t. A t before
// earlier yields zero, so clocks never run backwards for accrual.
func (t UnixTime) SecondsSince(earlier UnixTime) int64 {
	if t <= earlier {
		return 0
	}
	return int64(t - earlier)
}

// UnmarshalJSON accepts a number of seconds or an RFC 3339 string. The
// string form is convenient in genesis files.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var unix int64
	if err := json.Unmarshal(raw, &unix); err != nil {
		var std time.Time
		if err := json.Unmarshal(raw, &std); err != nil {
			return errors.Wrap(errors.ErrInput, "invalid time format")
		}
		unix = std.Unix()
	}
	if unix < 0 {
		return errors.Wrap(errors.ErrInput, "time before epoch")
	}
	*t = UnixTime(unix)
	return nil
}

func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrState, "negative value")
	}
	return nil
}

func (t UnixTime) String() string {
	return t.Time().UTC().Format(time.RFC3339)
}
