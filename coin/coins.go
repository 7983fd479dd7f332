package coin

import (
	"sort"

	"github.com/iov-one/drip/errors"
)

// Coins is a wallet balance. In normalized form it is sorted by ticker with
// at most one non-zero entry per ticker. Every operation below keeps that
// form and returns a new slice.
type Coins []*Coin

// CombineCoins sums cs into a normalized set.
func CombineCoins(cs ...Coin) (Coins, error) {
	var (
		set Coins
		err error
	)
	for _, c := range cs {
		if set, err = set.Add(c); err != nil {
			return nil, err
		}
	}
	return set, set.Validate()
}

func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	out := make(Coins, len(cs))
	for i, c := range cs {
		out[i] = c.Clone()
	}
	return out
}

// Add returns cs with c added. A ticker that sums to zero is dropped.
func (cs Coins) Add(c Coin) (Coins, error) {
	out := cs.Clone()
	if c.IsZero() {
		return out, nil
	}
	i, found := out.index(c.Ticker)
	if !found {
		out = append(out, nil)
		copy(out[i+1:], out[i:])
		out[i] = &c
		return out, nil
	}
	sum, err := out[i].Add(c)
	switch {
	case err != nil:
		return nil, err
	case sum.IsZero():
		return append(out[:i], out[i+1:]...), nil
	}
	out[i] = &sum
	return out, nil
}

// Subtract returns cs with c removed. The result may hold negative amounts,
// so callers check Contains first.
func (cs Coins) Subtract(c Coin) (Coins, error) {
	return cs.Add(c.Negative())
}

// Contains reports whether cs holds at least c.
func (cs Coins) Contains(c Coin) bool {
	i, found := cs.index(c.Ticker)
	if !found {
		return !c.IsPositive()
	}
	return cs[i].IsGTE(c)
}

// Balance is the amount held in ticker, zero if none.
func (cs Coins) Balance(ticker string) Coin {
	if i, found := cs.index(ticker); found {
		return *cs[i]
	}
	return Coin{Ticker: ticker}
}

// index finds ticker, or the position it would be inserted at.
func (cs Coins) index(ticker string) (int, bool) {
	i := sort.Search(len(cs), func(n int) bool { return cs[n].Ticker >= ticker })
	return i, i < len(cs) && cs[i].Ticker == ticker
}

func (cs Coins) IsEmpty() bool { return len(cs) == 0 }

func (cs Coins) IsNonNegative() bool {
	for _, c := range cs {
		if !c.IsNonNegative() {
			return false
		}
	}
	return true
}

// Validate requires normalized form and valid, non-zero coins.
func (cs Coins) Validate() error {
	for i, c := range cs {
		if c == nil {
			return errors.Wrapf(errors.ErrEmpty, "coin %d is nil", i)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if c.IsZero() {
			return errors.Wrapf(errors.ErrCurrency, "zero %s", c.Ticker)
		}
		if i > 0 && cs[i-1].Ticker >= c.Ticker {
			return errors.Wrapf(errors.ErrCurrency, "%s out of order", c.Ticker)
		}
	}
	return nil
}
