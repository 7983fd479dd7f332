/*
Package coin holds token amounts.

A Coin is a signed count of base units of one token, named by its ticker.
Coins is the sorted, zero free set a wallet holds.
*/
package coin

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/iov-one/drip/codec"
	"github.com/iov-one/drip/errors"
)

// IsTicker reports whether s is a valid ticker: three or four upper case
// letters.
var IsTicker = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

var humanFormat = regexp.MustCompile(`^(\-?\d+)\s*([A-Z]{3,4})$`)

type Coin struct {
	Ticker string
	Amount int64
}

var (
	_ fmt.Stringer     = Coin{}
	_ json.Unmarshaler = (*Coin)(nil)
)

func NewCoin(amount int64, ticker string) Coin { return Coin{Ticker: ticker, Amount: amount} }

func NewCoinp(amount int64, ticker string) *Coin {
	c := NewCoin(amount, ticker)
	return &c
}

func (c Coin) IsZero() bool        { return c.Amount == 0 }
func (c Coin) IsPositive() bool    { return c.Amount > 0 }
func (c Coin) IsNonNegative() bool { return c.Amount >= 0 }
func (c Coin) Negative() Coin      { return Coin{Ticker: c.Ticker, Amount: -c.Amount} }

// IsGTE is false for coins of another ticker.
func (c Coin) IsGTE(o Coin) bool { return c.Ticker == o.Ticker && c.Amount >= o.Amount }

// Add fails with ErrType on a ticker mismatch and ErrOverflow when the sum
// leaves the int64 range.
func (c Coin) Add(o Coin) (Coin, error) {
	if c.Ticker != o.Ticker {
		return Coin{}, errors.Wrapf(errors.ErrType, "adding %s to %s", o.Ticker, c.Ticker)
	}
	a, b := c.Amount, o.Amount
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return Coin{Ticker: c.Ticker, Amount: a + b}, nil
}

func (c Coin) Subtract(o Coin) (Coin, error) {
	if o.Amount == math.MinInt64 {
		return Coin{}, errors.Wrap(errors.ErrOverflow, "cannot negate")
	}
	return c.Add(o.Negative())
}

func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// Validate only checks the ticker. Amount sign rules belong to the caller.
func (c Coin) Validate() error {
	if !IsTicker(c.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid ticker: %q", c.Ticker)
	}
	return nil
}

func (c *Coin) Marshal() ([]byte, error)   { return codec.Marshal(c) }
func (c *Coin) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, c) }

// String returns "<amount> <ticker>", the format ParseHumanFormat reads.
func (c Coin) String() string {
	amount := strconv.FormatInt(c.Amount, 10)
	if c.Ticker == "" {
		return amount
	}
	return amount + " " + c.Ticker
}

// UnmarshalJSON reads either "<amount> <ticker>" or {"Ticker", "Amount"}.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var human string
	if json.Unmarshal(raw, &human) == nil {
		return c.Set(human)
	}
	type plain Coin
	return json.Unmarshal(raw, (*plain)(c))
}

func ParseHumanFormat(h string) (Coin, error) {
	m := humanFormat.FindStringSubmatch(h)
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid coin format: %q", h)
	}
	amount, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid amount: %s", err)
	}
	return NewCoin(amount, m[2]), nil
}

// Set implements flag.Value.
func (c *Coin) Set(raw string) error {
	parsed, err := ParseHumanFormat(raw)
	if err == nil {
		*c = parsed
	}
	return err
}
