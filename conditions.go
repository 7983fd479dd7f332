package drip

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/drip/errors"
)

const (
	AddressLength = 20

	// Bech32Prefix is the human readable part of bech32 addresses.
	Bech32Prefix = "drip"
)

// (?s) lets the data section contain newlines.
var conditionFormat = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)

// Condition names who may authorize an action, as "<extension>/<type>/<data>".
// A signature key and the stream custody account are both conditions.
type Condition []byte

func NewCondition(ext, typ string, data []byte) Condition {
	return append([]byte(ext+"/"+typ+"/"), data...)
}

// Parse splits the condition into extension, type and data.
func (c Condition) Parse() (ext, typ string, data []byte, err error) {
	m := conditionFormat.FindSubmatch(c)
	if m == nil {
		return "", "", nil, errors.Wrapf(errors.ErrInput, "condition %X", []byte(c))
	}
	return string(m[1]), string(m[2]), m[3], nil
}

func (c Condition) Validate() error {
	_, _, _, err := c.Parse()
	return err
}

func (c Condition) Address() Address        { return NewAddress(c) }
func (c Condition) Equals(o Condition) bool { return bytes.Equal(c, o) }

// String keeps extension and type readable and hex encodes the data.
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("invalid condition %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

// Address is the truncated sha256 of a Condition. Wallets and stream
// parties are identified by it.
type Address []byte

// NewAddress returns nil for nil data.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	sum := sha256.Sum256(data)
	return sum[:AddressLength]
}

func (a Address) Equals(o Address) bool { return bytes.Equal(a, o) }

func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address of %d bytes", len(a))
	}
	return nil
}

// String is upper case hex, or "(nil)".
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Bech32 encodes the address with Bech32Prefix.
func (a Address) Bech32() (string, error) {
	words, err := bech32.ConvertBits(a, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(err, "convert bits")
	}
	return bech32.Encode(Bech32Prefix, words)
}

// MarshalJSON writes hex instead of base64.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(hex.EncodeToString(a)))
}

// UnmarshalJSON accepts any form ParseAddress does.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	addr, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddress decodes "<hex>", "hex:<hex>", "cond:<ext>/<type>/<hexdata>"
// or "bech32:<addr>". An empty value decodes to a nil address.
func ParseAddress(enc string) (Address, error) {
	format, value := "hex", enc
	if i := strings.IndexByte(enc, ':'); i >= 0 {
		format, value = enc[:i], enc[i+1:]
	}
	if value == "" {
		return nil, nil
	}
	parse, ok := addressParsers[format]
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "unknown address format %q", format)
	}
	addr, err := parse(value)
	if err != nil {
		return nil, err
	}
	return addr, addr.Validate()
}

var addressParsers = map[string]func(string) (Address, error){
	"hex":    parseHexAddress,
	"cond":   parseConditionAddress,
	"bech32": parseBech32Address,
}

func parseHexAddress(s string) (Address, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "invalid hex")
	}
	return raw, nil
}

func parseConditionAddress(s string) (Address, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return nil, errors.Wrap(errors.ErrInput, "condition needs extension, type and data")
	}
	data, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "invalid condition data hex")
	}
	cond := NewCondition(parts[0], parts[1], data)
	if err := cond.Validate(); err != nil {
		return nil, err
	}
	return cond.Address(), nil
}

func parseBech32Address(s string) (Address, error) {
	hrp, words, err := bech32.Decode(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if hrp != Bech32Prefix {
		return nil, errors.Wrapf(errors.ErrInput, "bech32 prefix %q", hrp)
	}
	raw, err := bech32.ConvertBits(words, 5, 8, false)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}
