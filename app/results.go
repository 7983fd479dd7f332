package app

import (
	"github.com/iov-one/drip"
	"github.com/iov-one/drip/codec"
	"github.com/iov-one/drip/errors"
)

// ResultSet is the wire form of the Key and Value of a query response. Keys
// and values are split into two sets of equal length.
type ResultSet struct {
	Results [][]byte
}

func (r *ResultSet) Marshal() ([]byte, error)  { return codec.Marshal(r) }
func (r *ResultSet) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, r) }

func ResultsFromKeys(models []drip.Model) *ResultSet {
	return collect(models, func(m drip.Model) []byte { return m.Key })
}

func ResultsFromValues(models []drip.Model) *ResultSet {
	return collect(models, func(m drip.Model) []byte { return m.Value })
}

func collect(models []drip.Model, field func(drip.Model) []byte) *ResultSet {
	res := &ResultSet{Results: make([][]byte, len(models))}
	for i, m := range models {
		res.Results[i] = field(m)
	}
	return res
}

// JoinResults pairs keys and values back into models.
func JoinResults(keys, values *ResultSet) ([]drip.Model, error) {
	if n, m := len(keys.Results), len(values.Results); n != m {
		return nil, errors.Wrapf(errors.ErrState, "%d keys for %d values", n, m)
	}
	models := make([]drip.Model, len(keys.Results))
	for i, k := range keys.Results {
		models[i] = drip.Pair(k, values.Results[i])
	}
	return models, nil
}

// UnmarshalOneResult decodes the first value of a serialized ResultSet into
// o. An empty set leaves o untouched.
func UnmarshalOneResult(raw []byte, o drip.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(raw); err != nil {
		return err
	}
	if len(res.Results) == 0 {
		return nil
	}
	return o.Unmarshal(res.Results[0])
}
