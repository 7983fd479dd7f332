package client

import (
	"github.com/iov-one/drip"
	"github.com/iov-one/drip/app"
	"github.com/iov-one/drip/coin"
	"github.com/iov-one/drip/errors"
	"github.com/iov-one/drip/orm"
	"github.com/iov-one/drip/x/cash"
	"github.com/iov-one/drip/x/sigs"
	"github.com/iov-one/drip/x/stream"
)

// StreamResult is a stream together with its ID.
type StreamResult struct {
	ID     uint64
	Stream *stream.Stream
}

// Models runs an ABCI query and returns the found key value pairs.
func (c *Client) Models(path string, data []byte) ([]drip.Model, error) {
	res := c.abciQuery(path, data)
	if res.Code != 0 {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	if len(res.Key) == 0 {
		return nil, nil
	}
	var keys, values app.ResultSet
	if err := keys.Unmarshal(res.Key); err != nil {
		return nil, errors.Wrap(err, "keys")
	}
	if err := values.Unmarshal(res.Value); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	return app.JoinResults(&keys, &values)
}

// Nonce returns the sequence the next signature of given address must use.
func (c *Client) Nonce(addr drip.Address) (int64, error) {
	models, err := c.Models("/auth", addr)
	if err != nil || len(models) == 0 {
		return 0, err
	}
	var user sigs.UserData
	if err := user.Unmarshal(models[0].Value); err != nil {
		return 0, err
	}
	return user.Sequence, nil
}

// Balance returns the amount of given token held by addr.
func (c *Client) Balance(addr drip.Address, ticker string) (coin.Coin, error) {
	models, err := c.Models("/wallets", addr)
	if err != nil {
		return coin.Coin{}, err
	}
	if len(models) == 0 {
		return coin.NewCoin(0, ticker), nil
	}
	var set cash.Set
	if err := set.Unmarshal(models[0].Value); err != nil {
		return coin.Coin{}, err
	}
	return set.Coins.Balance(ticker), nil
}

// FeeConfig returns the protocol configuration, or nil if the protocol was
// not initialized.
func (c *Client) FeeConfig() (*stream.ProtocolConfig, error) {
	models, err := c.Models("/streamconf", nil)
	if err != nil || len(models) == 0 {
		return nil, err
	}
	var conf stream.ProtocolConfig
	if err := conf.Unmarshal(models[0].Value); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Stream returns the stream with given ID, or nil if it does not exist.
func (c *Client) Stream(id uint64) (*stream.Stream, error) {
	res, err := c.streams("/streams", orm.EncodeSequence(id))
	if err != nil || len(res) == 0 {
		return nil, err
	}
	return res[0].Stream, nil
}

// StreamsBySender returns all streams funded by given address.
func (c *Client) StreamsBySender(addr drip.Address) ([]StreamResult, error) {
	return c.streams("/streams/sender", addr)
}

// StreamsByRecipient returns all streams paying given address.
func (c *Client) StreamsByRecipient(addr drip.Address) ([]StreamResult, error) {
	return c.streams("/streams/recipient", addr)
}

func (c *Client) streams(path string, data []byte) ([]StreamResult, error) {
	models, err := c.Models(path, data)
	if err != nil {
		return nil, err
	}
	res := make([]StreamResult, len(models))
	for i, m := range models {
		key, err := stream.ParseKey(m.Key)
		if err != nil {
			return nil, err
		}
		var s stream.Stream
		if err := s.Unmarshal(m.Value); err != nil {
			return nil, err
		}
		res[i] = StreamResult{ID: key.ID(), Stream: &s}
	}
	return res, nil
}

// StreamEvents returns the history of given stream in emission order.
func (c *Client) StreamEvents(id uint64) ([]stream.Event, error) {
	models, err := c.Models("/streamevents/stream", orm.EncodeSequence(id))
	if err != nil {
		return nil, err
	}
	events := make([]stream.Event, len(models))
	for i, m := range models {
		if err := events[i].Unmarshal(m.Value); err != nil {
			return nil, err
		}
	}
	return events, nil
}
