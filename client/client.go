/*
Package client connects to a drip node over the tendermint RPC. It submits
signed transactions, waits for them to be committed and reads the
application state through ABCI queries.
*/
package client

import (
	"context"

	"github.com/iov-one/drip/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	nm "github.com/tendermint/tendermint/node"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	tmtypes "github.com/tendermint/tendermint/types"
)

// Client reads and writes drip state through a tendermint node.
type Client struct {
	conn rpcclient.Client
}

// NewClient wraps an existing tendermint connection.
func NewClient(conn rpcclient.Client) *Client {
	return &Client{conn: conn}
}

// NewLocalClient talks to a node running in the same process.
func NewLocalClient(node *nm.Node) *Client {
	return NewClient(rpcclient.NewLocal(node))
}

// NewHTTPClient talks to a remote node, for example
// "http://localhost:26657". Subscriptions use its websocket endpoint.
func NewHTTPClient(remote string) *Client {
	return NewClient(rpcclient.NewHTTP(remote, "/websocket"))
}

// Status is the view of the chain from the connected node.
type Status struct {
	Height     int64
	CatchingUp bool
}

// Header is a tendermint block header.
type Header = tmtypes.Header

// Status returns the latest height known to the node.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	status, err := c.conn.Status()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "status: %s", err)
	}
	return &Status{
		Height:     status.SyncInfo.LatestBlockHeight,
		CatchingUp: status.SyncInfo.CatchingUp,
	}, nil
}

// Header returns the block header at the given height. ErrNotFound is
// returned for heights that were not produced yet.
func (c *Client) Header(ctx context.Context, height int64) (*Header, error) {
	info, err := c.conn.BlockchainInfo(height, height)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "blockchain info: %s", err)
	}
	if len(info.BlockMetas) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "no header for height %d", height)
	}
	return &info.BlockMetas[0].Header, nil
}

// ChainID returns the chain ID of the genesis the node runs. Signatures
// are only valid for this chain.
func (c *Client) ChainID(ctx context.Context) (string, error) {
	gen, err := c.conn.Genesis()
	if err != nil {
		return "", errors.Wrapf(errors.ErrNetwork, "genesis: %s", err)
	}
	return gen.Genesis.ChainID, nil
}

// abciQuery runs a query against the latest committed state. Transport
// failures are returned as ErrNetwork response codes.
func (c *Client) abciQuery(path string, data []byte) abci.ResponseQuery {
	res, err := c.conn.ABCIQuery(path, data)
	if err != nil {
		code, log := errors.ABCIInfo(errors.Wrap(errors.ErrNetwork, err.Error()), false)
		return abci.ResponseQuery{Code: code, Log: log}
	}
	return res.Response
}
