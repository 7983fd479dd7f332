package client

import (
	"context"
	"fmt"

	"github.com/iov-one/drip/errors"
	cmn "github.com/tendermint/tendermint/libs/common"
	tmquery "github.com/tendermint/tendermint/libs/pubsub/query"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// SubscribeHeaders sends every new block header to results until the
// context is cancelled. The results channel is closed when the
// subscription ends.
func (c *Client) SubscribeHeaders(ctx context.Context, results chan<- Header) error {
	q := fmt.Sprintf("%s='%s'", tmtypes.EventTypeKey, tmtypes.EventNewBlockHeader)
	events, err := c.subscribe(ctx, q)
	if err != nil {
		return err
	}
	go func() {
		defer close(results)
		for {
			ev, ok := next(ctx, events)
			if !ok {
				return
			}
			h, ok := ev.Data.(tmtypes.EventDataNewBlockHeader)
			if !ok {
				continue
			}
			select {
			case results <- h.Header:
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// SubscribeTx sends every committed transaction matching the tag query to
// results until the context is cancelled. The results channel is closed
// when the subscription ends.
func (c *Client) SubscribeTx(ctx context.Context, query TxQuery, results chan<- CommitResult) error {
	q := fmt.Sprintf("%s='%s' AND %s", tmtypes.EventTypeKey, tmtypes.EventTx, query)
	events, err := c.subscribe(ctx, q)
	if err != nil {
		return err
	}
	go func() {
		defer close(results)
		for {
			ev, ok := next(ctx, events)
			if !ok {
				return
			}
			tx, ok := ev.Data.(tmtypes.EventDataTx)
			if !ok {
				continue
			}
			select {
			case results <- newCommitResult(tx.Tx.Hash(), tx.Height, tx.Result):
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// SubscribeStream sends every committed transaction that touches given
// stream. This is how a recipient learns about top ups and cancellation.
func (c *Client) SubscribeStream(ctx context.Context, streamID uint64, results chan<- CommitResult) error {
	return c.SubscribeTx(ctx, QueryStreamTxs(streamID), results)
}

// WaitForNextBlock returns the first header produced after the call.
func (c *Client) WaitForNextBlock(ctx context.Context) (*Header, error) {
	return c.WaitForHeight(ctx, 0)
}

// WaitForHeight returns the first new header with at least the given
// height. A height in the past still waits for the next block.
func (c *Client) WaitForHeight(ctx context.Context, height int64) (*Header, error) {
	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	headers := make(chan Header, 2)
	if err := c.SubscribeHeaders(cctx, headers); err != nil {
		return nil, err
	}
	for h := range headers {
		if h.Height >= height {
			return &h, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrTimeout, "waiting for height %d: %s", height, err)
	}
	return nil, errors.Wrapf(errors.ErrNetwork, "subscription closed before height %d", height)
}

// subscribe opens a subscription that is released once ctx is done.
func (c *Client) subscribe(ctx context.Context, query string) (<-chan ctypes.ResultEvent, error) {
	q, err := tmquery.New(query)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "query %q: %s", query, err)
	}
	subscriber := cmn.RandStr(16)
	out, err := c.conn.Subscribe(ctx, subscriber, q.String())
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "subscribe to %q: %s", query, err)
	}
	go func() {
		<-ctx.Done()
		_ = c.conn.Unsubscribe(context.Background(), subscriber, q.String())
	}()
	return out, nil
}

func next(ctx context.Context, events <-chan ctypes.ResultEvent) (ctypes.ResultEvent, bool) {
	select {
	case <-ctx.Done():
		return ctypes.ResultEvent{}, false
	case ev, ok := <-events:
		return ev, ok
	}
}
