package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iov-one/drip"
	"github.com/iov-one/drip/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	tmtypes "github.com/tendermint/tendermint/types"
)

const (
	txPerPage = 50

	// indexDelay is how long the tx indexer may lag behind a new block.
	indexDelay = 100 * time.Millisecond
)

// TransactionID is the hash of an encoded transaction.
type TransactionID = cmn.HexBytes

// TxQuery is a tag query understood by the tendermint tx indexer.
type TxQuery = string

// QueryStreamTxs matches every transaction that touched given stream.
func QueryStreamTxs(streamID uint64) TxQuery {
	return fmt.Sprintf("stream_id='%d'", streamID)
}

func queryTxByID(id TransactionID) TxQuery {
	return fmt.Sprintf("%s='%X'", tmtypes.TxHashKey, id)
}

// CommitResult is the outcome of a transaction included in a block. Err is
// the registered error of a failed delivery and Result is set otherwise.
type CommitResult struct {
	ID     TransactionID
	Height int64
	Result *drip.DeliverResult
	Err    error
}

// SubmitTx puts a transaction into the mempool. A transaction that fails
// the check is rejected with its registered error and never committed.
func (c *Client) SubmitTx(ctx context.Context, tx drip.Tx) (TransactionID, error) {
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "marshaling: %s", err)
	}
	res, err := c.conn.BroadcastTxSync(bz)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "submit tx: %s", err)
	}
	if res.Code != 0 {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return res.Hash, nil
}

// CommitTx submits a transaction and blocks until it is part of a block.
func (c *Client) CommitTx(ctx context.Context, tx drip.Tx) (*CommitResult, error) {
	id, err := c.SubmitTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	return c.waitCommitted(ctx, id)
}

// CommitTxs submits all transactions in order and waits until every one of
// them is committed. Submission stops at the first rejected transaction.
func (c *Client) CommitTxs(ctx context.Context, txs []drip.Tx) ([]*CommitResult, error) {
	ids := make([]TransactionID, len(txs))
	for i, tx := range txs {
		id, err := c.SubmitTx(ctx, tx)
		if err != nil {
			return nil, errors.Wrapf(err, "tx %d", i)
		}
		ids[i] = id
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	results := make([]*CommitResult, len(ids))
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id TransactionID) {
			defer wg.Done()
			res, err := c.waitCommitted(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			results[i] = res
			errs = errors.Append(errs, err)
		}(i, id)
	}
	wg.Wait()

	if errs != nil {
		return nil, errs
	}
	return results, nil
}

// waitCommitted returns once the transaction is in a block. The
// subscription is opened before searching so that a block committed in
// between is not missed.
func (c *Client) waitCommitted(ctx context.Context, id TransactionID) (*CommitResult, error) {
	subctx, cancel := context.WithCancel(ctx)
	defer cancel()

	txs := make(chan CommitResult, 1)
	if err := c.SubscribeTx(subctx, queryTxByID(id), txs); err != nil {
		return nil, err
	}
	if res, err := c.GetTxByID(ctx, id); err == nil {
		return res, nil
	}

	select {
	case res, ok := <-txs:
		if !ok {
			return nil, errors.Wrapf(errors.ErrTimeout, "waiting for tx %X", id)
		}
		time.Sleep(indexDelay)
		return &res, nil
	case <-ctx.Done():
		return nil, errors.Wrapf(errors.ErrTimeout, "waiting for tx %X: %s", id, ctx.Err())
	}
}

// GetTxByID returns a committed transaction.
func (c *Client) GetTxByID(ctx context.Context, id TransactionID) (*CommitResult, error) {
	tx, err := c.conn.Tx(id, false)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "get tx: %s", err)
	}
	res := newCommitResult(tx.Hash, tx.Height, tx.TxResult)
	return &res, nil
}

// SearchTx returns the first page of committed transactions matching the
// query, oldest first.
func (c *Client) SearchTx(ctx context.Context, query TxQuery) ([]*CommitResult, error) {
	search, err := c.conn.TxSearch(query, false, 1, txPerPage)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "search tx: %s", err)
	}
	results := make([]*CommitResult, len(search.Txs))
	for i, tx := range search.Txs {
		res := newCommitResult(tx.Hash, tx.Height, tx.TxResult)
		results[i] = &res
	}
	return results, nil
}

// StreamTxs returns the committed transactions that touched given stream.
func (c *Client) StreamTxs(ctx context.Context, streamID uint64) ([]*CommitResult, error) {
	return c.SearchTx(ctx, QueryStreamTxs(streamID))
}

func newCommitResult(id TransactionID, height int64, deliver abci.ResponseDeliverTx) CommitResult {
	res, err := drip.ParseDeliverOrError(deliver)
	return CommitResult{
		ID:     id,
		Height: height,
		Result: res,
		Err:    err,
	}
}
