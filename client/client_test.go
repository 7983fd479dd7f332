package client

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/drip"
	dripd "github.com/iov-one/drip/cmd/dripd/app"
	"github.com/iov-one/drip/crypto"
	"github.com/iov-one/drip/errors"
	"github.com/iov-one/drip/orm"
	"github.com/iov-one/drip/x/sigs"
	"github.com/iov-one/drip/x/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedTx(t *testing.T, c *Client, key *crypto.PrivateKey, msg drip.Msg) *dripd.Tx {
	t.Helper()
	chainID, err := c.ChainID(context.Background())
	require.NoError(t, err)
	nonce, err := c.Nonce(key.PublicKey().Address())
	require.NoError(t, err)

	tx := &dripd.Tx{Msg: msg}
	sig, err := sigs.SignTx(key, tx, chainID, nonce)
	require.NoError(t, err)
	tx.Signatures = []*sigs.StdSignature{sig}
	return tx
}

func TestStatusAndHeader(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c := NewLocalClient(node)

	status, err := c.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.CatchingUp)
	require.True(t, status.Height > 0)

	header, err := c.Header(ctx, status.Height)
	require.NoError(t, err)
	assert.Equal(t, status.Height, header.Height)

	_, err = c.Header(ctx, status.Height+1000)
	assert.Error(t, err)

	next, err := c.WaitForHeight(ctx, status.Height+1)
	require.NoError(t, err)
	assert.True(t, next.Height > status.Height)
}

func TestFeeConfig(t *testing.T) {
	conf, err := NewLocalClient(node).FeeConfig()
	require.NoError(t, err)
	require.NotNil(t, conf)
	assert.Equal(t, uint32(feeRateBps), conf.FeeRateBps)
	assert.Equal(t, admin.PublicKey().Address(), conf.Admin)
}

func TestRejectedTransaction(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c := NewLocalClient(node)

	unsigned := &dripd.Tx{Msg: &stream.WithdrawMsg{Recipient: recipient.PublicKey().Address(), StreamID: 1}}
	_, err := c.SubmitTx(ctx, unsigned)
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %v", err)
}

func TestStreamLifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	c := NewLocalClient(node)
	senderAddr := sender.PublicKey().Address()
	recipientAddr := recipient.PublicKey().Address()

	before, err := c.Balance(senderAddr, "DRP")
	require.NoError(t, err)

	create := signedTx(t, c, sender, &stream.CreateStreamMsg{
		Sender:          senderAddr,
		Recipient:       recipientAddr,
		Token:           "DRP",
		Amount:          1000,
		DurationSeconds: 1,
	})
	res, err := c.CommitTx(ctx, create)
	require.NoError(t, err)
	require.NoError(t, res.Err)
	id, err := orm.DecodeSequence(res.Result.Data)
	require.NoError(t, err)

	created, err := c.Header(ctx, res.Height)
	require.NoError(t, err)

	s, err := c.Stream(id)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, int64(990), s.DepositedAmount)
	assert.Equal(t, int64(990), s.RatePerSecond)
	assert.True(t, s.IsActive)

	after, err := c.Balance(senderAddr, "DRP")
	require.NoError(t, err)
	assert.Equal(t, before.Amount-1000, after.Amount)

	bySender, err := c.StreamsBySender(senderAddr)
	require.NoError(t, err)
	assert.Contains(t, bySender, StreamResult{ID: id, Stream: s})

	// wait for a block at least one second after creation so that the
	// whole deposit is claimable
	for {
		h, err := c.WaitForNextBlock(ctx)
		require.NoError(t, err)
		if !h.Time.Before(created.Time.Add(time.Second)) {
			break
		}
	}

	withdraw := signedTx(t, c, recipient, &stream.WithdrawMsg{Recipient: recipientAddr, StreamID: id})
	res, err = c.CommitTx(ctx, withdraw)
	require.NoError(t, err)
	require.NoError(t, res.Err)

	got, err := c.Balance(recipientAddr, "DRP")
	require.NoError(t, err)
	assert.Equal(t, int64(990), got.Amount)

	s, err = c.Stream(id)
	require.NoError(t, err)
	assert.False(t, s.IsActive)

	byRecipient, err := c.StreamsByRecipient(recipientAddr)
	require.NoError(t, err)
	assert.Len(t, byRecipient, 1)

	events, err := c.StreamEvents(id)
	require.NoError(t, err)
	kinds := make([]stream.EventKind, len(events))
	for i, e := range events {
		kinds[i] = e.Kind
	}
	assert.Equal(t, []stream.EventKind{stream.KindFeeCollected, stream.KindStreamCreated, stream.KindTokensWithdrawn}, kinds)

	found, err := c.StreamTxs(ctx, id)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	byID, err := c.GetTxByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Height, byID.Height)

	// the stream is drained
	again := signedTx(t, c, recipient, &stream.WithdrawMsg{Recipient: recipientAddr, StreamID: id})
	res, err = c.CommitTx(ctx, again)
	require.NoError(t, err)
	assert.True(t, stream.ErrStreamInactive.Is(res.Err), "got %v", res.Err)
}

func TestSubscribeStream(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	c := NewLocalClient(node)
	senderAddr := sender.PublicKey().Address()

	create := signedTx(t, c, sender, &stream.CreateStreamMsg{
		Sender:          senderAddr,
		Recipient:       recipient.PublicKey().Address(),
		Token:           "DRP",
		Amount:          500,
		DurationSeconds: 100,
	})
	res, err := c.CommitTx(ctx, create)
	require.NoError(t, err)
	require.NoError(t, res.Err)
	id, err := orm.DecodeSequence(res.Result.Data)
	require.NoError(t, err)

	updates := make(chan CommitResult, 1)
	require.NoError(t, c.SubscribeStream(ctx, id, updates))

	topUp := signedTx(t, c, sender, &stream.TopUpStreamMsg{Sender: senderAddr, StreamID: id, Amount: 100})
	res, err = c.CommitTx(ctx, topUp)
	require.NoError(t, err)
	require.NoError(t, res.Err)

	select {
	case got := <-updates:
		assert.Equal(t, res.ID, got.ID)
		assert.NoError(t, got.Err)
	case <-ctx.Done():
		t.Fatal("no update for the topped up stream")
	}

	s, err := c.Stream(id)
	require.NoError(t, err)
	assert.Equal(t, int64(495+99), s.DepositedAmount)
}

func TestCommitTxs(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	c := NewLocalClient(node)
	senderAddr := sender.PublicKey().Address()

	first := signedTx(t, c, sender, &stream.CreateStreamMsg{
		Sender:          senderAddr,
		Recipient:       recipient.PublicKey().Address(),
		Token:           "DRP",
		Amount:          100,
		DurationSeconds: 1000,
	})
	results, err := c.CommitTxs(ctx, []drip.Tx{first})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
}
