package stream

import (
	"github.com/iov-one/drip"
	"github.com/iov-one/drip/codec"
	"github.com/iov-one/drip/errors"
	"github.com/iov-one/drip/orm"
)

func init() {
	codec.RegisterInterface((*EventPayload)(nil))
	codec.RegisterConcrete(&StreamCreated{}, "stream/StreamCreated")
	codec.RegisterConcrete(&StreamToppedUp{}, "stream/StreamToppedUp")
	codec.RegisterConcrete(&TokensWithdrawn{}, "stream/TokensWithdrawn")
	codec.RegisterConcrete(&StreamCancelled{}, "stream/StreamCancelled")
	codec.RegisterConcrete(&FeeCollected{}, "stream/FeeCollected")
}

// EventKind names an event. Together with the stream ID it is the topic
// an event is published under.
type EventKind string

const (
	KindStreamCreated   EventKind = "stream_created"
	KindStreamToppedUp  EventKind = "stream_topped_up"
	KindTokensWithdrawn EventKind = "tokens_withdrawn"
	KindStreamCancelled EventKind = "stream_cancelled"
	KindFeeCollected    EventKind = "fee_collected"
)

// EventPayload is the kind specific content of an event.
type EventPayload interface {
	Kind() EventKind
}

// StreamCreated is emitted when a new stream is created. Rate and deposit
// are net of the protocol fee.
type StreamCreated struct {
	Sender          drip.Address
	Recipient       drip.Address
	Token           string
	RatePerSecond   int64
	DepositedAmount int64
	StartTime       drip.UnixTime
}

func (StreamCreated) Kind() EventKind { return KindStreamCreated }

// StreamToppedUp is emitted when a sender tops up a stream. Amount is net
// of the protocol fee.
type StreamToppedUp struct {
	Sender             drip.Address
	Amount             int64
	NewDepositedAmount int64
}

func (StreamToppedUp) Kind() EventKind { return KindStreamToppedUp }

// TokensWithdrawn is emitted when the recipient withdraws accrued tokens.
type TokensWithdrawn struct {
	Recipient drip.Address
	Amount    int64
	Timestamp drip.UnixTime
}

func (TokensWithdrawn) Kind() EventKind { return KindTokensWithdrawn }

// StreamCancelled is emitted when a sender cancels a stream.
type StreamCancelled struct {
	Sender          drip.Address
	Recipient       drip.Address
	AmountWithdrawn int64
	RefundedAmount  int64
}

func (StreamCancelled) Kind() EventKind { return KindStreamCancelled }

// FeeCollected is emitted when a protocol fee is taken from a deposit.
type FeeCollected struct {
	Treasury  drip.Address
	FeeAmount int64
	Token     string
}

func (FeeCollected) Kind() EventKind { return KindFeeCollected }

// Event is a single notification about a stream state change.
type Event struct {
	Kind     EventKind
	StreamID uint64
	Height   int64
	Payload  EventPayload
}

var _ orm.Model = (*Event)(nil)

// NewEvent returns an event of given stream carrying given payload.
func NewEvent(streamID uint64, payload EventPayload) Event {
	return Event{
		Kind:     payload.Kind(),
		StreamID: streamID,
		Payload:  payload,
	}
}

func (e *Event) Validate() error {
	if e.Payload == nil {
		return errors.Field("Payload", errors.ErrEmpty, "required")
	}
	if e.Kind != e.Payload.Kind() {
		return errors.Field("Kind", errors.ErrState, "%s does not match %s payload", e.Kind, e.Payload.Kind())
	}
	if e.StreamID == 0 {
		return errors.Field("StreamID", errors.ErrEmpty, "required")
	}
	return nil
}

func (e *Event) Copy() orm.Model {
	cpy := *e
	cpy.Payload = copyPayload(e.Payload)
	return &cpy
}

func copyPayload(p EventPayload) EventPayload {
	clone := func(a drip.Address) drip.Address { return append(drip.Address(nil), a...) }
	switch p := p.(type) {
	case *StreamCreated:
		cpy := *p
		cpy.Sender, cpy.Recipient = clone(p.Sender), clone(p.Recipient)
		return &cpy
	case *StreamToppedUp:
		cpy := *p
		cpy.Sender = clone(p.Sender)
		return &cpy
	case *TokensWithdrawn:
		cpy := *p
		cpy.Recipient = clone(p.Recipient)
		return &cpy
	case *StreamCancelled:
		cpy := *p
		cpy.Sender, cpy.Recipient = clone(p.Sender), clone(p.Recipient)
		return &cpy
	case *FeeCollected:
		cpy := *p
		cpy.Treasury = clone(p.Treasury)
		return &cpy
	}
	return p
}

func (e *Event) Marshal() ([]byte, error) {
	return codec.Marshal(e)
}

func (e *Event) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, e)
}

// Publisher delivers stream events. Events are published in order and
// within the transaction that caused them.
type Publisher interface {
	Publish(ctx drip.Context, db drip.KVStore, e Event) error
}

// EventLog is a Publisher that appends every event to the database, so
// the history of each stream can be queried. Events of a transaction that
// fails are discarded together with all its other writes.
type EventLog struct {
	bucket orm.Bucket
	seq    orm.Sequence
}

var _ Publisher = EventLog{}

// NewEventLog returns an event log with the "/streamevents" query and a
// "stream" index.
func NewEventLog() EventLog {
	b := orm.NewBucket("streamevent", &Event{}).
		WithIndex("stream", eventStreamIndex, false)
	return EventLog{
		bucket: b,
		seq:    b.Sequence("id"),
	}
}

// Publish appends the event to the log. The current block height is
// recorded if known.
func (l EventLog) Publish(ctx drip.Context, db drip.KVStore, e Event) error {
	if height, ok := drip.GetHeight(ctx); ok {
		e.Height = height
	}
	id, err := l.seq.NextVal(db)
	if err != nil {
		return errors.Wrap(err, "event id")
	}
	if err := l.bucket.Save(db, orm.NewSimpleObj(id, &e)); err != nil {
		return errors.Wrap(err, "save event")
	}
	drip.GetLogger(ctx).Debug("stream event",
		"kind", string(e.Kind), "stream_id", e.StreamID)
	return nil
}

// Events returns all events of given stream in the order of emission.
func (l EventLog) Events(db drip.ReadOnlyKVStore, streamID uint64) ([]Event, error) {
	objs, err := l.bucket.GetIndexed(db, "stream", orm.EncodeSequence(streamID))
	if err != nil {
		return nil, err
	}
	res := make([]Event, 0, len(objs))
	for _, obj := range objs {
		e, ok := obj.Value().(*Event)
		if !ok {
			return nil, errors.WithType(errors.ErrModel, obj.Value())
		}
		res = append(res, *e)
	}
	return res, nil
}

// Register registers the event log queries with given router.
func (l EventLog) Register(qr drip.QueryRouter) {
	l.bucket.Register("streamevents", qr)
}

func eventStreamIndex(obj orm.Object) ([]byte, error) {
	e, ok := obj.Value().(*Event)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return orm.EncodeSequence(e.StreamID), nil
}
