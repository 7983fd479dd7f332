package driptest

import "github.com/iov-one/drip"

// Handler is a mock implementation of the drip.Handler interface. It
// returns configured results and counts every call.
type Handler struct {
	checkCall   int
	CheckResult drip.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult drip.DeliverResult
	DeliverErr    error
}

var _ drip.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx drip.Context, db drip.KVStore, tx drip.Tx) (*drip.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx drip.Context, db drip.KVStore, tx drip.Tx) (*drip.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

// WriteHandler writes the given key/value pair to the store in both check
// and deliver and then returns Err.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ drip.Handler = WriteHandler{}

func (h WriteHandler) Check(ctx drip.Context, db drip.KVStore, tx drip.Tx) (*drip.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &drip.CheckResult{}, h.Err
}

func (h WriteHandler) Deliver(ctx drip.Context, db drip.KVStore, tx drip.Tx) (*drip.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &drip.DeliverResult{}, h.Err
}

// PanicHandler always panics.
type PanicHandler struct{}

var _ drip.Handler = PanicHandler{}

func (PanicHandler) Check(drip.Context, drip.KVStore, drip.Tx) (*drip.CheckResult, error) {
	panic("check panic")
}

func (PanicHandler) Deliver(drip.Context, drip.KVStore, drip.Tx) (*drip.DeliverResult, error) {
	panic("deliver panic")
}
