package utils

import (
	"strings"

	"github.com/iov-one/drip"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	// ActionKey tags a delivered transaction with its message path, for
	// example action='stream/create'.
	ActionKey = "action"
	// ModuleKey tags a delivered transaction with the first path segment,
	// for example module='stream'.
	ModuleKey = "module"
)

// ActionTagger adds the action and module tags to every successfully
// delivered transaction so clients can search and subscribe by message
// kind.
type ActionTagger struct{}

var _ drip.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx drip.Context, db drip.KVStore, tx drip.Tx, next drip.Checker) (*drip.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx drip.Context, db drip.KVStore, tx drip.Tx, next drip.Deliverer) (*drip.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	path := msg.Path()
	module := path
	if i := strings.IndexByte(path, '/'); i > 0 {
		module = path[:i]
	}
	res.Tags = append(res.Tags,
		common.KVPair{Key: []byte(ActionKey), Value: []byte(path)},
		common.KVPair{Key: []byte(ModuleKey), Value: []byte(module)},
	)
	return res, nil
}
