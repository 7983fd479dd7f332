package stream

import (
	"testing"

	"github.com/iov-one/drip"
	"github.com/iov-one/drip/driptest"
	"github.com/iov-one/drip/driptest/assert"
	"github.com/iov-one/drip/errors"
)

func TestMsgValidate(t *testing.T) {
	alice := driptest.NewCondition().Address()
	bob := driptest.NewCondition().Address()

	cases := map[string]struct {
		msg     drip.Msg
		field   string
		wantErr *errors.Error
	}{
		"initialize with any fee rate": {
			msg: &InitializeMsg{Admin: alice, Treasury: bob, FeeRateBps: 2000},
		},
		"initialize without treasury": {
			msg:     &InitializeMsg{Admin: alice},
			field:   "Treasury",
			wantErr: errors.ErrInput,
		},
		"update without admin": {
			msg:     &UpdateFeeConfigMsg{Treasury: bob, FeeRateBps: 10},
			field:   "Admin",
			wantErr: errors.ErrInput,
		},
		"create without amount or duration": {
			msg: &CreateStreamMsg{Sender: alice, Recipient: bob, Token: ticker},
		},
		"create with lower case ticker": {
			msg:     &CreateStreamMsg{Sender: alice, Recipient: bob, Token: "drp", Amount: 1, DurationSeconds: 1},
			field:   "Token",
			wantErr: errors.ErrCurrency,
		},
		"create without recipient": {
			msg:     &CreateStreamMsg{Sender: alice, Token: ticker, Amount: 1, DurationSeconds: 1},
			field:   "Recipient",
			wantErr: errors.ErrInput,
		},
		"top up without amount": {
			msg: &TopUpStreamMsg{Sender: alice, StreamID: 1},
		},
		"top up without stream": {
			msg:     &TopUpStreamMsg{Sender: alice, Amount: 10},
			field:   "StreamID",
			wantErr: errors.ErrEmpty,
		},
		"withdraw without stream": {
			msg:     &WithdrawMsg{Recipient: bob},
			field:   "StreamID",
			wantErr: errors.ErrEmpty,
		},
		"cancel without sender": {
			msg:     &CancelStreamMsg{StreamID: 4},
			field:   "Sender",
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, tc.field, tc.wantErr)
		})
	}
}
