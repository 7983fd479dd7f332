package stream

import (
	"testing"

	"github.com/iov-one/drip"
	"github.com/iov-one/drip/driptest"
	"github.com/iov-one/drip/driptest/assert"
	"github.com/iov-one/drip/errors"
)

func TestStreamValidate(t *testing.T) {
	valid := func() *Stream {
		return &Stream{
			Sender:          driptest.NewCondition().Address(),
			Recipient:       driptest.NewCondition().Address(),
			Token:           "DRP",
			RatePerSecond:   10,
			DepositedAmount: 1000,
			StartTime:       100,
			LastUpdateTime:  100,
			IsActive:        true,
		}
	}
	cases := map[string]struct {
		mutate  func(*Stream)
		field   string
		wantErr *errors.Error
	}{
		"valid": {
			mutate: func(*Stream) {},
		},
		"missing sender": {
			mutate:  func(s *Stream) { s.Sender = nil },
			field:   "Sender",
			wantErr: errors.ErrInput,
		},
		"bad token": {
			mutate:  func(s *Stream) { s.Token = "drp" },
			field:   "Token",
			wantErr: errors.ErrCurrency,
		},
		"negative rate": {
			mutate:  func(s *Stream) { s.RatePerSecond = -1 },
			field:   "RatePerSecond",
			wantErr: errors.ErrAmount,
		},
		"overdrawn": {
			mutate:  func(s *Stream) { s.WithdrawnAmount = 1001 },
			field:   "WithdrawnAmount",
			wantErr: errors.ErrAmount,
		},
		"updated before start": {
			mutate:  func(s *Stream) { s.LastUpdateTime = 99 },
			field:   "LastUpdateTime",
			wantErr: errors.ErrState,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			s := valid()
			tc.mutate(s)
			err := s.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, tc.field, tc.wantErr)
		})
	}
}

func TestStreamCopy(t *testing.T) {
	s := &Stream{Sender: drip.Address("12345678901234567890"), Token: "DRP"}
	cpy := s.Copy().(*Stream)
	cpy.Sender[0] = 'X'
	assert.Equal(t, drip.Address("12345678901234567890"), s.Sender)
}

func TestProtocolConfigValidate(t *testing.T) {
	addr := driptest.NewCondition().Address()
	assert.Nil(t, (&ProtocolConfig{Admin: addr, Treasury: addr, FeeRateBps: MaxFeeRateBps}).Validate())

	err := (&ProtocolConfig{Admin: addr, Treasury: addr, FeeRateBps: MaxFeeRateBps + 1}).Validate()
	assert.FieldError(t, err, "FeeRateBps", ErrInvalidFeeRate)

	err = (&ProtocolConfig{Treasury: addr}).Validate()
	assert.FieldError(t, err, "Admin", errors.ErrInput)
}

func TestEventCopy(t *testing.T) {
	sender := driptest.NewCondition().Address()
	recipient := driptest.NewCondition().Address()
	wantSender := append(drip.Address(nil), sender...)
	wantRecipient := append(drip.Address(nil), recipient...)
	payloads := map[string]EventPayload{
		"created":   &StreamCreated{Sender: sender, Recipient: recipient, Token: "DRP", RatePerSecond: 4},
		"topped up": &StreamToppedUp{Sender: sender, Amount: 10},
		"withdrawn": &TokensWithdrawn{Recipient: recipient, Amount: 3},
		"cancelled": &StreamCancelled{Sender: sender, Recipient: recipient, RefundedAmount: 7},
		"fee":       &FeeCollected{Treasury: recipient, FeeAmount: 1, Token: "DRP"},
	}
	for testName, payload := range payloads {
		t.Run(testName, func(t *testing.T) {
			orig := NewEvent(5, payload)
			cpy := orig.Copy().(*Event)
			assert.Equal(t, &orig, cpy)

			// the copy must not share the payload or its addresses
			if cpy.Payload == orig.Payload {
				t.Fatal("payload pointer shared with the original")
			}
			eraseAddresses(cpy.Payload)
			assert.Equal(t, wantSender, sender)
			assert.Equal(t, wantRecipient, recipient)
		})
	}
}

func eraseAddresses(p EventPayload) {
	erase := func(addrs ...drip.Address) {
		for _, a := range addrs {
			for i := range a {
				a[i] = 0
			}
		}
	}
	switch p := p.(type) {
	case *StreamCreated:
		erase(p.Sender, p.Recipient)
	case *StreamToppedUp:
		erase(p.Sender)
	case *TokensWithdrawn:
		erase(p.Recipient)
	case *StreamCancelled:
		erase(p.Sender, p.Recipient)
	case *FeeCollected:
		erase(p.Treasury)
	}
}
