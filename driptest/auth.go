package driptest

import (
	"github.com/iov-one/drip"
	"github.com/iov-one/drip/x"
)

// Auth authenticates a fixed set of signers regardless of the context.
type Auth struct {
	Signers []drip.Condition
}

var _ x.Authenticator = (*Auth)(nil)

// SignedBy returns an authenticator for the given signers.
func SignedBy(signers ...drip.Condition) *Auth {
	return &Auth{Signers: signers}
}

func (a *Auth) GetConditions(drip.Context) []drip.Condition {
	return a.Signers
}

func (a *Auth) HasAddress(_ drip.Context, addr drip.Address) bool {
	for _, s := range a.Signers {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
