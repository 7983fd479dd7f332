package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/iov-one/drip/driptest/assert"
	"github.com/iov-one/drip/errors"
)

func TestEd25519Signing(t *testing.T) {
	private := GenPrivKeyEd25519()
	public := private.PublicKey()

	msg := []byte("foobar")
	msg2 := []byte("dingbooms")

	sig, err := private.Sign(msg)
	assert.Nil(t, err)
	sig2, err := private.Sign(msg2)
	assert.Nil(t, err)

	bz, err := sig.Marshal()
	assert.Nil(t, err)
	bz2, err := sig2.Marshal()
	assert.Nil(t, err)

	if bytes.Equal(bz, bz2) {
		t.Fatal("marshaling different signatures produce the same binary representation")
	}

	if !public.Verify(msg, sig) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if !public.Verify(msg2, sig2) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if public.Verify(msg, sig2) {
		t.Fatal("verified message signature of the wrong message")
	}
	if public.Verify(msg, &Signature{}) {
		t.Fatal("verified an empty signature of a message")
	}
	if public.Verify(msg, nil) {
		t.Fatal("verified a nil signature of a message")
	}
}

func TestEd25519Address(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()
	pub2 := GenPrivKeyEd25519().PublicKey()
	empty := PublicKey{}

	assert.Nil(t, pub.Condition().Validate())
	assert.Nil(t, pub2.Condition().Validate())
	if bytes.Equal(pub.Condition(), pub2.Condition()) {
		t.Fatal("different public keys produce the same condition")
	}
	assert.Nil(t, empty.Condition())
	assert.Nil(t, empty.Address())

	bz, err := pub.Marshal()
	assert.Nil(t, err)
	var read PublicKey
	assert.Nil(t, read.Unmarshal(bz))
	assert.Equal(t, read.Condition(), pub.Condition())
}

func TestEmptyPrivateKeySign(t *testing.T) {
	if sig, err := (&PrivateKey{}).Sign([]byte("foo bar")); !errors.ErrState.Is(err) {
		t.Fatalf("want a state error, got %v and %v", sig, err)
	}
}

func TestDeriveKey(t *testing.T) {
	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	assert.Nil(t, err)

	a, err := DeriveKey(seed, DefaultDerivationPath)
	assert.Nil(t, err)
	again, err := DeriveKey(seed, DefaultDerivationPath)
	assert.Nil(t, err)
	assert.Equal(t, a.Ed25519, again.Ed25519)

	b, err := DeriveKey(seed, "m/44'/234'/1'")
	assert.Nil(t, err)
	if bytes.Equal(a.Ed25519, b.Ed25519) {
		t.Fatal("different paths must produce different keys")
	}

	if _, err := DeriveKey(seed, "not a path"); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %v", err)
	}
	if _, err := DeriveKey([]byte{1, 2}, DefaultDerivationPath); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %v", err)
	}
}
