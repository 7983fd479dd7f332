package errors

import (
	stdlib "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestErrorIs(t *testing.T) {
	std := stdlib.New("disk full")

	cases := map[string]struct {
		kind      *Error
		err       error
		wantIs    bool
		wantCause error
	}{
		"root error matches itself": {
			kind:      ErrNotFound,
			err:       ErrNotFound,
			wantIs:    true,
			wantCause: ErrNotFound,
		},
		"wrapped root error": {
			kind:      ErrNotFound,
			err:       Wrapf(Wrap(ErrNotFound, "stream 7"), "withdraw"),
			wantIs:    true,
			wantCause: ErrNotFound,
		},
		"different root error": {
			kind:      ErrNotFound,
			err:       Wrap(ErrOverflow, "claimable"),
			wantCause: ErrOverflow,
		},
		"stdlib error": {
			kind:      ErrDatabase,
			err:       Wrap(std, "write"),
			wantCause: std,
		},
		"field error": {
			kind:   ErrAmount,
			err:    Field("Amount", ErrAmount, "must be positive"),
			wantIs: true,
		},
		"member of a group": {
			kind:   ErrEmpty,
			err:    Append(ErrAmount, Wrap(ErrEmpty, "recipient")),
			wantIs: true,
		},
		"typed nil pointer counts as nil": {
			kind:   nil,
			err:    (*wrappedError)(nil),
			wantIs: true,
		},
		"nil kind against an error": {
			kind: nil,
			err:  ErrNotFound,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.kind.Is(tc.err); got != tc.wantIs {
				t.Fatalf("want %v, got %v", tc.wantIs, got)
			}
			if tc.wantCause == nil {
				return
			}
			if got := errors.Cause(tc.err); got != tc.wantCause {
				t.Fatalf("want cause %v, got %v", tc.wantCause, got)
			}
		})
	}
}

func TestRegisterRejectsTakenCode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("want panic")
		}
	}()
	Register(ErrNotFound.ABCICode(), "lost")
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		var m map[string]int
		m["x"] = 1
		return nil
	}
	err := run()
	if !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %+v", err)
	}
	if !strings.Contains(err.Error(), "nil map") {
		t.Fatalf("panic value missing from %q", err)
	}
}

func TestWrapStackAndFormat(t *testing.T) {
	inner := Wrap(ErrNotFound, "inner")
	outer := Wrap(inner, "outer")
	if stackTrace(inner) == nil {
		t.Fatal("inner wrap must carry a stack trace")
	}
	if fmt.Sprintf("%v", stackTrace(outer)) != fmt.Sprintf("%v", stackTrace(inner)) {
		t.Fatal("outer wrap must reuse the inner stack trace")
	}

	if got, want := fmt.Sprintf("%v", outer), "outer: inner: not found"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	verbose := fmt.Sprintf("%+v", outer)
	if !strings.HasPrefix(verbose, "outer: inner: not found\n") {
		t.Fatalf("unexpected verbose format %q", verbose)
	}
	if !strings.Contains(verbose, "TestWrapStackAndFormat") {
		t.Fatalf("stack trace missing from %q", verbose)
	}
}

func TestWithType(t *testing.T) {
	err := WithType(ErrModel, &Error{})
	if got, want := err.Error(), "*errors.Error: invalid model"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "nothing") != nil || Wrapf(nil, "%d", 1) != nil {
		t.Fatal("wrapping nil must return nil")
	}
}
