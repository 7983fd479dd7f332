package errors

import (
	"io"
	"strings"
	"testing"
)

func TestABCIInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"nil": {
			wantCode: SuccessABCICode,
		},
		"typed nil": {
			err:      (*Error)(nil),
			wantCode: SuccessABCICode,
		},
		"root error": {
			err:      ErrInsufficientAmount,
			wantCode: 18,
			wantLog:  "insufficient amount",
		},
		"wrapped root error keeps the message chain": {
			err:      Wrapf(Wrap(ErrNotFound, "stream 9"), "withdraw"),
			wantCode: 3,
			wantLog:  "withdraw: stream 9: not found",
		},
		"unregistered error is hidden": {
			err:      Wrap(io.ErrUnexpectedEOF, "reading genesis"),
			wantCode: 1,
			wantLog:  "internal error",
		},
		"unregistered error in debug mode": {
			err:      io.EOF,
			debug:    true,
			wantCode: 1,
			wantLog:  "EOF",
		},
		"group takes the first registered code": {
			err:      Append(io.EOF, ErrAmount, ErrEmpty),
			wantCode: 13,
			wantLog:  "EOF; invalid amount; value is empty",
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want code %d, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want log %q, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestABCIInfoDebugIncludesStack(t *testing.T) {
	_, log := ABCIInfo(Wrap(ErrState, "paused"), true)
	if !strings.HasPrefix(log, "paused: invalid state") {
		t.Fatalf("unexpected log %q", log)
	}
	if !strings.Contains(log, "TestABCIInfoDebugIncludesStack") {
		t.Fatalf("stack trace missing from %q", log)
	}
}

func TestABCIError(t *testing.T) {
	cases := map[string]struct {
		code     uint32
		wantNil  bool
		wantKind *Error
		wantCode uint32
	}{
		"success": {
			code:    SuccessABCICode,
			wantNil: true,
		},
		"registered code": {
			code:     ErrNotFound.ABCICode(),
			wantKind: ErrNotFound,
			wantCode: ErrNotFound.ABCICode(),
		},
		"client side code": {
			code:     ErrTimeout.ABCICode(),
			wantKind: ErrTimeout,
			wantCode: ErrTimeout.ABCICode(),
		},
		"unknown code": {
			code:     987654,
			wantCode: 1,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := ABCIError(tc.code, "remote log")
			if tc.wantNil {
				if err != nil {
					t.Fatalf("want nil, got %v", err)
				}
				return
			}
			if tc.wantKind != nil && !tc.wantKind.Is(err) {
				t.Fatalf("want %v, got %v", tc.wantKind, err)
			}
			if code, _ := ABCIInfo(err, false); code != tc.wantCode {
				t.Fatalf("want code %d, got %d", tc.wantCode, code)
			}
			if !strings.HasPrefix(err.Error(), "remote log: ") {
				t.Fatalf("log not preserved in %q", err)
			}
		})
	}
}
