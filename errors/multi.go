package errors

import "strings"

// Append clubs together all provided errors. Nil values are ignored.
// It returns nil when no error was given and the single error when only one
// was given.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			res = append(res, m...)
			continue
		}
		res = append(res, e)
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

type multiErr []error

func (m multiErr) Error() string {
	msgs := make([]string, len(m))
	for i, e := range m {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unpack returns all grouped errors.
func (m multiErr) Unpack() []error {
	return m
}

// ABCICode returns the code of the first error that has one.
func (m multiErr) ABCICode() uint32 {
	for _, e := range m {
		if c := abciCode(e); c != internalABCICode {
			return c
		}
	}
	return internalABCICode
}
