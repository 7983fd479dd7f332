package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attaches a field name and a description to err. It returns nil for
// a nil err. Field names use Go naming with dots for nested values and the
// index for list elements, for example Stream.Sender or Coins.0.
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: fieldName, desc: description}
}

// AppendField adds the field error built from fieldErrOrNil to errs.
// Nothing is added when fieldErrOrNil is nil, which makes it convenient to
// collect the results of nested Validate calls.
func AppendField(errs error, fieldName string, fieldErrOrNil error) error {
	return Append(errs, Field(fieldName, fieldErrOrNil, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (err *fieldError) Error() string {
	if err.desc == "" {
		return fmt.Sprintf("field %q: %s", err.field, err.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", err.field, err.desc, err.parent)
}

func (err *fieldError) Cause() error { return err.parent }

func (err *fieldError) Field() string { return err.field }

type fielder interface {
	Field() string
}

// FieldErrors collects every error created with Field for fieldName,
// searching wrapped errors and every member of errors built by Append.
func FieldErrors(err error, fieldName string) []error {
	var found []error
	for !isNilErr(err) {
		if f, ok := err.(fielder); ok && f.Field() == fieldName {
			return append(found, err)
		}
		switch e := err.(type) {
		case unpacker:
			for _, member := range e.Unpack() {
				found = append(found, FieldErrors(member, fieldName)...)
			}
			return found
		case causer:
			err = e.Cause()
		default:
			return found
		}
	}
	return found
}
