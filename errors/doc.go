/*
Package errors implements the error conventions used across drip.

Every error returned to a client should wrap one of the root errors declared
with Register. The root error carries a stable ABCI code that lets clients
distinguish failures without parsing messages.

Declare package specific root errors with Register(code, description) during
program startup. Create runtime instances with Wrap/Wrapf. A stack trace is
attached by the innermost wrap only, so do not declare wrapped errors as
package level variables.

Formatting an error with %+v prints the stack trace of the creation point,
%s and %v print the message only.

Use Is to test an error against a root error:

	if errors.ErrNotFound.Is(err) {
		...
	}
*/
package errors
