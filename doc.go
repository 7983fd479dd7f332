/*
Package drip defines the interfaces used throughout the streaming ledger:
storage, transactions, handlers, results and the request context.

A stream is a deposit that a sender locks up for a recipient. The deposit
drips to the recipient at a fixed rate per second and can be withdrawn
incrementally. The accounting lives in x/stream, token balances in x/cash and
the ABCI plumbing in app.

We pass context through context.Context between app, middleware, and
handlers. There exist two functions for every XYZ of type T that we want to
support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ may panic if the value was previously set to avoid lower-level
modules overwriting the value (eg. height, chain id).
*/
package drip
