/*
Package app contains the ABCI glue of a drip application.

StoreApp keeps the committed state together with the check and deliver
caches and answers queries. BaseApp adds transaction processing on top of
it: every transaction is decoded, passed through a chain of decorators
and finally dispatched by the Router to the handler registered for the
message path.
*/
package app
