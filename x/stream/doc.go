/*
Package stream implements token payment streams.

A sender deposits tokens that become claimable by a recipient at a fixed
per second rate. Deposits are held by a single custody account. A protocol
wide fee, configured in basis points, is taken from every deposit and moved
to the treasury.

Stream lifecycle:

	create ──> active ──withdraw (drained)──> inactive
	             │  ^
	             │  └── top up, withdraw
	             └────── cancel ──────────> inactive

Cancelling refunds everything that was not yet withdrawn. Tokens that were
already accrued but not withdrawn by the recipient are refunded to the
sender as well. Whoever acts first wins.

Topping up does not settle the accrued amount. The accrual clock is reset to
the top up time.
*/
package stream
