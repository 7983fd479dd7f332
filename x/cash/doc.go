/*
Package cash defines a simple implementation of sending coins
between wallets.

There is no logic in the coins (tokens), except that the balance
of any coin may not go below zero. Other extensions move tokens through the
CoinMover interface, for example to hold a deposit in a custody account.
*/
package cash
