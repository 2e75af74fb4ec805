/*
Package cash defines a simple account ledger.

There are wallets that contain coins, keyed by the account address.
Value is moved between wallets with transfers, either directly by the
wallet owner or by a spender that was granted an allowance. Other
extensions hold a Controller reference to settle value as part of
their own state transitions.
*/
package cash
