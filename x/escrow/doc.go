/*
Package escrow implements a two party settlement agreement.

A buyer deposits funds that are held in a custody account until the
seller's deliverable is accepted. The agreement moves through a strict
lifecycle: it is created unfunded, the buyer funds it, the seller may
negotiate a deadline extension, marks the work ready, and the funds are
released to the seller either by the buyer or, after the release
timeout, by the seller's own claim. Either side can escalate to the
arbiter, who splits the escrowed amount between the parties.

Value is conserved exactly: whatever was escrowed leaves custody in
full at settlement, split between seller payout and buyer refund or
penalty. All transfers go through the cash controller and any transfer
failure aborts the whole operation.
*/
package escrow
