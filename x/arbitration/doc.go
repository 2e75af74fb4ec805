/*
Package arbitration implements the governed arbiter body.

A standing set of signer accounts maintains itself through a proposal,
vote and execute pipeline: adding and removing signers, changing the
quorum and withdrawing accumulated arbitration fees all require a
quorum of affirmative votes and a strict majority. Next to the
pipeline there is a fast path that lets any single signer settle a
specific escrow dispute directly, trading collective agreement for
speed.

The body has its own account that collects arbitration fees. Escrow
agreements name this account as their arbiter.
*/
package arbitration
