/*
Package std wires the standard settlement application together.

It is a good place to get started: it composes the decorator chain and
the message router with all extensions of this repository. Hosts can
replace parts with custom implementations as their project grows.
*/
package std

import (
	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/app"
	"github.com/paktum-network/paktum/x"
	"github.com/paktum-network/paktum/x/arbitration"
	"github.com/paktum-network/paktum/x/cash"
	"github.com/paktum-network/paktum/x/escrow"
	"github.com/paktum-network/paktum/x/utils"
)

// Chain returns the standard decorator chain: recovery, logging,
// per-call savepoints, and the escrow reentrancy guard.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewRecover(),
		utils.NewLogging(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		// on DeliverTx, roll back all writes of a failed call
		utils.NewSavepoint().OnDeliver(),
		escrow.NewReentrancyGuard(),
	)
}

// Router registers all message handlers of the settlement protocol:
// the cash ledger, the escrow lifecycle, and the arbitration body.
func Router(auth x.Authenticator) *app.Router {
	bank := cash.NewController()

	r := app.NewRouter()
	cash.RegisterRoutes(r, auth, bank)
	escrow.RegisterRoutes(r, auth, bank)
	arbitration.RegisterRoutes(r, auth, bank, escrow.NewController(bank))
	return r
}

// Stack returns the complete message processing stack.
func Stack(auth x.Authenticator) paktum.Handler {
	return Chain().WithHandler(Router(auth))
}
