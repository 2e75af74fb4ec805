/*
Package x contains some standard extensions

Extensions implement common functionality (handlers, decorators,
etc.) and can be combined together to construct an application.

All extensions must be able to work with the paktum core types,
and any other dependencies they introduce must be documented, so
applications can fulfill them.
*/
package x

import (
	"github.com/paktum-network/paktum"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hardcoding x/sigs for everything.
type Authenticator interface {
	// GetConditions reveals all items this ctx may sign for
	GetConditions(paktum.Context) []paktum.Condition
	// HasAddress checks if this ctx can authorize this address
	HasAddress(paktum.Context, paktum.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticators
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all conditions from all Authenticators
func (m MultiAuth) GetConditions(ctx paktum.Context) []paktum.Condition {
	var res []paktum.Condition
	for _, impl := range m.impls {
		add := impl.GetConditions(ctx)
		if len(add) > 0 {
			res = append(res, add...)
		}
	}
	// TODO: remove duplicates
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx paktum.Context, addr paktum.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method of any Authenticator
func GetAddresses(ctx paktum.Context, auth Authenticator) []paktum.Address {
	perms := auth.GetConditions(ctx)
	addrs := make([]paktum.Address, len(perms))
	for i, p := range perms {
		addrs[i] = p.Address()
	}
	return addrs
}

// MainSigner returns the first signed if any, otherwise nil
func MainSigner(ctx paktum.Context, auth Authenticator) paktum.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx paktum.Context, auth Authenticator, required []paktum.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// HasNAddresses returns true if at least n elements in requested are
// also in context.
func HasNAddresses(ctx paktum.Context, auth Authenticator, requested []paktum.Address, n int) bool {
	// Special case: is this an error???
	if n <= 0 {
		return true
	}
	count := 0
	for _, r := range requested {
		if auth.HasAddress(ctx, r) {
			count++
			if count >= n {
				return true
			}
		}
	}
	return false
}
