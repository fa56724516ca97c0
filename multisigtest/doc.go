/*
Package multisigtest provides helpers for testing the authorization
engine: deterministic signers, a canonical way to produce sorted
signature lists and an in-memory host ledger that records every
transfer, invocation and event.
*/
package multisigtest
