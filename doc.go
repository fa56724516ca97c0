/*
Package multisig defines the common types and collaborator interfaces for
a weighted-threshold multi-signature authorization engine.

A set of registered users, each holding an integer weight, jointly
authorizes privileged actions (threshold changes, weight changes and
transaction execution) by independently signing a canonical digest of the
intended action. An action is applied only once the summed weight of
valid, distinct signers meets the active threshold.

The root package carries only shared vocabulary: addresses and
identities, the event payloads visible to off-chain observers, the
storage interfaces the engine persists through, and the Ledger interface
the host execution environment must provide. The engine itself lives in
the wallet package, the canonical hashing rules in sighash and the
signature scheme in crypto.
*/
package multisig
