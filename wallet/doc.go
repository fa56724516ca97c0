/*
Package wallet implements the weighted-threshold authorization state
machine.

The engine owns a single persistent state: the nonce, the active
threshold, the total registered weight and the address to weight
mapping. Three privileged operations mutate it, each gated by approval
counting over a canonical digest of the intended action: SetThreshold,
SetWeight and ExecuteTransaction. Construction through Initialize
transitions the engine once from uninitialized (nonce zero) to active,
never back.

Two invariants hold at every mutation boundary: the threshold is never
zero and never exceeds the total weight, and the nonce grows by exactly
one per successful operation. The nonce is embedded into every signable
digest, which makes each collected signature set single use: replaying
it after the nonce advanced produces a digest the stale signatures do
not satisfy.

Failures are all-or-nothing. Every operation validates and mutates a
cache wrap of the store and commits only when every requirement holds.
*/
package wallet
