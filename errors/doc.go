/*
Package errors implements coded errors for the multisig engine.

Every failure surfaced to a caller wraps one of the registered root
errors. Root errors carry a numeric code so the host can map outcomes
onto its return channel without parsing message strings, while wrapping
preserves a human readable trail and a stack trace for operators.

Packages register their own root errors with Register during program
startup. The generic roots live here; the engine specific ones are
declared next to the code that returns them.
*/
package errors
