/*
Package crypto implements the signature scheme of the multisig engine.

Approvals are secp256k1 compact signatures. The engine never stores
public keys: it recovers the signer identifier directly from the digest
and the signature, which is the only cryptographic primitive the
authorization logic depends on.
*/
package crypto
