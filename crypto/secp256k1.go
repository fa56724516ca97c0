package crypto

import (
	"github.com/btcsuite/btcd/btcec"
	multisig "github.com/iov-one/multisig"
	"github.com/iov-one/multisig/errors"
	"golang.org/x/crypto/sha3"
)

// SignatureLength is the length in bytes of a compact secp256k1
// signature: one header byte carrying the recovery metadata, followed by
// the R and S components.
const SignatureLength = 65

// DigestLength is the length in bytes of every signable digest.
const DigestLength = 32

// ErrInvalidSignature is returned when a signature is malformed or does
// not correspond to a recoverable key.
var ErrInvalidSignature = errors.Register(1100, "invalid signature")

// Signature is a compact secp256k1 signature with recovery metadata.
// Ephemeral, supplied per call, never persisted.
type Signature []byte

// Validate returns an error if the signature does not have the compact
// form length. It does not verify the signature against any digest.
func (s Signature) Validate() error {
	if len(s) != SignatureLength {
		return errors.Wrapf(ErrInvalidSignature, "signature must be %d bytes, got %d", SignatureLength, len(s))
	}
	return nil
}

// RecoverSigner returns the identifier of the key that produced the
// given signature over the given digest. Pure and deterministic: the
// same digest and signature always recover the same identifier.
func RecoverSigner(digest []byte, sig Signature) (multisig.Address, error) {
	if len(digest) != DigestLength {
		return nil, errors.Wrapf(ErrInvalidSignature, "digest must be %d bytes, got %d", DigestLength, len(digest))
	}
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	pub, _, err := btcec.RecoverCompact(btcec.S256(), sig, digest)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	return PubKeyAddress(pub), nil
}

// PubKeyAddress derives the 256 bit identifier of a public key. The
// identifier is the SHA3-256 digest of the uncompressed key
// serialization, so it never reveals the key itself.
func PubKeyAddress(pub *btcec.PublicKey) multisig.Address {
	digest := sha3.Sum256(pub.SerializeUncompressed())
	return multisig.Address(digest[:])
}

// Signer holds a secp256k1 private key and produces recoverable
// signatures. No serialization of the key material is exposed.
type Signer struct {
	priv *btcec.PrivateKey
}

// NewSigner returns a signer with a random new private key.
func NewSigner() (*Signer, error) {
	priv, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		return nil, errors.Wrap(err, "generate private key")
	}
	return &Signer{priv: priv}, nil
}

// SignerFromSeed deterministically builds a signer from the given seed.
// Use if you have a strong source of external randomness, or for
// deterministic keys in test cases.
func SignerFromSeed(seed []byte) *Signer {
	raw := sha3.Sum256(seed)
	priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), raw[:])
	return &Signer{priv: priv}
}

// Sign produces a compact recoverable signature over the given digest.
func (s *Signer) Sign(digest []byte) (Signature, error) {
	if len(digest) != DigestLength {
		return nil, errors.Wrapf(ErrInvalidSignature, "digest must be %d bytes, got %d", DigestLength, len(digest))
	}
	sig, err := btcec.SignCompact(btcec.S256(), s.priv, digest, false)
	if err != nil {
		return nil, errors.Wrap(err, "sign compact")
	}
	return Signature(sig), nil
}

// PublicKey returns the public part of the key pair.
func (s *Signer) PublicKey() *btcec.PublicKey {
	return s.priv.PubKey()
}

// Address returns the identifier other parties recover from signatures
// made by this signer.
func (s *Signer) Address() multisig.Address {
	return PubKeyAddress(s.PublicKey())
}
