package multisigtest

import (
	"fmt"
	"sort"

	multisig "github.com/iov-one/multisig"
	"github.com/iov-one/multisig/crypto"
)

// NewSigner returns a signer with a fresh random key.
func NewSigner() *crypto.Signer {
	s, err := crypto.NewSigner()
	if err != nil {
		panic(err)
	}
	return s
}

// NewSigners returns n deterministic signers. Repeated calls with the
// same n return the same keys, which keeps test failures reproducible.
func NewSigners(n int) []*crypto.Signer {
	signers := make([]*crypto.Signer, n)
	for i := range signers {
		signers[i] = crypto.SignerFromSeed([]byte(fmt.Sprintf("multisigtest-%d", i)))
	}
	return signers
}

// NewAddress returns a deterministic address derived from the given
// seed, for cases where no key material is needed.
func NewAddress(seed string) multisig.Address {
	return crypto.SignerFromSeed([]byte(seed)).Address()
}

// SortSigners orders signers ascending by their address, the order
// signature lists must be submitted in.
func SortSigners(signers []*crypto.Signer) []*crypto.Signer {
	sorted := append([]*crypto.Signer{}, signers...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Address().Compare(sorted[j].Address()) < 0
	})
	return sorted
}

// SignAll produces one signature per signer over the given digest, in
// ascending signer order.
func SignAll(t fataler, signers []*crypto.Signer, digest []byte) []crypto.Signature {
	sigs := make([]crypto.Signature, 0, len(signers))
	for _, s := range SortSigners(signers) {
		sig, err := s.Sign(digest)
		if err != nil {
			t.Fatalf("cannot sign: %s", err)
		}
		sigs = append(sigs, sig)
	}
	return sigs
}

// fataler is the minimal subset of testing.TB the helpers need.
type fataler interface {
	Fatalf(string, ...interface{})
}
