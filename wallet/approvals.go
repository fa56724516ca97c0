package wallet

import (
	multisig "github.com/iov-one/multisig"
	"github.com/iov-one/multisig/crypto"
	"github.com/iov-one/multisig/errors"
)

// CountApprovals consumes an ordered list of signatures over the given
// digest and returns the summed weight of the recovered signers.
//
// Signers must be submitted in strictly ascending order of their
// recovered identifier. The ordering requirement rejects exact
// duplicates with O(1) work per signature and gives callers a canonical
// way to submit the same approval set. Any out-of-order or repeated
// signer aborts the whole call with ErrSignerOrdering.
//
// Counting stops as soon as the running sum reaches the threshold;
// remaining signatures are neither verified nor counted. Unregistered
// signers contribute weight zero.
func CountApprovals(db multisig.ReadOnlyKVStore, sigs []crypto.Signature, digest []byte, threshold uint64) (uint64, error) {
	var (
		prev  multisig.Address
		count uint64
	)
	for _, sig := range sigs {
		signer, err := crypto.RecoverSigner(digest, sig)
		if err != nil {
			return 0, err
		}
		if prev.Compare(signer) >= 0 {
			return 0, errors.Wrapf(ErrSignerOrdering, "signer %s", signer)
		}
		prev = signer

		weight, err := loadWeight(db, signer)
		if err != nil {
			return 0, err
		}
		count += weight
		if count >= threshold {
			break
		}
	}
	return count, nil
}
