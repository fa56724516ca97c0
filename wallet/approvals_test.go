package wallet

import (
	"testing"

	multisig "github.com/iov-one/multisig"
	"github.com/iov-one/multisig/crypto"
	"github.com/iov-one/multisig/multisigtest"
	"github.com/iov-one/multisig/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

func testDigest(label string) []byte {
	d := sha3.Sum256([]byte(label))
	return d[:]
}

func registerWeights(t testing.TB, db multisig.KVStore, signers []*crypto.Signer, weights []uint64) {
	t.Helper()
	for i, s := range signers {
		require.NoError(t, saveWeight(db, s.Address(), weights[i]))
	}
}

func TestCountApprovalsSumsRegisteredWeights(t *testing.T) {
	db := store.MemStore()
	signers := multisigtest.NewSigners(3)
	registerWeights(t, db, signers, []uint64{1, 2, 3})

	digest := testDigest("action")
	sigs := multisigtest.SignAll(t, signers, digest)

	// Threshold above the total weight: all signatures are consumed.
	count, err := CountApprovals(db, sigs, digest, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), count)
}

func TestCountApprovalsRejectsUnsortedSigners(t *testing.T) {
	db := store.MemStore()
	signers := multisigtest.NewSigners(3)
	registerWeights(t, db, signers, []uint64{1, 2, 3})

	digest := testDigest("action")
	sigs := multisigtest.SignAll(t, signers, digest)

	// Reversing the canonical order must abort the whole call,
	// regardless of weights.
	reversed := []crypto.Signature{sigs[2], sigs[1], sigs[0]}
	_, err := CountApprovals(db, reversed, digest, 100)
	assert.True(t, ErrSignerOrdering.Is(err), "got %+v", err)

	swapped := []crypto.Signature{sigs[1], sigs[0], sigs[2]}
	_, err = CountApprovals(db, swapped, digest, 100)
	assert.True(t, ErrSignerOrdering.Is(err), "got %+v", err)
}

func TestCountApprovalsRejectsDuplicateSigner(t *testing.T) {
	db := store.MemStore()
	signers := multisigtest.NewSigners(2)
	registerWeights(t, db, signers, []uint64{1, 2})

	digest := testDigest("action")
	sigs := multisigtest.SignAll(t, signers, digest)

	doubled := []crypto.Signature{sigs[0], sigs[0], sigs[1]}
	_, err := CountApprovals(db, doubled, digest, 100)
	assert.True(t, ErrSignerOrdering.Is(err), "got %+v", err)
}

func TestCountApprovalsStopsEarly(t *testing.T) {
	db := store.MemStore()
	// The first signer in canonical order carries enough weight to meet
	// the threshold alone.
	sorted := multisigtest.SortSigners(multisigtest.NewSigners(2))
	registerWeights(t, db, sorted, []uint64{10, 1})

	digest := testDigest("action")
	sigs := multisigtest.SignAll(t, sorted, digest)

	// Replace the trailing signature with garbage. If counting stops
	// once the threshold is met, the garbage is never recovered.
	sigs[1] = make(crypto.Signature, crypto.SignatureLength)

	count, err := CountApprovals(db, sigs, digest, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), count)
}

func TestCountApprovalsUnregisteredSignerCountsZero(t *testing.T) {
	db := store.MemStore()
	signers := multisigtest.NewSigners(2)
	// Only the signers themselves are registered; a third stranger
	// signs too but contributes nothing.
	registerWeights(t, db, signers, []uint64{4, 5})
	stranger := multisigtest.NewSigner()

	digest := testDigest("action")
	all := append(signers, stranger)
	sigs := multisigtest.SignAll(t, all, digest)

	count, err := CountApprovals(db, sigs, digest, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), count)
}
