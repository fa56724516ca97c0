package wallet

import (
	"testing"

	multisig "github.com/iov-one/multisig"
	"github.com/iov-one/multisig/crypto"
	"github.com/iov-one/multisig/errors"
	"github.com/iov-one/multisig/multisigtest"
	"github.com/iov-one/multisig/sighash"
	"github.com/iov-one/multisig/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture wires an initialized wallet with signers sorted in canonical
// order and weights assigned by that order.
type fixture struct {
	wallet  *Wallet
	db      multisig.CacheableKVStore
	ledger  *multisigtest.Ledger
	signers []*crypto.Signer
}

func newFixture(t testing.TB, threshold uint64, weights ...uint64) *fixture {
	t.Helper()

	ledger := multisigtest.NewLedger(multisigtest.NewAddress("the-contract"))
	w := NewWallet(ledger, threshold)
	db := store.MemStore()

	signers := multisigtest.SortSigners(multisigtest.NewSigners(len(weights)))
	users := make([]multisig.User, len(weights))
	for i, s := range signers {
		users[i] = multisig.User{Address: s.Address(), Weight: weights[i]}
	}
	require.NoError(t, w.Initialize(db, users))

	return &fixture{
		wallet:  w,
		db:      db,
		ledger:  ledger,
		signers: signers,
	}
}

func (f *fixture) nonce(t testing.TB) uint64 {
	t.Helper()
	nonce, err := f.wallet.Nonce(f.db)
	require.NoError(t, err)
	return nonce
}

func (f *fixture) sign(t testing.TB, digest []byte, idx ...int) []crypto.Signature {
	t.Helper()
	signers := make([]*crypto.Signer, 0, len(idx))
	for _, i := range idx {
		signers = append(signers, f.signers[i])
	}
	return multisigtest.SignAll(t, signers, digest)
}

func TestInitialize(t *testing.T) {
	f := newFixture(t, 3, 1, 2, 3)

	nonce, err := f.wallet.Nonce(f.db)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), nonce)

	threshold, err := f.wallet.Threshold(f.db)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), threshold)

	total, err := f.wallet.TotalWeight(f.db)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), total)

	for i, want := range []uint64{1, 2, 3} {
		got, err := f.wallet.ApprovalWeight(f.db, f.signers[i].Address())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// Unregistered addresses count as weight zero.
	got, err := f.wallet.ApprovalWeight(f.db, multisigtest.NewAddress("stranger"))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got)
}

func TestInitializeOnlyOnce(t *testing.T) {
	f := newFixture(t, 3, 1, 2, 3)

	err := f.wallet.Initialize(f.db, []multisig.User{
		{Address: f.signers[0].Address(), Weight: 100},
	})
	assert.True(t, ErrReinitialize.Is(err), "got %+v", err)

	// The original state is untouched.
	total, err := f.wallet.TotalWeight(f.db)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), total)
}

func TestInitializeZeroThreshold(t *testing.T) {
	ledger := multisigtest.NewLedger(multisigtest.NewAddress("the-contract"))
	w := NewWallet(ledger, 0)
	db := store.MemStore()

	err := w.Initialize(db, []multisig.User{
		{Address: multisigtest.NewAddress("a"), Weight: 1},
	})
	assert.True(t, ErrZeroThreshold.Is(err), "got %+v", err)
}

func TestInitializeThresholdAboveTotal(t *testing.T) {
	ledger := multisigtest.NewLedger(multisigtest.NewAddress("the-contract"))
	w := NewWallet(ledger, 10)
	db := store.MemStore()

	err := w.Initialize(db, []multisig.User{
		{Address: multisigtest.NewAddress("a"), Weight: 4},
		{Address: multisigtest.NewAddress("b"), Weight: 5},
	})
	assert.True(t, ErrTotalWeight.Is(err), "got %+v", err)

	// A failed construction leaves the engine uninitialized.
	nonce, err := w.Nonce(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), nonce)
}

func TestInitializeDuplicateAddresses(t *testing.T) {
	// A duplicate address accumulates into the total on every
	// occurrence while only its last weight stays stored.
	ledger := multisigtest.NewLedger(multisigtest.NewAddress("the-contract"))
	w := NewWallet(ledger, 1)
	db := store.MemStore()

	dup := multisigtest.NewAddress("dup")
	err := w.Initialize(db, []multisig.User{
		{Address: dup, Weight: 4},
		{Address: dup, Weight: 2},
	})
	require.NoError(t, err)

	total, err := w.TotalWeight(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), total)

	stored, err := w.ApprovalWeight(db, dup)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stored)
}

func TestSetThreshold(t *testing.T) {
	f := newFixture(t, 3, 1, 2, 3)

	digest, err := f.wallet.ThresholdHash(f.db, 5)
	require.NoError(t, err)
	sigs := f.sign(t, digest, 1, 2)

	require.NoError(t, f.wallet.SetThreshold(f.db, sigs, 5))

	threshold, err := f.wallet.Threshold(f.db)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), threshold)
	assert.Equal(t, uint64(2), f.nonce(t))

	require.Len(t, f.ledger.Events, 1)
	ev := f.ledger.Events[0]
	assert.Equal(t, EventThresholdChanged, ev.Type)
	assert.Equal(t, "nonce", string(ev.Tags[0].Key))
	assert.Equal(t, "1", string(ev.Tags[0].Value))
	assert.Equal(t, "previous_threshold", string(ev.Tags[1].Key))
	assert.Equal(t, "3", string(ev.Tags[1].Value))
	assert.Equal(t, "threshold", string(ev.Tags[2].Key))
	assert.Equal(t, "5", string(ev.Tags[2].Value))
}

func TestSetThresholdValidation(t *testing.T) {
	f := newFixture(t, 3, 1, 2, 3)

	digest, err := f.wallet.ThresholdHash(f.db, 5)
	require.NoError(t, err)
	sigs := f.sign(t, digest, 1, 2)

	err = f.wallet.SetThreshold(f.db, sigs, 0)
	assert.True(t, ErrZeroThreshold.Is(err), "got %+v", err)

	err = f.wallet.SetThreshold(f.db, sigs, 7)
	assert.True(t, ErrTotalWeight.Is(err), "got %+v", err)

	// Approvals below the current threshold.
	digest, err = f.wallet.ThresholdHash(f.db, 5)
	require.NoError(t, err)
	weak := f.sign(t, digest, 1)
	err = f.wallet.SetThreshold(f.db, weak, 5)
	assert.True(t, ErrInsufficientApprovals.Is(err), "got %+v", err)

	// Nothing was mutated along the way.
	assert.Equal(t, uint64(1), f.nonce(t))
	threshold, err := f.wallet.Threshold(f.db)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), threshold)
}

func TestSetThresholdRequiresInitialization(t *testing.T) {
	ledger := multisigtest.NewLedger(multisigtest.NewAddress("the-contract"))
	w := NewWallet(ledger, 3)
	db := store.MemStore()

	err := w.SetThreshold(db, nil, 5)
	assert.True(t, errors.ErrState.Is(err), "got %+v", err)
}

func TestStaleSignaturesCannotBeReplayed(t *testing.T) {
	f := newFixture(t, 3, 1, 2, 3)

	user := multisig.User{Address: f.signers[0].Address(), Weight: 2}
	digest, err := f.wallet.WeightHash(f.db, user)
	require.NoError(t, err)
	sigs := f.sign(t, digest, 1, 2)

	require.NoError(t, f.wallet.SetWeight(f.db, sigs, user))
	assert.Equal(t, uint64(2), f.nonce(t))

	// The same signature list for the same nominal action: the nonce
	// advanced, so the digest changed and the stale signatures cannot
	// satisfy it.
	err = f.wallet.SetWeight(f.db, sigs, user)
	require.Error(t, err)
	assert.Equal(t, uint64(2), f.nonce(t))
}

func TestSetWeight(t *testing.T) {
	f := newFixture(t, 3, 1, 2, 3)

	// Raise the weight of the first signer from 1 to 4.
	user := multisig.User{Address: f.signers[0].Address(), Weight: 4}
	digest, err := f.wallet.WeightHash(f.db, user)
	require.NoError(t, err)
	sigs := f.sign(t, digest, 1, 2)

	require.NoError(t, f.wallet.SetWeight(f.db, sigs, user))

	stored, err := f.wallet.ApprovalWeight(f.db, user.Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), stored)

	// Total changed by exactly new minus old.
	total, err := f.wallet.TotalWeight(f.db)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), total)
	assert.Equal(t, uint64(2), f.nonce(t))

	require.Len(t, f.ledger.Events, 1)
	assert.Equal(t, EventWeightChanged, f.ledger.Events[0].Type)
}

func TestSetWeightCannotBreakInvariant(t *testing.T) {
	f := newFixture(t, 3, 1, 2, 3)

	// Dropping the heaviest user to zero would leave total 3... which
	// still covers threshold 3. Drop another one too so it would not.
	user := multisig.User{Address: f.signers[2].Address(), Weight: 0}
	digest, err := f.wallet.WeightHash(f.db, user)
	require.NoError(t, err)
	sigs := f.sign(t, digest, 1, 2)
	require.NoError(t, f.wallet.SetWeight(f.db, sigs, user))

	user = multisig.User{Address: f.signers[1].Address(), Weight: 0}
	digest, err = f.wallet.WeightHash(f.db, user)
	require.NoError(t, err)
	sigs = f.sign(t, digest, 0, 1)
	err = f.wallet.SetWeight(f.db, sigs, user)
	assert.True(t, ErrTotalWeight.Is(err), "got %+v", err)

	// The rejected reduction left no partial state behind.
	stored, err := f.wallet.ApprovalWeight(f.db, user.Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stored)
	total, err := f.wallet.TotalWeight(f.db)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	assert.Equal(t, uint64(2), f.nonce(t))
}

func TestApprovalScenario(t *testing.T) {
	// Three users with weights 1, 2 and 3 and threshold 5: the two
	// heaviest together meet it, the two lightest do not.
	f := newFixture(t, 5, 1, 2, 3)

	user := multisig.User{Address: f.signers[0].Address(), Weight: 2}
	digest, err := f.wallet.WeightHash(f.db, user)
	require.NoError(t, err)

	weak := f.sign(t, digest, 0, 1)
	err = f.wallet.SetWeight(f.db, weak, user)
	assert.True(t, ErrInsufficientApprovals.Is(err), "got %+v", err)

	strong := f.sign(t, digest, 1, 2)
	require.NoError(t, f.wallet.SetWeight(f.db, strong, user))
}

func transferParams(asset multisig.AssetID, value uint64) sighash.TransferParams {
	return sighash.TransferParams{Asset: asset, Value: &value}
}

func TestExecuteTransfer(t *testing.T) {
	f := newFixture(t, 3, 1, 2, 3)
	asset := multisigtest.NewAddress("gold")
	f.ledger.SetBalance(asset, 100)
	target := multisig.AddressIdentity(multisigtest.NewAddress("payee"))
	transfer := transferParams(asset, 40)

	digest, err := f.wallet.TransactionHash(f.db, nil, target, transfer)
	require.NoError(t, err)
	sigs := f.sign(t, digest, 1, 2)

	require.NoError(t, f.wallet.ExecuteTransaction(f.db, nil, sigs, target, transfer))

	require.Len(t, f.ledger.Transfers, 1)
	assert.Equal(t, uint64(40), f.ledger.Transfers[0].Amount)
	assert.True(t, asset.Equals(f.ledger.Transfers[0].Asset))
	assert.Equal(t, target, f.ledger.Transfers[0].To)

	balance, err := f.wallet.Balance(asset)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), balance)
	assert.Equal(t, uint64(2), f.nonce(t))

	require.Len(t, f.ledger.Events, 1)
	assert.Equal(t, EventTransactionExecuted, f.ledger.Events[0].Type)
}

func TestExecuteTransferValidation(t *testing.T) {
	f := newFixture(t, 3, 1, 2, 3)
	asset := multisigtest.NewAddress("gold")
	f.ledger.SetBalance(asset, 30)
	target := multisig.AddressIdentity(multisigtest.NewAddress("payee"))

	// Missing value.
	noValue := sighash.TransferParams{Asset: asset}
	digest, err := f.wallet.TransactionHash(f.db, nil, target, noValue)
	require.NoError(t, err)
	sigs := f.sign(t, digest, 1, 2)
	err = f.wallet.ExecuteTransaction(f.db, nil, sigs, target, noValue)
	assert.True(t, ErrMissingValue.Is(err), "got %+v", err)

	// Value above the balance is rejected before any transfer occurs.
	tooMuch := transferParams(asset, 31)
	digest, err = f.wallet.TransactionHash(f.db, nil, target, tooMuch)
	require.NoError(t, err)
	sigs = f.sign(t, digest, 1, 2)
	err = f.wallet.ExecuteTransaction(f.db, nil, sigs, target, tooMuch)
	assert.True(t, ErrInsufficientFunds.Is(err), "got %+v", err)
	assert.Len(t, f.ledger.Transfers, 0)

	// Insufficient approvals.
	ok := transferParams(asset, 10)
	digest, err = f.wallet.TransactionHash(f.db, nil, target, ok)
	require.NoError(t, err)
	weak := f.sign(t, digest, 0)
	err = f.wallet.ExecuteTransaction(f.db, nil, weak, target, ok)
	assert.True(t, ErrInsufficientApprovals.Is(err), "got %+v", err)

	assert.Equal(t, uint64(1), f.nonce(t))
	assert.Len(t, f.ledger.Events, 0)
}

func TestExecuteCall(t *testing.T) {
	f := newFixture(t, 3, 1, 2, 3)
	asset := multisigtest.NewAddress("gold")
	f.ledger.SetBalance(asset, 100)
	target := multisig.ContractIdentity(multisigtest.NewAddress("callee"))
	transfer := transferParams(asset, 25)
	call := &sighash.CallParams{
		FunctionSelector:   []byte{0xaa, 0xbb, 0xcc, 0xdd},
		Calldata:           []byte{1, 2, 3},
		ForwardedGas:       5000,
		SingleValueTypeArg: true,
	}

	digest, err := f.wallet.TransactionHash(f.db, call, target, transfer)
	require.NoError(t, err)
	sigs := f.sign(t, digest, 1, 2)

	require.NoError(t, f.wallet.ExecuteTransaction(f.db, call, sigs, target, transfer))

	require.Len(t, f.ledger.Invocations, 1)
	inv := f.ledger.Invocations[0]
	assert.True(t, target.ID.Equals(inv.Target))
	assert.Equal(t, call.FunctionSelector, inv.FunctionSelector)
	assert.Equal(t, call.Calldata, inv.Calldata)
	assert.True(t, inv.SingleValueTypeArg)
	assert.Equal(t, uint64(25), inv.Value)
	assert.Equal(t, uint64(5000), inv.Gas)
	assert.Equal(t, uint64(2), f.nonce(t))

	require.Len(t, f.ledger.Events, 1)
	assert.Equal(t, EventTransactionExecuted, f.ledger.Events[0].Type)
}

func TestExecuteCallWithoutValue(t *testing.T) {
	f := newFixture(t, 3, 1, 2, 3)
	asset := multisigtest.NewAddress("gold")
	target := multisig.ContractIdentity(multisigtest.NewAddress("callee"))
	transfer := sighash.TransferParams{Asset: asset}
	call := &sighash.CallParams{FunctionSelector: []byte{1}, ForwardedGas: 100}

	digest, err := f.wallet.TransactionHash(f.db, call, target, transfer)
	require.NoError(t, err)
	sigs := f.sign(t, digest, 1, 2)

	require.NoError(t, f.wallet.ExecuteTransaction(f.db, call, sigs, target, transfer))
	require.Len(t, f.ledger.Invocations, 1)
	assert.Equal(t, uint64(0), f.ledger.Invocations[0].Value)
}

func TestExecuteCallAgainstPlainAddressIsFatal(t *testing.T) {
	f := newFixture(t, 3, 1, 2, 3)
	target := multisig.AddressIdentity(multisigtest.NewAddress("payee"))
	transfer := transferParams(multisigtest.NewAddress("gold"), 1)
	call := &sighash.CallParams{FunctionSelector: []byte{1}}

	var err error
	func() {
		defer errors.Recover(&err)
		_ = f.wallet.ExecuteTransaction(f.db, call, nil, target, transfer)
	}()
	assert.True(t, ErrCallTarget.Is(err), "got %+v", err)

	// The diagnostic event is written before the abort, and no state
	// was mutated.
	require.Len(t, f.ledger.Events, 1)
	assert.Equal(t, EventCallTargetRejected, f.ledger.Events[0].Type)
	assert.Equal(t, uint64(1), f.nonce(t))
}

func TestNonceAdvancesOnlyOnSuccess(t *testing.T) {
	f := newFixture(t, 3, 1, 2, 3)

	// One success, then a string of failures: the nonce moves once.
	digest, err := f.wallet.ThresholdHash(f.db, 4)
	require.NoError(t, err)
	require.NoError(t, f.wallet.SetThreshold(f.db, f.sign(t, digest, 1, 2), 4))
	assert.Equal(t, uint64(2), f.nonce(t))

	_ = f.wallet.SetThreshold(f.db, nil, 0)
	_ = f.wallet.SetWeight(f.db, nil, multisig.User{})
	_ = f.wallet.ExecuteTransaction(f.db, nil, nil,
		multisig.AddressIdentity(multisigtest.NewAddress("x")),
		sighash.TransferParams{Asset: multisigtest.NewAddress("gold")})
	assert.Equal(t, uint64(2), f.nonce(t))
}
