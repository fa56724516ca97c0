package wallet

import (
	"bytes"
	"testing"

	multisig "github.com/iov-one/multisig"
	"github.com/iov-one/multisig/multisigtest"
	"github.com/iov-one/multisig/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRoundtrip(t *testing.T) {
	db := store.MemStore()

	// A fresh store reports the uninitialized zero state.
	st, err := loadState(db)
	require.NoError(t, err)
	assert.Equal(t, AuthState{}, st)

	want := AuthState{Nonce: 4, Threshold: 3, TotalWeight: 9}
	require.NoError(t, saveState(db, want))

	got, err := loadState(db)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveStateEnforcesInvariant(t *testing.T) {
	db := store.MemStore()

	err := saveState(db, AuthState{Nonce: 1, Threshold: 0, TotalWeight: 9})
	assert.True(t, ErrZeroThreshold.Is(err), "got %+v", err)

	err = saveState(db, AuthState{Nonce: 1, Threshold: 10, TotalWeight: 9})
	assert.True(t, ErrTotalWeight.Is(err), "got %+v", err)

	// The uninitialized state is exempt.
	require.NoError(t, saveState(db, AuthState{}))
}

func TestWeightRoundtrip(t *testing.T) {
	db := store.MemStore()
	addr := multisigtest.NewAddress("alice")

	got, err := loadWeight(db, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got)

	require.NoError(t, saveWeight(db, addr, 7))
	got, err = loadWeight(db, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), got)

	// Zero weight is a stored value, not a deletion.
	require.NoError(t, saveWeight(db, addr, 0))
	users, err := Users(db)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, uint64(0), users[0].Weight)
}

func TestUsersListsAscending(t *testing.T) {
	db := store.MemStore()

	addrs := []multisig.Address{
		multisigtest.NewAddress("a"),
		multisigtest.NewAddress("b"),
		multisigtest.NewAddress("c"),
	}
	// Insert in an order unrelated to the address order.
	require.NoError(t, saveWeight(db, addrs[2], 3))
	require.NoError(t, saveWeight(db, addrs[0], 1))
	require.NoError(t, saveWeight(db, addrs[1], 2))

	users, err := Users(db)
	require.NoError(t, err)
	require.Len(t, users, 3)
	for i := 1; i < len(users); i++ {
		assert.True(t, users[i-1].Address.Compare(users[i].Address) < 0)
	}

	// Unrelated records outside the weight namespace are ignored.
	require.NoError(t, db.Set([]byte("_wallet:statezzz"), []byte{1}))
	users, err = Users(db)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestPrefixEnd(t *testing.T) {
	assert.True(t, bytes.Equal([]byte("abd"), prefixEnd([]byte("abc"))))
	assert.True(t, bytes.Equal([]byte("ac"), prefixEnd([]byte("ab\xff"))))
	assert.Nil(t, prefixEnd([]byte("\xff\xff")))
}
