package wallet

import (
	proto "github.com/gogo/protobuf/proto"
	multisig "github.com/iov-one/multisig"
	"github.com/iov-one/multisig/errors"
)

var (
	stateKey     = []byte("_wallet:state")
	weightPrefix = []byte("_wallet:weight:")
)

func weightKey(addr multisig.Address) []byte {
	return append(append([]byte{}, weightPrefix...), addr...)
}

// loadState returns the singleton engine state. A missing record is the
// uninitialized state and is returned as a zero value, never as an
// error.
func loadState(db multisig.ReadOnlyKVStore) (AuthState, error) {
	var st AuthState
	raw, err := db.Get(stateKey)
	if err != nil {
		return st, errors.Wrap(err, "load state")
	}
	if raw == nil {
		return st, nil
	}
	if err := proto.Unmarshal(raw, &st); err != nil {
		return st, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return st, nil
}

// saveState persists the singleton state. The core invariant is checked
// on every write: an initialized state must carry a non-zero threshold
// covered by the total weight.
func saveState(db multisig.KVStore, st AuthState) error {
	if st.Nonce >= 1 {
		if st.Threshold == 0 {
			return errors.Wrap(ErrZeroThreshold, "state invariant")
		}
		if st.Threshold > st.TotalWeight {
			return errors.Wrap(ErrTotalWeight, "state invariant")
		}
	}
	raw, err := proto.Marshal(&st)
	if err != nil {
		return errors.Wrap(err, "marshal state")
	}
	return errors.Wrap(db.Set(stateKey, raw), "save state")
}

// loadWeight returns the registered weight of the given address, zero
// when unregistered.
func loadWeight(db multisig.ReadOnlyKVStore, addr multisig.Address) (uint64, error) {
	raw, err := db.Get(weightKey(addr))
	if err != nil {
		return 0, errors.Wrap(err, "load weight")
	}
	if raw == nil {
		return 0, nil
	}
	var rec UserRecord
	if err := proto.Unmarshal(raw, &rec); err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return rec.Weight, nil
}

func saveWeight(db multisig.KVStore, addr multisig.Address, weight uint64) error {
	rec := UserRecord{Weight: weight}
	raw, err := proto.Marshal(&rec)
	if err != nil {
		return errors.Wrap(err, "marshal weight")
	}
	return errors.Wrap(db.Set(weightKey(addr), raw), "save weight")
}

// Users returns all registered users in ascending address order,
// including those whose weight was set to zero.
func Users(db multisig.ReadOnlyKVStore) ([]multisig.User, error) {
	end := prefixEnd(weightPrefix)
	itr, err := db.Iterator(weightPrefix, end)
	if err != nil {
		return nil, errors.Wrap(err, "iterate weights")
	}
	defer itr.Release()

	var users []multisig.User
	for itr.Valid() {
		var rec UserRecord
		if err := proto.Unmarshal(itr.Value(), &rec); err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		addr := multisig.Address(itr.Key()[len(weightPrefix):]).Clone()
		users = append(users, multisig.User{Address: addr, Weight: rec.Weight})
		if err := itr.Next(); err != nil {
			return nil, errors.Wrap(err, "iterate weights")
		}
	}
	return users, nil
}

// prefixEnd returns the smallest key strictly greater than every key
// with the given prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte{}, prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
