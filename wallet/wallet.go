package wallet

import (
	"github.com/tendermint/tendermint/libs/log"

	multisig "github.com/iov-one/multisig"
	"github.com/iov-one/multisig/crypto"
	"github.com/iov-one/multisig/errors"
	"github.com/iov-one/multisig/sighash"
)

// Wallet is the weighted-threshold authorization engine. It owns the
// nonce, the active threshold, the total registered weight and the
// address to weight mapping, all persisted through the given store.
//
// Every privileged operation runs as one atomic unit: requirements are
// validated against a cache wrap and nothing is committed unless all of
// them hold. Approval verification and the nonce commit always happen
// before the externally observable side effect, so a reentrant call
// made during an external invocation observes the advanced nonce and
// cannot replay the same signatures.
type Wallet struct {
	ledger           multisig.Ledger
	logger           log.Logger
	initialThreshold uint64
}

// Option configures a Wallet during construction.
type Option func(*Wallet)

// WithLogger replaces the default nop logger.
func WithLogger(l log.Logger) Option {
	return func(w *Wallet) {
		w.logger = l
	}
}

// NewWallet returns an engine bound to the given host ledger. The
// initial threshold is the deployment time constant applied during
// initialization.
func NewWallet(ledger multisig.Ledger, initialThreshold uint64, opts ...Option) *Wallet {
	w := &Wallet{
		ledger:           ledger,
		logger:           log.NewNopLogger(),
		initialThreshold: initialThreshold,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Initialize registers the given users and activates the engine.
// Callable once: a second attempt fails with ErrReinitialize. The total
// weight accumulates every input entry while the stored per-address
// weight is last write wins, so duplicate addresses in the input
// inflate the total. Feeding duplicates is the caller's mistake.
func (w *Wallet) Initialize(db multisig.CacheableKVStore, users []multisig.User) error {
	return w.atomically(db, func(cache multisig.KVStore) error {
		st, err := loadState(cache)
		if err != nil {
			return err
		}
		if st.Nonce != 0 {
			return errors.Wrapf(ErrReinitialize, "nonce %d", st.Nonce)
		}
		if w.initialThreshold == 0 {
			return errors.Wrap(ErrZeroThreshold, "initial threshold")
		}

		var total uint64
		for _, u := range users {
			if err := u.Validate(); err != nil {
				return err
			}
			if total+u.Weight < total {
				return errors.Wrap(errors.ErrOverflow, "total weight")
			}
			total += u.Weight
			if err := saveWeight(cache, u.Address, u.Weight); err != nil {
				return err
			}
		}
		if w.initialThreshold > total {
			return errors.Wrapf(ErrTotalWeight, "threshold %d, total %d", w.initialThreshold, total)
		}

		st = AuthState{
			Nonce:       1,
			Threshold:   w.initialThreshold,
			TotalWeight: total,
		}
		if err := saveState(cache, st); err != nil {
			return err
		}
		w.logger.Info("wallet initialized",
			"threshold", st.Threshold, "total_weight", st.TotalWeight, "users", len(users))
		return nil
	})
}

// SetThreshold changes the approval threshold to newThreshold, provided
// the signatures authorize it against the current threshold.
func (w *Wallet) SetThreshold(db multisig.CacheableKVStore, sigs []crypto.Signature, newThreshold uint64) error {
	var ev multisig.Event
	err := w.atomically(db, func(cache multisig.KVStore) error {
		st, err := w.activeState(cache)
		if err != nil {
			return err
		}
		if newThreshold == 0 {
			return errors.Wrap(ErrZeroThreshold, "new threshold")
		}
		if newThreshold > st.TotalWeight {
			return errors.Wrapf(ErrTotalWeight, "threshold %d, total %d", newThreshold, st.TotalWeight)
		}

		digest, err := sighash.Hash(sighash.ThresholdPayload{
			Contract:  w.ledger.CurrentContract(),
			Nonce:     st.Nonce,
			Threshold: newThreshold,
		})
		if err != nil {
			return err
		}
		// The change is approved against the threshold it replaces.
		if err := w.requireApprovals(cache, sigs, digest, st.Threshold); err != nil {
			return err
		}

		previous := st.Threshold
		ev = thresholdChangedEvent(st.Nonce, previous, newThreshold)
		st.Threshold = newThreshold
		st.Nonce++
		if err := saveState(cache, st); err != nil {
			return err
		}
		w.logger.Info("threshold changed",
			"nonce", st.Nonce, "previous", previous, "threshold", newThreshold)
		return nil
	})
	if err != nil {
		return err
	}
	w.ledger.Emit(ev)
	return nil
}

// SetWeight changes the voting weight of a single user, provided the
// signatures authorize it. A reduction that would drop the total weight
// below the active threshold is rejected with no state change.
func (w *Wallet) SetWeight(db multisig.CacheableKVStore, sigs []crypto.Signature, user multisig.User) error {
	var ev multisig.Event
	err := w.atomically(db, func(cache multisig.KVStore) error {
		st, err := w.activeState(cache)
		if err != nil {
			return err
		}
		if err := user.Validate(); err != nil {
			return err
		}

		digest, err := sighash.Hash(sighash.WeightPayload{
			Contract: w.ledger.CurrentContract(),
			Nonce:    st.Nonce,
			User:     user,
		})
		if err != nil {
			return err
		}
		if err := w.requireApprovals(cache, sigs, digest, st.Threshold); err != nil {
			return err
		}

		old, err := loadWeight(cache, user.Address)
		if err != nil {
			return err
		}
		total := st.TotalWeight - old
		if total+user.Weight < total {
			return errors.Wrap(errors.ErrOverflow, "total weight")
		}
		total += user.Weight
		if total < st.Threshold {
			return errors.Wrapf(ErrTotalWeight, "threshold %d, total %d", st.Threshold, total)
		}

		if err := saveWeight(cache, user.Address, user.Weight); err != nil {
			return err
		}
		ev = weightChangedEvent(st.Nonce, user)
		st.TotalWeight = total
		st.Nonce++
		if err := saveState(cache, st); err != nil {
			return err
		}
		w.logger.Info("weight changed",
			"nonce", st.Nonce, "address", user.Address, "weight", user.Weight, "total_weight", total)
		return nil
	})
	if err != nil {
		return err
	}
	w.ledger.Emit(ev)
	return nil
}

// ExecuteTransaction performs an authorized native transfer, or a value
// forwarding external call when call parameters are present.
//
// A call against a non-contract target is fatal: the diagnostic event is
// emitted and the whole call aborts through errors.Fatal. The host
// boundary converts it back into an error with errors.Recover.
func (w *Wallet) ExecuteTransaction(db multisig.CacheableKVStore, call *sighash.CallParams, sigs []crypto.Signature, target multisig.Identity, transfer sighash.TransferParams) error {
	if call != nil && !target.Contract {
		w.ledger.Emit(callTargetRejectedEvent(target))
		errors.Fatal(errors.Wrapf(ErrCallTarget, "target %s", target.ID))
	}

	var ev multisig.Event
	err := w.atomically(db, func(cache multisig.KVStore) error {
		st, err := w.activeState(cache)
		if err != nil {
			return err
		}
		if call == nil && transfer.Value == nil {
			return errors.Wrap(ErrMissingValue, "transfer")
		}
		if transfer.Value != nil {
			balance, err := w.ledger.BalanceOf(transfer.Asset)
			if err != nil {
				return err
			}
			if *transfer.Value > balance {
				return errors.Wrapf(ErrInsufficientFunds, "balance %d, value %d", balance, *transfer.Value)
			}
		}

		digest, err := sighash.Hash(sighash.TransactionPayload{
			Contract: w.ledger.CurrentContract(),
			Nonce:    st.Nonce,
			Call:     call,
			Target:   target,
			Transfer: transfer,
		})
		if err != nil {
			return err
		}
		if err := w.requireApprovals(cache, sigs, digest, st.Threshold); err != nil {
			return err
		}

		ev = transactionExecutedEvent(st.Nonce, target, transfer)
		st.Nonce++
		return saveState(cache, st)
	})
	if err != nil {
		return err
	}

	// The nonce is committed: from here on the same signatures can not
	// be replayed, even by a reentrant call from the invoked target.
	if call == nil {
		err = w.ledger.Transfer(*transfer.Value, transfer.Asset, target)
		if err != nil {
			return errors.Wrap(err, "transfer")
		}
		w.logger.Info("transaction executed", "target", target, "value", *transfer.Value)
	} else {
		var value uint64
		if transfer.Value != nil {
			value = *transfer.Value
		}
		err = w.ledger.Invoke(target.ID, call.FunctionSelector, call.Calldata,
			call.SingleValueTypeArg, value, transfer.Asset, call.ForwardedGas)
		if err != nil {
			return errors.Wrap(err, "invoke")
		}
		w.logger.Info("transaction executed", "target", target, "value", value, "call", true)
	}
	w.ledger.Emit(ev)
	return nil
}

// Nonce returns the current nonce, zero when uninitialized.
func (w *Wallet) Nonce(db multisig.ReadOnlyKVStore) (uint64, error) {
	st, err := loadState(db)
	return st.Nonce, err
}

// Threshold returns the active approval threshold.
func (w *Wallet) Threshold(db multisig.ReadOnlyKVStore) (uint64, error) {
	st, err := loadState(db)
	return st.Threshold, err
}

// TotalWeight returns the sum of all registered weights.
func (w *Wallet) TotalWeight(db multisig.ReadOnlyKVStore) (uint64, error) {
	st, err := loadState(db)
	return st.TotalWeight, err
}

// ApprovalWeight returns the weight the given address contributes to
// approvals, zero when unregistered.
func (w *Wallet) ApprovalWeight(db multisig.ReadOnlyKVStore, addr multisig.Address) (uint64, error) {
	return loadWeight(db, addr)
}

// Balance delegates to the host ledger.
func (w *Wallet) Balance(asset multisig.AssetID) (uint64, error) {
	return w.ledger.BalanceOf(asset)
}

// ThresholdHash returns the digest signers must sign to approve a
// threshold change, built from the current nonce and contract identity.
func (w *Wallet) ThresholdHash(db multisig.ReadOnlyKVStore, newThreshold uint64) ([]byte, error) {
	st, err := loadState(db)
	if err != nil {
		return nil, err
	}
	return sighash.Hash(sighash.ThresholdPayload{
		Contract:  w.ledger.CurrentContract(),
		Nonce:     st.Nonce,
		Threshold: newThreshold,
	})
}

// WeightHash returns the digest signers must sign to approve a weight
// change.
func (w *Wallet) WeightHash(db multisig.ReadOnlyKVStore, user multisig.User) ([]byte, error) {
	st, err := loadState(db)
	if err != nil {
		return nil, err
	}
	return sighash.Hash(sighash.WeightPayload{
		Contract: w.ledger.CurrentContract(),
		Nonce:    st.Nonce,
		User:     user,
	})
}

// TransactionHash returns the digest signers must sign to approve a
// transaction.
func (w *Wallet) TransactionHash(db multisig.ReadOnlyKVStore, call *sighash.CallParams, target multisig.Identity, transfer sighash.TransferParams) ([]byte, error) {
	st, err := loadState(db)
	if err != nil {
		return nil, err
	}
	return sighash.Hash(sighash.TransactionPayload{
		Contract: w.ledger.CurrentContract(),
		Nonce:    st.Nonce,
		Call:     call,
		Target:   target,
		Transfer: transfer,
	})
}

// activeState loads the state and requires the engine to be
// initialized.
func (w *Wallet) activeState(db multisig.ReadOnlyKVStore) (AuthState, error) {
	st, err := loadState(db)
	if err != nil {
		return st, err
	}
	if st.Nonce == 0 {
		return st, errors.Wrap(errors.ErrState, "not initialized")
	}
	return st, nil
}

// requireApprovals counts approvals over the digest and fails unless
// the summed weight meets the threshold.
func (w *Wallet) requireApprovals(db multisig.ReadOnlyKVStore, sigs []crypto.Signature, digest []byte, threshold uint64) error {
	count, err := CountApprovals(db, sigs, digest, threshold)
	if err != nil {
		return err
	}
	w.logger.Debug("approvals counted", "weight", count, "threshold", threshold)
	if count < threshold {
		return errors.Wrapf(ErrInsufficientApprovals, "counted %d, threshold %d", count, threshold)
	}
	return nil
}

// atomically runs fn against a cache wrap of db, committing only when
// fn succeeds. Any failed requirement leaves the store untouched.
func (w *Wallet) atomically(db multisig.CacheableKVStore, fn func(multisig.KVStore) error) error {
	cache := db.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	return errors.Wrap(cache.Write(), "commit")
}
