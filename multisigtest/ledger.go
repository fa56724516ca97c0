package multisigtest

import (
	multisig "github.com/iov-one/multisig"
	"github.com/iov-one/multisig/errors"
)

// Transfer records one native value movement performed by the engine.
type Transfer struct {
	Amount uint64
	Asset  multisig.AssetID
	To     multisig.Identity
}

// Invocation records one external contract call performed by the
// engine.
type Invocation struct {
	Target             multisig.Address
	FunctionSelector   []byte
	Calldata           []byte
	SingleValueTypeArg bool
	Value              uint64
	Asset              multisig.AssetID
	Gas                uint64
}

// Ledger is an in-memory host environment. It tracks balances per
// asset, performs transfers against them and records every side effect
// and event for inspection.
type Ledger struct {
	contract multisig.Address
	balances map[string]uint64

	Transfers   []Transfer
	Invocations []Invocation
	Events      []multisig.Event

	// TransferErr and InvokeErr, when set, force the corresponding
	// operation to fail.
	TransferErr error
	InvokeErr   error
}

var _ multisig.Ledger = (*Ledger)(nil)

// NewLedger returns a ledger reporting the given contract identity.
func NewLedger(contract multisig.Address) *Ledger {
	return &Ledger{
		contract: contract,
		balances: make(map[string]uint64),
	}
}

// SetBalance fixes the balance the contract holds of the given asset.
func (l *Ledger) SetBalance(asset multisig.AssetID, amount uint64) {
	l.balances[asset.String()] = amount
}

func (l *Ledger) CurrentContract() multisig.Address {
	return l.contract
}

func (l *Ledger) BalanceOf(asset multisig.AssetID) (uint64, error) {
	return l.balances[asset.String()], nil
}

func (l *Ledger) Transfer(amount uint64, asset multisig.AssetID, to multisig.Identity) error {
	if l.TransferErr != nil {
		return l.TransferErr
	}
	balance := l.balances[asset.String()]
	if amount > balance {
		return errors.Wrapf(errors.ErrState, "balance %d, transfer %d", balance, amount)
	}
	l.balances[asset.String()] = balance - amount
	l.Transfers = append(l.Transfers, Transfer{
		Amount: amount,
		Asset:  asset,
		To:     to,
	})
	return nil
}

func (l *Ledger) Invoke(target multisig.Address, selector []byte, calldata []byte, singleValueTypeArg bool, value uint64, asset multisig.AssetID, gas uint64) error {
	if l.InvokeErr != nil {
		return l.InvokeErr
	}
	balance := l.balances[asset.String()]
	if value > balance {
		return errors.Wrapf(errors.ErrState, "balance %d, forwarded %d", balance, value)
	}
	l.balances[asset.String()] = balance - value
	l.Invocations = append(l.Invocations, Invocation{
		Target:             target,
		FunctionSelector:   selector,
		Calldata:           calldata,
		SingleValueTypeArg: singleValueTypeArg,
		Value:              value,
		Asset:              asset,
		Gas:                gas,
	})
	return nil
}

func (l *Ledger) Emit(ev multisig.Event) {
	l.Events = append(l.Events, ev)
}
