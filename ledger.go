package multisig

import (
	common "github.com/tendermint/tendermint/libs/common"
)

// Tag is a single event attribute, in the shape the host log indexes.
type Tag = common.KVPair

// Event is an entry in the durable append-only log the host exposes to
// off-chain observers.
type Event struct {
	Type string
	Tags []Tag
}

// NewTag builds a single event attribute.
func NewTag(key, value string) Tag {
	return Tag{Key: []byte(key), Value: []byte(value)}
}

// Ledger is the interface the host execution environment must provide.
// The engine treats all of it as an audited external collaborator: it
// supplies the identity of the running contract, balance lookups, native
// value transfers, invocation of external callable targets and event
// emission.
type Ledger interface {
	// CurrentContract returns the identity of the running contract.
	// Every canonical digest is scoped to this value, which is what
	// makes signatures non-portable between contracts.
	CurrentContract() Address

	// BalanceOf returns the balance the running contract holds of the
	// given asset.
	BalanceOf(asset AssetID) (uint64, error)

	// Transfer moves amount of the given asset to the destination.
	// It fails on insufficient funds, aborting the caller.
	Transfer(amount uint64, asset AssetID, to Identity) error

	// Invoke calls into an external contract, forwarding the given value
	// and gas budget. The singleValueTypeArg hint describes the shape of
	// the encoded call data to the host ABI.
	Invoke(target Address, selector []byte, calldata []byte, singleValueTypeArg bool, value uint64, asset AssetID, gas uint64) error

	// Emit appends an event to the durable log.
	Emit(ev Event)
}
