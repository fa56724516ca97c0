package sighash

import (
	multisig "github.com/iov-one/multisig"
	"github.com/iov-one/multisig/errors"
)

// Payload is one of the three signable actions. The set of variants is
// closed: ThresholdPayload, WeightPayload and TransactionPayload.
type Payload interface {
	Validate() error

	// sealed keeps the variant set closed so that Hash can be a total
	// match over it.
	sealed()
}

var (
	_ Payload = ThresholdPayload{}
	_ Payload = WeightPayload{}
	_ Payload = TransactionPayload{}
)

// ThresholdPayload authorizes changing the approval threshold.
type ThresholdPayload struct {
	// Contract is the identity of the acting contract.
	Contract multisig.Address
	// Nonce is the value active at the moment of hashing.
	Nonce uint64
	// Threshold is the new minimum summed approval weight.
	Threshold uint64
}

func (p ThresholdPayload) Validate() error {
	return errors.Wrap(p.Contract.Validate(), "contract")
}

func (ThresholdPayload) sealed() {}

// WeightPayload authorizes changing a single user's voting weight.
type WeightPayload struct {
	Contract multisig.Address
	Nonce    uint64
	// User carries the target address together with its new weight.
	User multisig.User
}

func (p WeightPayload) Validate() error {
	if err := p.Contract.Validate(); err != nil {
		return errors.Wrap(err, "contract")
	}
	return p.User.Validate()
}

func (WeightPayload) sealed() {}

// CallParams describe an external contract call. Present only for the
// call flavor of a transaction.
type CallParams struct {
	// FunctionSelector identifies the function of the target contract.
	FunctionSelector []byte
	// Calldata is the encoded argument payload forwarded to the target.
	Calldata []byte
	// ForwardedGas is the gas budget forwarded with the call.
	ForwardedGas uint64
	// SingleValueTypeArg hints the host ABI about the calldata shape.
	SingleValueTypeArg bool
}

// TransferParams describe the value movement of a transaction. Value is
// optional for calls and mandatory for plain transfers.
type TransferParams struct {
	Asset multisig.AssetID
	Value *uint64
}

// TransactionPayload authorizes a native transfer or a value forwarding
// external call. A nil Call selects the transfer-only flavor.
type TransactionPayload struct {
	Contract multisig.Address
	Nonce    uint64
	Call     *CallParams
	Target   multisig.Identity
	Transfer TransferParams
}

func (p TransactionPayload) Validate() error {
	if err := p.Contract.Validate(); err != nil {
		return errors.Wrap(err, "contract")
	}
	if err := p.Target.Validate(); err != nil {
		return errors.Wrap(err, "target")
	}
	return errors.Wrap(p.Transfer.Asset.Validate(), "asset")
}

func (TransactionPayload) sealed() {}
