package multisig

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/iov-one/multisig/errors"
)

// AddressLength is the length in bytes of every address and asset ID. The
// engine identifies signers, contracts and assets by 256 bit values.
const AddressLength = 32

// Address is a 256 bit identifier of a signer, an account or a contract.
type Address []byte

// NewAddressFromString parses a hex encoded address.
func NewAddressFromString(s string) (Address, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot decode address %q", s)
	}
	a := Address(raw)
	return a, a.Validate()
}

// Validate returns an error if the address does not have the expected
// length.
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address must be %d bytes, got %d", AddressLength, len(a))
	}
	return nil
}

// Equals checks if both addresses carry the same identifier.
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Compare orders addresses by their byte representation. This order is
// the one signature lists must be submitted in.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a, b)
}

// Clone returns an independent copy of the address.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	cp := make(Address, len(a))
	copy(cp, a)
	return cp
}

func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return fmt.Sprintf("%X", []byte(a))
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	if len(enc) == 0 {
		*a = nil
		return nil
	}
	val, err := hex.DecodeString(enc)
	if err != nil {
		return errors.Wrap(errors.ErrInput, "address must be hex encoded")
	}
	*a = val
	return nil
}

// AssetID is a 256 bit identifier of a transferable asset.
type AssetID = Address

// Identity points either at a plain account address or at a contract.
// Transfers accept both kinds, external calls require a contract.
type Identity struct {
	ID Address
	// Contract is true when the identity names a callable contract
	// rather than a plain account.
	Contract bool
}

// AddressIdentity wraps an account address as an identity.
func AddressIdentity(a Address) Identity {
	return Identity{ID: a}
}

// ContractIdentity wraps a contract address as an identity.
func ContractIdentity(a Address) Identity {
	return Identity{ID: a, Contract: true}
}

// Validate returns an error unless the identifier is well formed.
func (i Identity) Validate() error {
	return errors.Wrap(i.ID.Validate(), "identity")
}

func (i Identity) String() string {
	if i.Contract {
		return fmt.Sprintf("contract/%s", i.ID)
	}
	return fmt.Sprintf("address/%s", i.ID)
}
