package multisig

import (
	"fmt"

	"github.com/iov-one/multisig/errors"
)

// User pairs a registered address with its voting weight. Weight zero
// means the address is not a participant for counting purposes, although
// the record may remain stored.
type User struct {
	Address Address
	Weight  uint64
}

// Validate returns an error unless the user address is well formed. A
// zero weight is valid and removes the user from approval counting.
func (u User) Validate() error {
	return errors.Wrap(u.Address.Validate(), "user")
}

func (u User) String() string {
	return fmt.Sprintf("%s:%d", u.Address, u.Weight)
}
