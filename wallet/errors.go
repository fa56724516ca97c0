package wallet

import (
	"github.com/iov-one/multisig/errors"
)

// Engine error codes take the 1000 range.
var (
	// ErrReinitialize is returned on a construction attempt against an
	// already initialized engine.
	ErrReinitialize = errors.Register(1000, "cannot reinitialize")

	// ErrZeroThreshold is returned when a threshold of zero is
	// configured or requested.
	ErrZeroThreshold = errors.Register(1001, "threshold cannot be zero")

	// ErrTotalWeight is returned when an operation would leave the total
	// registered weight below the active threshold.
	ErrTotalWeight = errors.Register(1002, "total weight cannot be less than threshold")

	// ErrInsufficientApprovals is returned when the summed weight of
	// valid signers does not meet the active threshold.
	ErrInsufficientApprovals = errors.Register(1003, "insufficient approvals")

	// ErrSignerOrdering is returned when recovered signers are not in
	// strictly ascending order. This also covers duplicate signers.
	ErrSignerOrdering = errors.Register(1004, "incorrect signer ordering")

	// ErrMissingValue is returned when a plain transfer carries no
	// value.
	ErrMissingValue = errors.Register(1005, "transfer requires a value")

	// ErrInsufficientFunds is returned when a transfer value exceeds the
	// current balance of the asset.
	ErrInsufficientFunds = errors.Register(1006, "insufficient asset amount")

	// ErrCallTarget marks an external call against a plain account.
	// This failure is fatal: it is raised through errors.Fatal after the
	// diagnostic event is emitted, and only the host boundary may
	// recover it.
	ErrCallTarget = errors.Register(1007, "call target is not a contract")
)
