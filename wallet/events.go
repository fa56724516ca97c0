package wallet

import (
	"strconv"

	multisig "github.com/iov-one/multisig"
	"github.com/iov-one/multisig/sighash"
)

// Event types appended to the host log. Each successful mutation emits
// exactly one event carrying the nonce that authorized it.
const (
	EventThresholdChanged    = "threshold_changed"
	EventWeightChanged       = "weight_changed"
	EventTransactionExecuted = "transaction_executed"

	// EventCallTargetRejected is the diagnostic entry written right
	// before the fatal abort on a call against a non-contract target.
	EventCallTargetRejected = "call_target_rejected"
)

func thresholdChangedEvent(nonce, previous, threshold uint64) multisig.Event {
	return multisig.Event{
		Type: EventThresholdChanged,
		Tags: []multisig.Tag{
			tag("nonce", nonce),
			tag("previous_threshold", previous),
			tag("threshold", threshold),
		},
	}
}

func weightChangedEvent(nonce uint64, user multisig.User) multisig.Event {
	return multisig.Event{
		Type: EventWeightChanged,
		Tags: []multisig.Tag{
			tag("nonce", nonce),
			multisig.NewTag("address", user.Address.String()),
			tag("weight", user.Weight),
		},
	}
}

// transactionExecutedEvent deliberately excludes the call parameters:
// the host log cannot carry nested variable length data.
func transactionExecutedEvent(nonce uint64, target multisig.Identity, transfer sighash.TransferParams) multisig.Event {
	tags := []multisig.Tag{
		tag("nonce", nonce),
		multisig.NewTag("target", target.String()),
		multisig.NewTag("asset", transfer.Asset.String()),
	}
	if transfer.Value != nil {
		tags = append(tags, tag("value", *transfer.Value))
	}
	return multisig.Event{
		Type: EventTransactionExecuted,
		Tags: tags,
	}
}

func callTargetRejectedEvent(target multisig.Identity) multisig.Event {
	return multisig.Event{
		Type: EventCallTargetRejected,
		Tags: []multisig.Tag{
			multisig.NewTag("target", target.String()),
		},
	}
}

func tag(key string, value uint64) multisig.Tag {
	return multisig.NewTag(key, strconv.FormatUint(value, 10))
}
