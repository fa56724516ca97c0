package sighash

import (
	"bytes"
	"encoding/binary"

	"github.com/iov-one/multisig/errors"
	"golang.org/x/crypto/sha3"
)

// DigestLength is the length in bytes of every canonical digest.
const DigestLength = 32

// Variant tags. Part of the wire contract, never reorder.
const (
	tagThreshold   byte = 0x01
	tagWeight      byte = 0x02
	tagTransaction byte = 0x03

	targetAddress  byte = 0x00
	targetContract byte = 0x01
)

// Hash computes the canonical SHA3-256 digest of the given payload. The
// serialization is a total match over the closed payload set, so every
// variant has exactly one byte layout.
func Hash(p Payload) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch t := p.(type) {
	case ThresholdPayload:
		writeHeader(&buf, tagThreshold, t.Contract, t.Nonce)
		writeUint64(&buf, t.Threshold)
	case WeightPayload:
		writeHeader(&buf, tagWeight, t.Contract, t.Nonce)
		buf.Write(t.User.Address)
		writeUint64(&buf, t.User.Weight)
	case TransactionPayload:
		writeHeader(&buf, tagTransaction, t.Contract, t.Nonce)
		if t.Call == nil {
			buf.WriteByte(0)
		} else {
			buf.WriteByte(1)
			writeBytes(&buf, t.Call.FunctionSelector)
			writeBytes(&buf, t.Call.Calldata)
			writeUint64(&buf, t.Call.ForwardedGas)
			writeBool(&buf, t.Call.SingleValueTypeArg)
		}
		if t.Target.Contract {
			buf.WriteByte(targetContract)
		} else {
			buf.WriteByte(targetAddress)
		}
		buf.Write(t.Target.ID)
		buf.Write(t.Transfer.Asset)
		if t.Transfer.Value == nil {
			buf.WriteByte(0)
		} else {
			buf.WriteByte(1)
			writeUint64(&buf, *t.Transfer.Value)
		}
	default:
		// Unreachable: the payload set is sealed.
		return nil, errors.Wrapf(errors.ErrInput, "unknown payload %T", p)
	}

	digest := sha3.Sum256(buf.Bytes())
	return digest[:], nil
}

func writeHeader(buf *bytes.Buffer, tag byte, contract []byte, nonce uint64) {
	buf.WriteByte(tag)
	buf.Write(contract)
	writeUint64(buf, nonce)
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], v)
	buf.Write(raw[:])
}

// writeBytes writes a length prefixed variable size field. The explicit
// prefix keeps distinct payloads from serializing to the same bytes.
func writeBytes(buf *bytes.Buffer, raw []byte) {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(raw)))
	buf.Write(length[:])
	buf.Write(raw)
}

func writeBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}
