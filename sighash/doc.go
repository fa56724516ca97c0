/*
Package sighash defines the canonical digests that approvals are signed
over.

Each signable action is one of three tagged payloads: a threshold
change, a weight change or a transaction. A payload is serialized with a
fixed, schema defined byte layout (field order and widths are part of
the contract, not of any in-memory representation) and digested with
SHA3-256. Every payload embeds the identity of the acting contract and
the nonce active at the moment of hashing. Two payloads differing in any
field therefore hash to different digests, which is what makes a
signature single use and non-portable between contracts.

The byte layout, all integers big endian:

	tag      1 byte   0x01 threshold, 0x02 weight, 0x03 transaction
	contract 32 bytes
	nonce    8 bytes

followed by the variant fields:

	threshold    new threshold, 8 bytes
	weight       user address 32 bytes, user weight 8 bytes
	transaction  call presence 1 byte, then if present: function
	             selector and calldata (each 4 byte length prefixed),
	             forwarded gas 8 bytes, single-value-type flag 1 byte;
	             target tag 1 byte (0x00 address, 0x01 contract) and
	             target id 32 bytes; asset 32 bytes; value presence
	             1 byte and value 8 bytes if present.

Variable length fields carry an explicit length prefix so that no two
distinct payloads can serialize to the same bytes.
*/
package sighash
