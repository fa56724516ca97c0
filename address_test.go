package multisig

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/multisig/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressValidate(t *testing.T) {
	cases := map[string]struct {
		addr    Address
		wantErr *errors.Error
	}{
		"valid length":   {addr: make(Address, AddressLength), wantErr: nil},
		"nil address":    {addr: nil, wantErr: errors.ErrInput},
		"too short":      {addr: make(Address, 20), wantErr: errors.ErrInput},
		"too long":       {addr: make(Address, 33), wantErr: errors.ErrInput},
		"single byte":    {addr: Address{1}, wantErr: errors.ErrInput},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.addr.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
			}
		})
	}
}

func TestAddressCompare(t *testing.T) {
	low := make(Address, AddressLength)
	low[0] = 1
	high := make(Address, AddressLength)
	high[0] = 2

	assert.True(t, low.Compare(high) < 0)
	assert.True(t, high.Compare(low) > 0)
	assert.True(t, low.Compare(low.Clone()) == 0)

	// A nil address sorts before any real one, which makes it the
	// minimum possible previous-signer value.
	var zero Address
	assert.True(t, zero.Compare(low) < 0)
}

func TestAddressJSONRoundtrip(t *testing.T) {
	addr, err := NewAddressFromString(
		"aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899")
	require.NoError(t, err)

	raw, err := json.Marshal(addr)
	require.NoError(t, err)

	var restored Address
	require.NoError(t, json.Unmarshal(raw, &restored))
	assert.True(t, addr.Equals(restored))
}

func TestNewAddressFromStringRejectsGarbage(t *testing.T) {
	for _, enc := range []string{"not-hex", "aabb", ""} {
		if _, err := NewAddressFromString(enc); err == nil {
			t.Fatalf("address %q must not parse", enc)
		}
	}
}

func TestIdentity(t *testing.T) {
	addr := make(Address, AddressLength)
	addr[0] = 7

	acc := AddressIdentity(addr)
	assert.False(t, acc.Contract)
	require.NoError(t, acc.Validate())

	con := ContractIdentity(addr)
	assert.True(t, con.Contract)
	require.NoError(t, con.Validate())

	assert.NotEqual(t, acc.String(), con.String())

	bad := AddressIdentity(Address{1, 2, 3})
	assert.Error(t, bad.Validate())
}

func TestUserValidate(t *testing.T) {
	addr := make(Address, AddressLength)
	require.NoError(t, User{Address: addr, Weight: 5}.Validate())
	// Weight zero stays valid, it only removes the user from counting.
	require.NoError(t, User{Address: addr}.Validate())
	assert.Error(t, User{Address: Address{1}, Weight: 5}.Validate())
}
