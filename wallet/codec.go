package wallet

import (
	proto "github.com/gogo/protobuf/proto"
)

// Wire types for the schema declared in codec.proto. Serialized with the
// proto3 wire format, so the stored state stays readable by standard
// protobuf tooling.

// AuthState is the singleton persistent state of the engine. A zero
// nonce marks the uninitialized state; construction sets it to one and
// every successful mutation increments it by exactly one.
//
// Invariant: once Nonce >= 1, Threshold != 0 and
// Threshold <= TotalWeight hold before and after every mutation.
type AuthState struct {
	Nonce       uint64 `protobuf:"varint,1,opt,name=nonce,proto3" json:"nonce,omitempty"`
	Threshold   uint64 `protobuf:"varint,2,opt,name=threshold,proto3" json:"threshold,omitempty"`
	TotalWeight uint64 `protobuf:"varint,3,opt,name=total_weight,json=totalWeight,proto3" json:"total_weight,omitempty"`
}

func (m *AuthState) Reset()         { *m = AuthState{} }
func (m *AuthState) String() string { return proto.CompactTextString(m) }
func (*AuthState) ProtoMessage()    {}

// UserRecord stores the weight registered for one address. The address
// itself is part of the storage key.
type UserRecord struct {
	Weight uint64 `protobuf:"varint,1,opt,name=weight,proto3" json:"weight,omitempty"`
}

func (m *UserRecord) Reset()         { *m = UserRecord{} }
func (m *UserRecord) String() string { return proto.CompactTextString(m) }
func (*UserRecord) ProtoMessage()    {}

func init() {
	proto.RegisterType((*AuthState)(nil), "wallet.AuthState")
	proto.RegisterType((*UserRecord)(nil), "wallet.UserRecord")
}
