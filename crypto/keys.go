// Package crypto provides the address representation used to identify
// guild members, delegates, and the engine's internal treasury accounts.
// Signature verification is explicitly out of scope: callers reaching the
// engine are assumed pre-authenticated by the host.
package crypto

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
)

// AddressPrefix identifies the human-readable prefix of an encoded address.
type AddressPrefix string

const (
	// GuildPrefix is used for member and delegate addresses.
	GuildPrefix AddressPrefix = "guild"
	// ModulePrefix is used for the engine's own derived accounts
	// (guild_bank, custody).
	ModulePrefix AddressPrefix = "gmod"
)

// Address represents a 20-byte account identifier with a bech32 prefix.
type Address struct {
	prefix AddressPrefix
	bytes  []byte
}

// NewAddress constructs an Address from exactly 20 raw bytes.
func NewAddress(prefix AddressPrefix, b []byte) (Address, error) {
	if len(b) != 20 {
		return Address{}, fmt.Errorf("address must be 20 bytes long, got %d", len(b))
	}
	cloned := append([]byte(nil), b...)
	return Address{prefix: prefix, bytes: cloned}, nil
}

// MustNewAddress constructs an address and panics if the input is invalid.
func MustNewAddress(prefix AddressPrefix, b []byte) Address {
	addr, err := NewAddress(prefix, b)
	if err != nil {
		panic(err)
	}
	return addr
}

// ModuleAddress derives a deterministic 20-byte account from a fixed
// module identifier and a subpath, the way a module-account sub-account is
// carved out of a parent identifier. It never reads any mutable state, so
// the same (seed, subpath) pair always yields the same address.
func ModuleAddress(seed, subpath string) Address {
	sum := sha256.Sum256([]byte(seed + "/" + subpath))
	return MustNewAddress(ModulePrefix, sum[:20])
}

func (a Address) String() string {
	conv, err := bech32.ConvertBits(a.bytes, 8, 5, true)
	if err != nil {
		panic(err)
	}
	encoded, err := bech32.Encode(string(a.prefix), conv)
	if err != nil {
		panic(err)
	}
	return encoded
}

// Bytes returns a copy of the address's raw 20 bytes.
func (a Address) Bytes() []byte {
	return append([]byte(nil), a.bytes...)
}

// Prefix returns the human-readable prefix associated with the address.
func (a Address) Prefix() AddressPrefix {
	return a.prefix
}

// Equal reports whether two addresses carry the same prefix and bytes.
func (a Address) Equal(other Address) bool {
	if a.prefix != other.prefix || len(a.bytes) != len(other.bytes) {
		return false
	}
	for i := range a.bytes {
		if a.bytes[i] != other.bytes[i] {
			return false
		}
	}
	return true
}

// IsZero reports whether the address has never been assigned bytes.
func (a Address) IsZero() bool {
	return len(a.bytes) == 0
}

// DecodeAddress parses a bech32-encoded address string.
func DecodeAddress(addrStr string) (Address, error) {
	prefix, decoded, err := bech32.Decode(addrStr)
	if err != nil {
		return Address{}, fmt.Errorf("invalid bech32 string: %w", err)
	}
	conv, err := bech32.ConvertBits(decoded, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("error converting bits: %w", err)
	}
	addr, err := NewAddress(AddressPrefix(prefix), conv)
	if err != nil {
		return Address{}, err
	}
	return addr, nil
}
