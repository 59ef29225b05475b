package guild

import (
	"encoding/json"
	"fmt"
	"math/big"

	"guildchain/crypto"
	"guildchain/storage"
)

// Ledger is the production CurrencyService: a single storage.Database
// holding one JSON-encoded balance record per account, keyed the same
// way KVStore keys member and proposal records. It is the guild-domain
// stand-in for a host-chain bank module; a real deployment wires the
// engine's CurrencyService to whatever native coin ledger the host
// already runs, of which this is the minimal free-standing version.
type Ledger struct {
	db storage.Database
}

// NewLedger wraps a storage.Database as a CurrencyService.
func NewLedger(db storage.Database) *Ledger {
	return &Ledger{db: db}
}

func ledgerKey(addr crypto.Address) []byte {
	return []byte("guild/ledger/balance/" + addr.String())
}

func (l *Ledger) balance(addr crypto.Address) (*big.Int, error) {
	raw, err := l.db.Get(ledgerKey(addr))
	if err != nil {
		return big.NewInt(0), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	bal, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("ledger: corrupt balance for %s", addr)
	}
	return bal, nil
}

func (l *Ledger) setBalance(addr crypto.Address, amount *big.Int) error {
	raw, err := json.Marshal(amount.String())
	if err != nil {
		return err
	}
	return l.db.Put(ledgerKey(addr), raw)
}

// FreeBalance reports addr's current balance, defaulting to zero for an
// account never seen before.
func (l *Ledger) FreeBalance(addr crypto.Address) (*big.Int, error) {
	return l.balance(addr)
}

// Reserve credits addr with amount out of nothing. Used only at genesis
// to seed the engine's module accounts; never called once a guild has
// live members.
func (l *Ledger) Reserve(addr crypto.Address, amount *big.Int) error {
	current, err := l.balance(addr)
	if err != nil {
		return err
	}
	return l.setBalance(addr, new(big.Int).Add(current, amount))
}

// Transfer moves amount from from to to. When keepAlive is true and the
// transfer would leave from's account at a balance below its minimum (as
// established by whatever Reserve call seeded it), the transfer still
// proceeds down to zero: this ledger has no existential-deposit concept
// of its own, so keepAlive is honored only as a documented no-op boundary
// the host-chain ledger this stands in for would enforce.
func (l *Ledger) Transfer(from, to crypto.Address, amount *big.Int, keepAlive bool) error {
	_ = keepAlive
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	fromBal, err := l.balance(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return fmt.Errorf("ledger: insufficient balance for %s: have %s, need %s", from, fromBal, amount)
	}
	toBal, err := l.balance(to)
	if err != nil {
		return err
	}
	if err := l.setBalance(from, new(big.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	return l.setBalance(to, new(big.Int).Add(toBal, amount))
}
