package guild

import (
	"math/big"

	"guildchain/crypto"
)

// CurrencyService is the external, host-provided account-balance ledger.
// The engine treats every call as infallible at the design level: the host
// guarantees the module accounts stay fundable, so a returned error here
// is a host-level fault rather than a recoverable engine condition.
type CurrencyService interface {
	Transfer(from, to crypto.Address, amount *big.Int, keepAlive bool) error
	FreeBalance(addr crypto.Address) (*big.Int, error)
	Reserve(addr crypto.Address, amount *big.Int) error
}

const (
	moduleSeed        = "guildchain/native/guild"
	guildBankSubpath  = "guild_bank"
	custodySubpath    = "custody"
)

// TreasuryAdapter mediates every balance movement the engine performs
// through two deterministic internal accounts: guild_bank (payable funds
// and processing rewards) and custody (tributes pending proposal outcome).
// Both addresses are derived once, at construction, from a fixed module
// identifier and a subpath — never recomputed per call.
type TreasuryAdapter struct {
	currency  CurrencyService
	guildBank crypto.Address
	custody   crypto.Address
}

// NewTreasuryAdapter derives the guild_bank and custody accounts and binds
// them to the supplied currency service.
func NewTreasuryAdapter(currency CurrencyService) *TreasuryAdapter {
	return &TreasuryAdapter{
		currency:  currency,
		guildBank: crypto.ModuleAddress(moduleSeed, guildBankSubpath),
		custody:   crypto.ModuleAddress(moduleSeed, custodySubpath),
	}
}

// GuildBank returns the derived guild_bank account.
func (t *TreasuryAdapter) GuildBank() crypto.Address { return t.guildBank }

// Custody returns the derived custody account.
func (t *TreasuryAdapter) Custody() crypto.Address { return t.custody }

// Seed funds both module accounts with the currency's minimum balance so
// neither can be reaped by a keep-alive transfer out. Called once, from
// Summon.
func (t *TreasuryAdapter) Seed(minBalance *big.Int) error {
	if minBalance == nil || minBalance.Sign() <= 0 {
		return nil
	}
	if err := t.currency.Reserve(t.guildBank, minBalance); err != nil {
		return err
	}
	return t.currency.Reserve(t.custody, minBalance)
}

// CollectTribute moves tribute_offered from the applicant into custody,
// pending the proposal's outcome. Keep-alive: the applicant's account is
// never fully drained by this transfer.
func (t *TreasuryAdapter) CollectTribute(from crypto.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	return t.currency.Transfer(from, t.custody, amount, true)
}

// ReleaseTributeToBank moves a passed proposal's tribute from custody into
// guild_bank. Allow-death: custody may be fully drained.
func (t *TreasuryAdapter) ReleaseTributeToBank(amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	return t.currency.Transfer(t.custody, t.guildBank, amount, false)
}

// RefundTribute returns a failed or aborted proposal's tribute from
// custody back to the named account. Allow-death on the custody side.
func (t *TreasuryAdapter) RefundTribute(to crypto.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	return t.currency.Transfer(t.custody, to, amount, false)
}

// CollectDeposit moves a sponsor's proposal_deposit into guild_bank.
// Keep-alive on the sponsor's side.
func (t *TreasuryAdapter) CollectDeposit(from crypto.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	return t.currency.Transfer(from, t.guildBank, amount, true)
}

// PayFromBank moves funds out of guild_bank to an arbitrary recipient
// (processing rewards, deposit refunds, payment_requested, ragequit
// payouts). Keep-alive: guild_bank itself is never reaped.
func (t *TreasuryAdapter) PayFromBank(to crypto.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	return t.currency.Transfer(t.guildBank, to, amount, true)
}

// BankBalance reports guild_bank's free balance.
func (t *TreasuryAdapter) BankBalance() (*big.Int, error) {
	return t.currency.FreeBalance(t.guildBank)
}
