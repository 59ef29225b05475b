package guild

import (
	"log/slog"
	"math/big"

	guilderrors "guildchain/core/errors"
	"guildchain/crypto"
)

// exitBurn is the shared proportional-withdrawal computation behind both
// RageQuit and RageKick: payout = floor(guild_bank.free_balance * burned /
// initial_total), where initial_total is measured before the burn.
func (e *Engine) exitBurn(memberAddr crypto.Address, sharesToBurn, lootToBurn *big.Int) error {
	member, ok, err := e.store.GetMember(memberAddr)
	if err != nil {
		return err
	}
	if !ok || !member.Exists {
		return guilderrors.ErrNotMember
	}
	if member.Shares.Cmp(nonNil(sharesToBurn)) < 0 {
		return guilderrors.ErrNoEnoughShares
	}
	if member.Loot.Cmp(nonNil(lootToBurn)) < 0 {
		return guilderrors.ErrNoEnoughLoot
	}

	if member.HasVotedYes {
		queue, err := e.store.Queue()
		if err != nil {
			return err
		}
		if member.HighestIndexYesVote >= uint64(len(queue)) {
			return guilderrors.ErrProposalNotExist
		}
		proposal, ok, err := e.store.GetProposal(queue[member.HighestIndexYesVote])
		if err != nil {
			return err
		}
		if !ok || !proposal.Flags.Processed {
			return guilderrors.ErrProposalNotProcessed
		}
	}

	totalShares, err := e.store.TotalShares()
	if err != nil {
		return err
	}
	totalLoot, err := e.store.TotalLoot()
	if err != nil {
		return err
	}
	initialTotal := addBig(totalShares, totalLoot)

	burned := addBig(sharesToBurn, lootToBurn)
	var payout *big.Int
	if initialTotal.Sign() == 0 {
		payout = big.NewInt(0)
	} else {
		bankBalance, err := e.treasury.BankBalance()
		if err != nil {
			return err
		}
		payout = new(big.Int).Mul(bankBalance, burned)
		payout.Div(payout, initialTotal)
	}

	member.Shares = subBig(member.Shares, sharesToBurn)
	member.Loot = subBig(member.Loot, lootToBurn)
	if err := e.store.PutMember(memberAddr, member); err != nil {
		return err
	}
	if err := e.store.SetTotalShares(subBig(totalShares, sharesToBurn)); err != nil {
		return err
	}
	if err := e.store.SetTotalLoot(subBig(totalLoot, lootToBurn)); err != nil {
		return err
	}
	if err := e.treasury.PayFromBank(memberAddr, payout); err != nil {
		return err
	}

	if err := e.appendAudit("Ragequit", 0, memberAddr, burned.String()); err != nil {
		return err
	}
	e.emit(ragequitEvent{Member: memberAddr, SharesBurned: burned})
	if e.metrics != nil {
		e.metrics.Ragequits.Inc()
		e.recordSupplyGauges()
	}
	return nil
}

// RageQuit lets a member voluntarily exit with a proportional share of the
// treasury, burning exactly the shares and loot named.
func (e *Engine) RageQuit(caller crypto.Address, sharesToBurn, lootToBurn *big.Int) (err error) {
	defer func() {
		if err != nil {
			e.logRejected("RageQuit", err, slog.String("caller", caller.String()))
		} else {
			e.logInfo("RageQuit", slog.String("caller", caller.String()))
		}
	}()
	return e.exitBurn(caller, sharesToBurn, lootToBurn)
}

// RageKick forcibly exits a jailed member's residual loot on their behalf.
// Anyone may call it once the target is jailed and still holds loot.
func (e *Engine) RageKick(caller, jailedMember crypto.Address) (err error) {
	defer func() {
		if err != nil {
			e.logRejected("RageKick", err, slog.String("caller", caller.String()), slog.String("jailed_member", jailedMember.String()))
		} else {
			e.logInfo("RageKick", slog.String("caller", caller.String()), slog.String("jailed_member", jailedMember.String()))
		}
	}()
	target, ok, err := e.store.GetMember(jailedMember)
	if err != nil {
		return err
	}
	if !ok || !target.Exists {
		return guilderrors.ErrNotMember
	}
	if target.JailedAt == 0 {
		return guilderrors.ErrMemberNotInJail
	}
	if target.Loot.Sign() <= 0 {
		return guilderrors.ErrNoEnoughLoot
	}
	return e.exitBurn(jailedMember, big.NewInt(0), target.Loot)
}
