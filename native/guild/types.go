// Package guild implements the proposal lifecycle engine and share
// accounting ledger for a shared-treasury organization: a fixed-membership
// collective that admits members, allocates payments, ejects misbehaving
// members, and lets members exit with a proportional share of the pooled
// treasury.
package guild

import (
	"math/big"

	"guildchain/crypto"
)

// VoteChoice is the caller-supplied ballot value for submit_vote.
type VoteChoice uint8

const (
	VoteUnspecified VoteChoice = 0
	VoteYes         VoteChoice = 1
	VoteNo          VoteChoice = 2
)

// Member is a guild account's voting and treasury-claim record. Records are
// never deleted once created: shares and loot may fall to zero but the
// record, and its delegate mapping, remain for audit and ragequit gating.
type Member struct {
	Shares *big.Int
	Loot   *big.Int

	// HighestIndexYesVote is the largest queue index this member has ever
	// voted Yes on. HasVotedYes distinguishes "voted yes at index 0" from
	// "never voted yes" without relying on the zero value as a sentinel,
	// since index 0 is a legitimate proposal.
	HighestIndexYesVote uint64
	HasVotedYes         bool

	DelegateKey crypto.Address

	// JailedAt is the queue index of the kick proposal that jailed this
	// member, or 0 if the member is free. A jailed member always carries
	// Shares.Sign() == 0.
	JailedAt uint64

	Exists bool
}

// cloneMember returns a deep copy so callers never share *big.Int pointers
// with stored state.
func cloneMember(m Member) Member {
	out := m
	out.Shares = new(big.Int).Set(nonNil(m.Shares))
	out.Loot = new(big.Int).Set(nonNil(m.Loot))
	return out
}

func nonNil(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return v
}

// ProposalFlags mirrors the six independent booleans of the original
// storage layout. Preserved flat (rather than as a tagged variant) for
// persisted-key compatibility; the engine is responsible for never
// producing an inconsistent combination (e.g. processed && aborted).
type ProposalFlags struct {
	Sponsored bool
	Processed bool
	Passed    bool
	Aborted   bool
	Whitelist bool
	GuildKick bool
}

// Proposal is the record created by any of the four submission entry
// points and advanced in place through sponsor, vote, and process.
type Proposal struct {
	ID uint64

	Proposer  crypto.Address
	Applicant crypto.Address
	Sponsor   crypto.Address

	SharesRequested *big.Int
	LootRequested   *big.Int

	TributeOffered   *big.Int
	PaymentRequested *big.Int

	YesVotes *big.Int
	NoVotes  *big.Int

	// MaxTotalSharesAtYes is the maximum (total_shares + total_loot)
	// observed at any YES vote cast on this proposal, snapshotted for the
	// dilution-bound check at processing time.
	MaxTotalSharesAtYes *big.Int

	// StartingPeriod is the queue-assigned period at which voting opens.
	// Zero until the proposal is sponsored.
	StartingPeriod uint64

	Details []byte

	Flags ProposalFlags
}

func cloneProposal(p Proposal) Proposal {
	out := p
	out.SharesRequested = new(big.Int).Set(nonNil(p.SharesRequested))
	out.LootRequested = new(big.Int).Set(nonNil(p.LootRequested))
	out.TributeOffered = new(big.Int).Set(nonNil(p.TributeOffered))
	out.PaymentRequested = new(big.Int).Set(nonNil(p.PaymentRequested))
	out.YesVotes = new(big.Int).Set(nonNil(p.YesVotes))
	out.NoVotes = new(big.Int).Set(nonNil(p.NoVotes))
	out.MaxTotalSharesAtYes = new(big.Int).Set(nonNil(p.MaxTotalSharesAtYes))
	out.Details = append([]byte(nil), p.Details...)
	return out
}

// OrgConfig is established once at Summon and never mutated afterward. A
// second Summon call against an already-initialized store is rejected.
type OrgConfig struct {
	PeriodDuration     uint32 // seconds
	VotingPeriodLength uint64
	GracePeriodLength  uint64
	DilutionBound      uint64
	ProposalDeposit    *big.Int
	ProcessingReward   *big.Int
	SummonTime         int64 // ms
}

// Limits are host-configured ceilings, fixed at engine construction time
// (the equivalent of the original's compile-time Config trait constants).
type Limits struct {
	MaxVotingPeriodLength uint64
	MaxGracePeriodLength  uint64
	MaxDilutionBound      uint64
	MaxShares             *big.Int
}

// DefaultLimits mirrors the conservative ceilings used throughout the
// Moloch-family reference implementations.
func DefaultLimits() Limits {
	maxShares := new(big.Int)
	maxShares.SetString("100000000000000000000000000", 10) // 1e26, matches the original's MAX_SHARES
	return Limits{
		MaxVotingPeriodLength: 10_000_000,
		MaxGracePeriodLength:  10_000_000,
		MaxDilutionBound:      10_000,
		MaxShares:             maxShares,
	}
}

// AuditRecord is an append-only entry written on every mutating call,
// independent of event-sink emission, so a host without an event indexer
// still has a queryable operability trail.
type AuditRecord struct {
	Sequence   uint64
	OccurredAt int64 // ms
	Kind       string
	ProposalID uint64
	Actor      crypto.Address
	Details    string
}
