package guild

import (
	"math/big"

	"guildchain/core/events"
	"guildchain/crypto"
)

type submitProposalEvent struct {
	ID        uint64
	Delegate  crypto.Address
	Member    crypto.Address
	Applicant crypto.Address
	Tribute   *big.Int
	Shares    *big.Int
}

func (submitProposalEvent) EventType() string { return "guild.SubmitProposal" }

type submitVoteEvent struct {
	QueueIndex uint64
	Voter      crypto.Address
	Delegate   crypto.Address
	Vote       VoteChoice
}

func (submitVoteEvent) EventType() string { return "guild.SubmitVote" }

type processProposalEvent struct {
	QueueIndex uint64
	Applicant  crypto.Address
	Proposer   crypto.Address
	Tribute    *big.Int
	Shares     *big.Int
	DidPass    bool
}

func (processProposalEvent) EventType() string { return "guild.ProcessProposal" }

type ragequitEvent struct {
	Member      crypto.Address
	SharesBurned *big.Int
}

func (ragequitEvent) EventType() string { return "guild.Ragequit" }

type abortEvent struct {
	ID        uint64
	Applicant crypto.Address
}

func (abortEvent) EventType() string { return "guild.Abort" }

type updateDelegateKeyEvent struct {
	Member      crypto.Address
	NewDelegate crypto.Address
}

func (updateDelegateKeyEvent) EventType() string { return "guild.UpdateDelegateKey" }

type summonCompleteEvent struct {
	Summoner crypto.Address
	Shares   *big.Int
}

func (summonCompleteEvent) EventType() string { return "guild.SummonComplete" }

type dilutionBoundExceedsEvent struct {
	TotalShares  *big.Int
	DilutionBound uint64
	MaxSnapshot  *big.Int
}

func (dilutionBoundExceedsEvent) EventType() string { return "guild.DilutionBoundExceeds" }

var _ events.Event = submitProposalEvent{}
var _ events.Event = submitVoteEvent{}
var _ events.Event = processProposalEvent{}
var _ events.Event = ragequitEvent{}
var _ events.Event = abortEvent{}
var _ events.Event = updateDelegateKeyEvent{}
var _ events.Event = summonCompleteEvent{}
var _ events.Event = dilutionBoundExceedsEvent{}
