package guild

import (
	"fmt"
	"math/big"

	"guildchain/crypto"
)

// wire* types are the JSON-serializable shadow of the domain types: *big.Int
// and crypto.Address don't round-trip through encoding/json on their own,
// so KVStore marshals through these instead.

type wireOrgConfig struct {
	PeriodDuration     uint32 `json:"period_duration"`
	VotingPeriodLength uint64 `json:"voting_period_length"`
	GracePeriodLength  uint64 `json:"grace_period_length"`
	DilutionBound      uint64 `json:"dilution_bound"`
	ProposalDeposit    string `json:"proposal_deposit"`
	ProcessingReward   string `json:"processing_reward"`
	SummonTime         int64  `json:"summon_time"`
}

func newWireOrgConfig(c OrgConfig) wireOrgConfig {
	return wireOrgConfig{
		PeriodDuration:     c.PeriodDuration,
		VotingPeriodLength: c.VotingPeriodLength,
		GracePeriodLength:  c.GracePeriodLength,
		DilutionBound:      c.DilutionBound,
		ProposalDeposit:    nonNil(c.ProposalDeposit).String(),
		ProcessingReward:   nonNil(c.ProcessingReward).String(),
		SummonTime:         c.SummonTime,
	}
}

func (w wireOrgConfig) toOrgConfig() OrgConfig {
	deposit, _ := new(big.Int).SetString(w.ProposalDeposit, 10)
	reward, _ := new(big.Int).SetString(w.ProcessingReward, 10)
	return OrgConfig{
		PeriodDuration:     w.PeriodDuration,
		VotingPeriodLength: w.VotingPeriodLength,
		GracePeriodLength:  w.GracePeriodLength,
		DilutionBound:      w.DilutionBound,
		ProposalDeposit:    nonNil(deposit),
		ProcessingReward:   nonNil(reward),
		SummonTime:         w.SummonTime,
	}
}

// MemberView renders a Member as a JSON-safe value for API responses.
func MemberView(m Member) any { return newWireMember(m) }

// ProposalView renders a Proposal as a JSON-safe value for API responses.
func ProposalView(p Proposal) any { return newWireProposal(p) }

// AuditView renders an AuditRecord as a JSON-safe value for API responses.
func AuditView(rec AuditRecord) any {
	actor := ""
	if !rec.Actor.IsZero() {
		actor = rec.Actor.String()
	}
	return struct {
		Sequence   uint64 `json:"sequence"`
		OccurredAt int64  `json:"occurred_at"`
		Kind       string `json:"kind"`
		ProposalID uint64 `json:"proposal_id"`
		Actor      string `json:"actor"`
		Details    string `json:"details"`
	}{rec.Sequence, rec.OccurredAt, rec.Kind, rec.ProposalID, actor, rec.Details}
}

type wireMember struct {
	Shares              string `json:"shares"`
	Loot                string `json:"loot"`
	HighestIndexYesVote uint64 `json:"highest_index_yes_vote"`
	HasVotedYes         bool   `json:"has_voted_yes"`
	DelegateKey         string `json:"delegate_key"`
	JailedAt            uint64 `json:"jailed_at"`
	Exists              bool   `json:"exists"`
}

func newWireMember(m Member) wireMember {
	delegate := ""
	if !m.DelegateKey.IsZero() {
		delegate = m.DelegateKey.String()
	}
	return wireMember{
		Shares:              nonNil(m.Shares).String(),
		Loot:                nonNil(m.Loot).String(),
		HighestIndexYesVote: m.HighestIndexYesVote,
		HasVotedYes:         m.HasVotedYes,
		DelegateKey:         delegate,
		JailedAt:            m.JailedAt,
		Exists:              m.Exists,
	}
}

func (w wireMember) toMember() (Member, error) {
	shares, ok := new(big.Int).SetString(w.Shares, 10)
	if !ok {
		return Member{}, fmt.Errorf("guild: corrupt member shares %q", w.Shares)
	}
	loot, ok := new(big.Int).SetString(w.Loot, 10)
	if !ok {
		return Member{}, fmt.Errorf("guild: corrupt member loot %q", w.Loot)
	}
	var delegate crypto.Address
	if w.DelegateKey != "" {
		var err error
		delegate, err = crypto.DecodeAddress(w.DelegateKey)
		if err != nil {
			return Member{}, err
		}
	}
	return Member{
		Shares:              shares,
		Loot:                loot,
		HighestIndexYesVote: w.HighestIndexYesVote,
		HasVotedYes:         w.HasVotedYes,
		DelegateKey:         delegate,
		JailedAt:            w.JailedAt,
		Exists:              w.Exists,
	}, nil
}

type wireProposal struct {
	ID                  uint64        `json:"id"`
	Proposer            string        `json:"proposer"`
	Applicant           string        `json:"applicant"`
	Sponsor             string        `json:"sponsor"`
	SharesRequested     string        `json:"shares_requested"`
	LootRequested       string        `json:"loot_requested"`
	TributeOffered      string        `json:"tribute_offered"`
	PaymentRequested    string        `json:"payment_requested"`
	YesVotes            string        `json:"yes_votes"`
	NoVotes             string        `json:"no_votes"`
	MaxTotalSharesAtYes string        `json:"max_total_shares_at_yes"`
	StartingPeriod      uint64        `json:"starting_period"`
	Details             []byte        `json:"details"`
	Flags               ProposalFlags `json:"flags"`
}

func newWireProposal(p Proposal) wireProposal {
	addrOrEmpty := func(a crypto.Address) string {
		if a.IsZero() {
			return ""
		}
		return a.String()
	}
	return wireProposal{
		ID:                  p.ID,
		Proposer:            addrOrEmpty(p.Proposer),
		Applicant:           addrOrEmpty(p.Applicant),
		Sponsor:             addrOrEmpty(p.Sponsor),
		SharesRequested:     nonNil(p.SharesRequested).String(),
		LootRequested:       nonNil(p.LootRequested).String(),
		TributeOffered:      nonNil(p.TributeOffered).String(),
		PaymentRequested:    nonNil(p.PaymentRequested).String(),
		YesVotes:            nonNil(p.YesVotes).String(),
		NoVotes:             nonNil(p.NoVotes).String(),
		MaxTotalSharesAtYes: nonNil(p.MaxTotalSharesAtYes).String(),
		StartingPeriod:      p.StartingPeriod,
		Details:             p.Details,
		Flags:               p.Flags,
	}
}

func (w wireProposal) toProposal() (Proposal, error) {
	decode := func(s string) (crypto.Address, error) {
		if s == "" {
			return crypto.Address{}, nil
		}
		return crypto.DecodeAddress(s)
	}
	parse := func(s string) (*big.Int, error) {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("guild: corrupt proposal integer %q", s)
		}
		return v, nil
	}

	proposer, err := decode(w.Proposer)
	if err != nil {
		return Proposal{}, err
	}
	applicant, err := decode(w.Applicant)
	if err != nil {
		return Proposal{}, err
	}
	sponsor, err := decode(w.Sponsor)
	if err != nil {
		return Proposal{}, err
	}
	sharesRequested, err := parse(w.SharesRequested)
	if err != nil {
		return Proposal{}, err
	}
	lootRequested, err := parse(w.LootRequested)
	if err != nil {
		return Proposal{}, err
	}
	tribute, err := parse(w.TributeOffered)
	if err != nil {
		return Proposal{}, err
	}
	payment, err := parse(w.PaymentRequested)
	if err != nil {
		return Proposal{}, err
	}
	yes, err := parse(w.YesVotes)
	if err != nil {
		return Proposal{}, err
	}
	no, err := parse(w.NoVotes)
	if err != nil {
		return Proposal{}, err
	}
	maxSnapshot, err := parse(w.MaxTotalSharesAtYes)
	if err != nil {
		return Proposal{}, err
	}

	return Proposal{
		ID:                  w.ID,
		Proposer:            proposer,
		Applicant:           applicant,
		Sponsor:             sponsor,
		SharesRequested:     sharesRequested,
		LootRequested:       lootRequested,
		TributeOffered:      tribute,
		PaymentRequested:    payment,
		YesVotes:            yes,
		NoVotes:             no,
		MaxTotalSharesAtYes: maxSnapshot,
		StartingPeriod:      w.StartingPeriod,
		Details:             w.Details,
		Flags:               w.Flags,
	}, nil
}
