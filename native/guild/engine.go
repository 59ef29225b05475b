package guild

import (
	"fmt"
	"log/slog"
	"math/big"
	"time"

	guilderrors "guildchain/core/errors"
	"guildchain/core/events"
	"guildchain/crypto"
	"guildchain/observability/logging"
	"guildchain/observability/metrics"
)

// Engine is the deterministic proposal lifecycle and share-accounting
// state machine. Every exported method is a synchronous, atomic
// transition: on success it performs all state mutations and balance
// transfers then emits events; on any validation failure it returns
// before mutating anything.
type Engine struct {
	store    Store
	treasury *TreasuryAdapter
	emitter  events.Emitter
	limits   Limits
	nowFunc  func() int64
	logger   *slog.Logger
	metrics  *metrics.GuildMetrics

	minBalance *big.Int
}

// NewEngine wires a Store and TreasuryAdapter into a ready-to-use Engine.
// The emitter defaults to events.NoopEmitter{}, the logger to
// logging.Setup's structured JSON handler, and the clock to time.Now();
// all three can be overridden with SetEmitter / SetLogger / SetNowFunc,
// the same configuration pattern the governance engine this is grounded
// on uses for its own collaborators.
func NewEngine(store Store, treasury *TreasuryAdapter, limits Limits) *Engine {
	return &Engine{
		store:      store,
		treasury:   treasury,
		emitter:    events.NoopEmitter{},
		logger:     logging.Setup("guildchain-engine", ""),
		limits:     limits,
		minBalance: big.NewInt(0),
	}
}

// SetEmitter overrides the event sink.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	e.emitter = emitter
}

// SetNowFunc overrides the clock source. Tests use this to advance time
// deterministically without sleeping.
func (e *Engine) SetNowFunc(f func() int64) {
	e.nowFunc = f
}

// SetLogger overrides the logger NewEngine wired via logging.Setup.
// Every reachable entry point logs its outcome at INFO on success and
// WARN (with the error's message) on rejection. Passing nil disables
// logging entirely.
func (e *Engine) SetLogger(logger *slog.Logger) {
	e.logger = logger
}

func (e *Engine) logInfo(op string, args ...any) {
	if e.logger == nil {
		return
	}
	e.logger.Info(op, args...)
}

func (e *Engine) logRejected(op string, err error, args ...any) {
	if e.logger == nil || err == nil {
		return
	}
	e.logger.Warn(op+" rejected", append(args, slog.String("error", err.Error()))...)
}

// detailsAttr masks the free-form details a proposer supplies before they
// reach a log line, through logging.MaskField. Other logged fields are
// written unmasked.
func detailsAttr(details []byte) slog.Attr {
	return logging.MaskField("details", string(details))
}

// SetMinBalance sets the currency's minimum balance, seeded into both
// module accounts at Summon.
func (e *Engine) SetMinBalance(v *big.Int) {
	e.minBalance = nonNil(v)
}

// SetMetrics attaches the process-wide Prometheus collectors. A nil value
// (the default) disables metric recording entirely so unit tests stay
// free of a registry dependency.
func (e *Engine) SetMetrics(m *metrics.GuildMetrics) {
	e.metrics = m
}

// recordSupplyGauges refreshes the total-shares/total-loot/guild-bank
// gauges from current state. Called after any transition that can move
// the supply or the bank balance, when metrics are attached.
func (e *Engine) recordSupplyGauges() {
	if e.metrics == nil {
		return
	}
	if totalShares, err := e.store.TotalShares(); err == nil {
		e.metrics.TotalShares.Set(bigToFloat(totalShares))
	}
	if totalLoot, err := e.store.TotalLoot(); err == nil {
		e.metrics.TotalLoot.Set(bigToFloat(totalLoot))
	}
	if bankBalance, err := e.treasury.BankBalance(); err == nil {
		e.metrics.GuildBankBalance.Set(bigToFloat(bankBalance))
	}
}

func bigToFloat(v *big.Int) float64 {
	f, _ := new(big.Float).SetInt(nonNil(v)).Float64()
	return f
}

func (e *Engine) now() int64 {
	if e.nowFunc != nil {
		return e.nowFunc()
	}
	return time.Now().UnixMilli()
}

func (e *Engine) emit(ev events.Event) {
	e.emitter.Emit(ev)
}

func (e *Engine) appendAudit(kind string, proposalID uint64, actor crypto.Address, details string) error {
	trail, err := e.store.AuditTrail()
	if err != nil {
		return err
	}
	rec := AuditRecord{
		Sequence:   uint64(len(trail)) + 1,
		OccurredAt: e.now(),
		Kind:       kind,
		ProposalID: proposalID,
		Actor:      actor,
		Details:    details,
	}
	return e.store.AppendAudit(rec)
}

func addBig(a, b *big.Int) *big.Int {
	return new(big.Int).Add(nonNil(a), nonNil(b))
}

func subBig(a, b *big.Int) *big.Int {
	return new(big.Int).Sub(nonNil(a), nonNil(b))
}

func (e *Engine) currentPeriod(cfg OrgConfig) uint64 {
	return CurrentPeriod(e.now(), cfg.SummonTime, cfg.PeriodDuration)
}

// proposalAtIndex resolves a queue index to its proposal id and record,
// enforcing I3: a queue index only addresses sponsored proposals.
func (e *Engine) proposalAtIndex(queueIndex uint64) (uint64, Proposal, error) {
	queue, err := e.store.Queue()
	if err != nil {
		return 0, Proposal{}, err
	}
	if queueIndex >= uint64(len(queue)) {
		return 0, Proposal{}, guilderrors.ErrProposalNotExist
	}
	id := queue[queueIndex]
	p, ok, err := e.store.GetProposal(id)
	if err != nil {
		return 0, Proposal{}, err
	}
	if !ok {
		return 0, Proposal{}, guilderrors.ErrProposalNotExist
	}
	return id, p, nil
}

// Summon performs the one-shot initialization of the organization: it
// rejects if the store already carries an OrgConfig, validates the
// configuration against the host's compile-time limits, creates the
// caller as the founding member with one share, and seeds the two
// treasury accounts.
func (e *Engine) Summon(caller crypto.Address, cfg OrgConfig) (err error) {
	defer func() {
		if err != nil {
			e.logRejected("Summon", err, slog.String("caller", caller.String()))
		} else {
			e.logInfo("Summon", slog.String("caller", caller.String()))
		}
	}()
	if _, ok, err := e.store.OrgConfig(); err != nil {
		return err
	} else if ok {
		return guilderrors.ErrAlreadySummoned
	}
	if cfg.VotingPeriodLength > e.limits.MaxVotingPeriodLength {
		return guilderrors.ErrVotingPeriodLengthTooBig
	}
	if cfg.GracePeriodLength > e.limits.MaxGracePeriodLength {
		return guilderrors.ErrGracePeriodLengthTooBig
	}
	if cfg.DilutionBound > e.limits.MaxDilutionBound {
		return guilderrors.ErrDilutionBoundTooBig
	}
	if nonNil(cfg.ProcessingReward).Cmp(nonNil(cfg.ProposalDeposit)) > 0 {
		return guilderrors.ErrNoEnoughProposalDeposit
	}

	cfg.SummonTime = e.now()
	if cfg.ProposalDeposit == nil {
		cfg.ProposalDeposit = big.NewInt(0)
	}
	if cfg.ProcessingReward == nil {
		cfg.ProcessingReward = big.NewInt(0)
	}
	if err := e.store.SetOrgConfig(cfg); err != nil {
		return err
	}
	if err := e.treasury.Seed(e.minBalance); err != nil {
		return err
	}

	founder := Member{
		Shares:      big.NewInt(1),
		Loot:        big.NewInt(0),
		DelegateKey: caller,
		Exists:      true,
	}
	if err := e.store.PutMember(caller, founder); err != nil {
		return err
	}
	if err := e.store.SetDelegate(caller, caller); err != nil {
		return err
	}
	if err := e.store.SetTotalShares(big.NewInt(1)); err != nil {
		return err
	}
	if err := e.store.SetTotalLoot(big.NewInt(0)); err != nil {
		return err
	}
	if err := e.store.SetProposalCount(0); err != nil {
		return err
	}

	if err := e.appendAudit("Summon", 0, caller, "organization summoned"); err != nil {
		return err
	}
	e.emit(summonCompleteEvent{Summoner: caller, Shares: big.NewInt(1)})
	e.recordSupplyGauges()
	return nil
}

// UpdateDelegate reassigns caller's vote-casting key, preserving the
// bijection between Members.delegate_key and AddressOfDelegates.
func (e *Engine) UpdateDelegate(caller, newDelegate crypto.Address) (err error) {
	defer func() {
		if err != nil {
			e.logRejected("UpdateDelegate", err, slog.String("caller", caller.String()))
		} else {
			e.logInfo("UpdateDelegate", slog.String("caller", caller.String()), slog.String("new_delegate", newDelegate.String()))
		}
	}()
	member, ok, err := e.store.GetMember(caller)
	if err != nil {
		return err
	}
	if !ok || !member.Exists {
		return guilderrors.ErrNotMember
	}
	if _, memberExists, err := e.store.GetMember(newDelegate); err != nil {
		return err
	} else if memberExists && !newDelegate.Equal(caller) {
		return guilderrors.ErrNoOverwriteMember
	}
	if owner, has, err := e.store.DelegateOf(newDelegate); err != nil {
		return err
	} else if has && !owner.Equal(caller) {
		return guilderrors.ErrNoOverwriteDelegate
	}

	oldDelegate := member.DelegateKey
	if err := e.store.RemoveDelegate(oldDelegate); err != nil {
		return err
	}
	if err := e.store.SetDelegate(newDelegate, caller); err != nil {
		return err
	}
	member.DelegateKey = newDelegate
	if err := e.store.PutMember(caller, member); err != nil {
		return err
	}

	if err := e.appendAudit("UpdateDelegateKey", 0, caller, newDelegate.String()); err != nil {
		return err
	}
	e.emit(updateDelegateKeyEvent{Member: caller, NewDelegate: newDelegate})
	return nil
}

// SubmitProposal creates a membership/payment proposal and collects the
// caller's tribute into custody. Returns the new proposal's id.
func (e *Engine) SubmitProposal(caller, applicant crypto.Address, tributeOffered, sharesRequested, lootRequested, paymentRequested *big.Int, details []byte) (id uint64, err error) {
	defer func() {
		if err != nil {
			e.logRejected("SubmitProposal", err, slog.String("caller", caller.String()), detailsAttr(details))
		} else {
			e.logInfo("SubmitProposal", slog.String("caller", caller.String()), slog.Uint64("id", id), detailsAttr(details))
		}
	}()
	if member, ok, err := e.store.GetMember(caller); err != nil {
		return 0, err
	} else if ok && member.JailedAt != 0 {
		return 0, guilderrors.ErrMemberInJail
	}

	totalShares, err := e.store.TotalShares()
	if err != nil {
		return 0, err
	}
	prospective := addBig(addBig(totalShares, sharesRequested), lootRequested)
	if prospective.Cmp(e.limits.MaxShares) > 0 {
		return 0, guilderrors.ErrSharesOverFlow
	}

	id, err = e.store.ProposalCount()
	if err != nil {
		return 0, err
	}
	proposal := Proposal{
		ID:                  id,
		Proposer:            caller,
		Applicant:           applicant,
		SharesRequested:     nonNil(sharesRequested),
		LootRequested:       nonNil(lootRequested),
		TributeOffered:      nonNil(tributeOffered),
		PaymentRequested:    nonNil(paymentRequested),
		YesVotes:            big.NewInt(0),
		NoVotes:             big.NewInt(0),
		MaxTotalSharesAtYes: big.NewInt(0),
		Details:             details,
	}
	if err := e.store.PutProposal(id, proposal); err != nil {
		return 0, err
	}
	if err := e.store.SetProposalCount(id + 1); err != nil {
		return 0, err
	}
	if err := e.treasury.CollectTribute(caller, proposal.TributeOffered); err != nil {
		return 0, err
	}

	if err := e.appendAudit("SubmitProposal", id, caller, "membership/payment proposal"); err != nil {
		return 0, err
	}
	e.emit(submitProposalEvent{
		ID:        id,
		Delegate:  caller,
		Member:    caller,
		Applicant: applicant,
		Tribute:   proposal.TributeOffered,
		Shares:    proposal.SharesRequested,
	})
	if e.metrics != nil {
		e.metrics.ProposalsSubmitted.Inc()
	}
	return id, nil
}

// SubmitGuildKickProposal creates a kick proposal against an economically
// active, non-jailed member. No tribute changes hands.
func (e *Engine) SubmitGuildKickProposal(caller, memberToKick crypto.Address, details []byte) (id uint64, err error) {
	defer func() {
		if err != nil {
			e.logRejected("SubmitGuildKickProposal", err, slog.String("caller", caller.String()), detailsAttr(details))
		} else {
			e.logInfo("SubmitGuildKickProposal", slog.String("caller", caller.String()), slog.Uint64("id", id), detailsAttr(details))
		}
	}()
	target, ok, err := e.store.GetMember(memberToKick)
	if err != nil {
		return 0, err
	}
	if !ok || !target.Exists || (target.Shares.Sign() == 0 && target.Loot.Sign() == 0) {
		return 0, guilderrors.ErrNotMember
	}
	if target.JailedAt != 0 {
		return 0, guilderrors.ErrMemberInJail
	}

	id, err = e.store.ProposalCount()
	if err != nil {
		return 0, err
	}
	proposal := Proposal{
		ID:                  id,
		Proposer:            caller,
		Applicant:           memberToKick,
		SharesRequested:     big.NewInt(0),
		LootRequested:       big.NewInt(0),
		TributeOffered:      big.NewInt(0),
		PaymentRequested:    big.NewInt(0),
		YesVotes:            big.NewInt(0),
		NoVotes:             big.NewInt(0),
		MaxTotalSharesAtYes: big.NewInt(0),
		Details:             details,
		Flags:               ProposalFlags{GuildKick: true},
	}
	if err := e.store.PutProposal(id, proposal); err != nil {
		return 0, err
	}
	if err := e.store.SetProposalCount(id + 1); err != nil {
		return 0, err
	}

	if err := e.appendAudit("SubmitGuildKickProposal", id, caller, memberToKick.String()); err != nil {
		return 0, err
	}
	e.emit(submitProposalEvent{
		ID:        id,
		Delegate:  caller,
		Member:    caller,
		Applicant: memberToKick,
		Tribute:   big.NewInt(0),
		Shares:    big.NewInt(0),
	})
	if e.metrics != nil {
		e.metrics.ProposalsSubmitted.Inc()
	}
	return id, nil
}

// SponsorProposal stakes the proposal deposit and moves a proposal into
// the voting queue, assigning its starting_period.
func (e *Engine) SponsorProposal(caller crypto.Address, proposalID uint64) (err error) {
	defer func() {
		if err != nil {
			e.logRejected("SponsorProposal", err, slog.String("caller", caller.String()), slog.Uint64("proposal_id", proposalID))
		} else {
			e.logInfo("SponsorProposal", slog.String("caller", caller.String()), slog.Uint64("proposal_id", proposalID))
		}
	}()
	member, ok, err := e.store.GetMember(caller)
	if err != nil {
		return err
	}
	if !ok || !member.Exists {
		return guilderrors.ErrNotMember
	}
	if member.JailedAt != 0 {
		return guilderrors.ErrMemberInJail
	}
	proposal, ok, err := e.store.GetProposal(proposalID)
	if err != nil {
		return err
	}
	if !ok {
		return guilderrors.ErrProposalNotExist
	}
	if proposal.Flags.Aborted {
		return guilderrors.ErrProposalHasAborted
	}
	if proposal.Flags.Sponsored {
		return guilderrors.ErrProposalHasSponsored
	}
	if proposal.Flags.GuildKick {
		inFlight, err := e.store.IsProposedToKick(proposal.Applicant)
		if err != nil {
			return err
		}
		if inFlight {
			return guilderrors.ErrAlreadyProposedToKick
		}
	}

	cfg, ok, err := e.store.OrgConfig()
	if err != nil {
		return err
	}
	if !ok {
		return guilderrors.ErrProposalNotExist
	}

	if err := e.treasury.CollectDeposit(caller, cfg.ProposalDeposit); err != nil {
		return err
	}
	if proposal.Flags.GuildKick {
		if err := e.store.SetProposedToKick(proposal.Applicant, true); err != nil {
			return err
		}
	}

	queue, err := e.store.Queue()
	if err != nil {
		return err
	}
	currentPeriod := e.currentPeriod(cfg)
	lastStarting := uint64(0)
	if len(queue) > 0 {
		last, ok, err := e.store.GetProposal(queue[len(queue)-1])
		if err != nil {
			return err
		}
		if ok {
			lastStarting = last.StartingPeriod
		}
	}
	startingPeriod := currentPeriod
	if lastStarting > startingPeriod {
		startingPeriod = lastStarting
	}
	startingPeriod++

	proposal.StartingPeriod = startingPeriod
	proposal.Sponsor = member.DelegateKey
	proposal.Flags.Sponsored = true
	if err := e.store.PutProposal(proposalID, proposal); err != nil {
		return err
	}
	if err := e.store.AppendQueue(proposalID); err != nil {
		return err
	}
	if e.metrics != nil {
		e.metrics.ProposalsSponsored.Inc()
		e.recordSupplyGauges()
	}

	return e.appendAudit("SponsorProposal", proposalID, caller, fmt.Sprintf("starting_period=%d", startingPeriod))
}

// SubmitVote records caller's (acting as a registered delegate) ballot on
// the proposal at the given queue index.
func (e *Engine) SubmitVote(caller crypto.Address, queueIndex uint64, vote VoteChoice) (err error) {
	defer func() {
		if err != nil {
			e.logRejected("SubmitVote", err, slog.String("caller", caller.String()), slog.Uint64("queue_index", queueIndex))
		} else {
			e.logInfo("SubmitVote", slog.String("caller", caller.String()), slog.Uint64("queue_index", queueIndex))
		}
	}()
	if vote != VoteYes && vote != VoteNo {
		return guilderrors.ErrInvalidVote
	}
	memberAddr, ok, err := e.store.DelegateOf(caller)
	if err != nil {
		return err
	}
	if !ok {
		return guilderrors.ErrNotMember
	}
	member, ok, err := e.store.GetMember(memberAddr)
	if err != nil {
		return err
	}
	if !ok || !member.Exists || member.Shares.Sign() == 0 {
		return guilderrors.ErrNoEnoughShares
	}

	proposalID, proposal, err := e.proposalAtIndex(queueIndex)
	if err != nil {
		return err
	}
	if proposal.Flags.Aborted {
		return guilderrors.ErrProposalHasAborted
	}
	cfg, _, err := e.store.OrgConfig()
	if err != nil {
		return err
	}
	currentPeriod := e.currentPeriod(cfg)
	if currentPeriod < proposal.StartingPeriod {
		return guilderrors.ErrProposalNotStart
	}
	if currentPeriod >= proposal.StartingPeriod+cfg.VotingPeriodLength {
		return guilderrors.ErrProposalExpired
	}
	if _, voted, err := e.store.GetVote(queueIndex, caller); err != nil {
		return err
	} else if voted {
		return guilderrors.ErrMemberHasVoted
	}

	if err := e.store.PutVote(queueIndex, caller, vote); err != nil {
		return err
	}

	if vote == VoteYes {
		proposal.YesVotes = addBig(proposal.YesVotes, member.Shares)
		if !member.HasVotedYes || queueIndex > member.HighestIndexYesVote {
			member.HighestIndexYesVote = queueIndex
			member.HasVotedYes = true
			if err := e.store.PutMember(memberAddr, member); err != nil {
				return err
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
		snapshot := addBig(totalShares, totalLoot)
		if snapshot.Cmp(proposal.MaxTotalSharesAtYes) > 0 {
			proposal.MaxTotalSharesAtYes = snapshot
		}
	} else {
		proposal.NoVotes = addBig(proposal.NoVotes, member.Shares)
	}
	if err := e.store.PutProposal(proposalID, proposal); err != nil {
		return err
	}

	if err := e.appendAudit("SubmitVote", proposalID, caller, fmt.Sprintf("queue_index=%d vote=%d", queueIndex, vote)); err != nil {
		return err
	}
	e.emit(submitVoteEvent{QueueIndex: queueIndex, Voter: memberAddr, Delegate: caller, Vote: vote})
	if e.metrics != nil {
		choice := "no"
		if vote == VoteYes {
			choice = "yes"
		}
		e.metrics.VotesCast.WithLabelValues(choice).Inc()
	}
	return nil
}

// shouldPass evaluates the vote-majority and dilution-bound parts of the
// pass determination against the current global supply. It returns
// (passed, dilutionExceeded). The applicant-jail check and the balance and
// cap gates are applied after it in ProcessProposal.
func (e *Engine) shouldPass(proposal Proposal, totalShares *big.Int, cfg OrgConfig) (bool, bool) {
	if proposal.YesVotes.Cmp(proposal.NoVotes) <= 0 {
		return false, false
	}
	dilutionProduct := new(big.Int).Mul(totalShares, new(big.Int).SetUint64(cfg.DilutionBound))
	if dilutionProduct.Cmp(proposal.MaxTotalSharesAtYes) < 0 {
		return false, true
	}
	return true, false
}

// ProcessProposal processes a standard (non-kick, non-whitelist) proposal
// once its voting and grace periods have elapsed, applying the
// additive-form readiness check to avoid the unsigned-underflow hazard of
// the subtractive form.
func (e *Engine) ProcessProposal(caller crypto.Address, queueIndex uint64) (err error) {
	defer func() {
		if err != nil {
			e.logRejected("ProcessProposal", err, slog.String("caller", caller.String()), slog.Uint64("queue_index", queueIndex))
		} else {
			e.logInfo("ProcessProposal", slog.String("caller", caller.String()), slog.Uint64("queue_index", queueIndex))
		}
	}()
	proposalID, proposal, err := e.proposalAtIndex(queueIndex)
	if err != nil {
		return err
	}
	if proposal.Flags.Whitelist || proposal.Flags.GuildKick {
		return guilderrors.ErrNotStandardProposal
	}
	if proposal.Flags.Processed {
		return guilderrors.ErrProposalHasProcessed
	}
	cfg, _, err := e.store.OrgConfig()
	if err != nil {
		return err
	}
	currentPeriod := e.currentPeriod(cfg)
	if currentPeriod < proposal.StartingPeriod+cfg.VotingPeriodLength+cfg.GracePeriodLength {
		return guilderrors.ErrProposalNotReady
	}
	if queueIndex > 0 {
		queue, err := e.store.Queue()
		if err != nil {
			return err
		}
		prev, ok, err := e.store.GetProposal(queue[queueIndex-1])
		if err != nil {
			return err
		}
		if !ok || !prev.Flags.Processed {
			return guilderrors.ErrPreviousProposalNotProcessed
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

	didPass, dilutionExceeded := e.shouldPass(proposal, totalShares, cfg)
	if dilutionExceeded {
		e.emit(dilutionBoundExceedsEvent{TotalShares: totalShares, DilutionBound: cfg.DilutionBound, MaxSnapshot: proposal.MaxTotalSharesAtYes})
		if e.metrics != nil {
			e.metrics.DilutionBoundEvents.Inc()
		}
	}

	var applicantMember Member
	var applicantExists bool
	if didPass {
		applicantMember, applicantExists, err = e.store.GetMember(proposal.Applicant)
		if err != nil {
			return err
		}
		if applicantExists && applicantMember.JailedAt != 0 {
			didPass = false
		}
	}
	if didPass {
		bankBalance, err := e.treasury.BankBalance()
		if err != nil {
			return err
		}
		if proposal.PaymentRequested.Cmp(bankBalance) > 0 {
			didPass = false
		}
	}
	if didPass {
		prospective := addBig(addBig(totalShares, proposal.SharesRequested), proposal.LootRequested)
		prospective = addBig(prospective, totalLoot)
		if prospective.Cmp(e.limits.MaxShares) > 0 {
			didPass = false
		}
	}

	if didPass {
		if applicantExists && applicantMember.Exists {
			applicantMember.Shares = addBig(applicantMember.Shares, proposal.SharesRequested)
			applicantMember.Loot = addBig(applicantMember.Loot, proposal.LootRequested)
		} else {
			if ownerAddr, has, err := e.store.DelegateOf(proposal.Applicant); err != nil {
				return err
			} else if has {
				owner, ok, err := e.store.GetMember(ownerAddr)
				if err != nil {
					return err
				}
				if ok {
					owner.DelegateKey = ownerAddr
					if err := e.store.PutMember(ownerAddr, owner); err != nil {
						return err
					}
				}
				if err := e.store.RemoveDelegate(proposal.Applicant); err != nil {
					return err
				}
				if err := e.store.SetDelegate(ownerAddr, ownerAddr); err != nil {
					return err
				}
				if err := e.appendAudit("DelegateRevoked", proposalID, ownerAddr,
					fmt.Sprintf("delegate key %s reassigned to new member %s", proposal.Applicant, proposal.Applicant)); err != nil {
					return err
				}
			}
			applicantMember = Member{
				Shares:      nonNil(proposal.SharesRequested),
				Loot:        nonNil(proposal.LootRequested),
				DelegateKey: proposal.Applicant,
				Exists:      true,
			}
			if err := e.store.SetDelegate(proposal.Applicant, proposal.Applicant); err != nil {
				return err
			}
		}
		if err := e.store.PutMember(proposal.Applicant, applicantMember); err != nil {
			return err
		}
		if err := e.store.SetTotalShares(addBig(totalShares, proposal.SharesRequested)); err != nil {
			return err
		}
		if err := e.store.SetTotalLoot(addBig(totalLoot, proposal.LootRequested)); err != nil {
			return err
		}
		if err := e.treasury.ReleaseTributeToBank(proposal.TributeOffered); err != nil {
			return err
		}
		if proposal.PaymentRequested.Sign() > 0 {
			if err := e.treasury.PayFromBank(proposal.Applicant, proposal.PaymentRequested); err != nil {
				return err
			}
		}
	} else {
		if err := e.treasury.RefundTribute(proposal.Applicant, proposal.TributeOffered); err != nil {
			return err
		}
	}

	proposal.Flags.Processed = true
	proposal.Flags.Passed = didPass
	if err := e.store.PutProposal(proposalID, proposal); err != nil {
		return err
	}

	if err := e.treasury.PayFromBank(caller, cfg.ProcessingReward); err != nil {
		return err
	}
	refund := subBig(cfg.ProposalDeposit, cfg.ProcessingReward)
	if err := e.treasury.PayFromBank(proposal.Proposer, refund); err != nil {
		return err
	}

	if err := e.appendAudit("ProcessProposal", proposalID, caller, fmt.Sprintf("passed=%t", didPass)); err != nil {
		return err
	}
	e.emit(processProposalEvent{
		QueueIndex: queueIndex,
		Applicant:  proposal.Applicant,
		Proposer:   proposal.Proposer,
		Tribute:    proposal.TributeOffered,
		Shares:     proposal.SharesRequested,
		DidPass:    didPass,
	})
	if e.metrics != nil {
		e.metrics.ProposalsProcessed.WithLabelValues(fmt.Sprintf("%t", didPass)).Inc()
		e.recordSupplyGauges()
	}
	return nil
}

// ProcessGuildKickProposal processes a kick proposal: on pass the target's
// shares are converted to loot and the member is jailed from that queue
// index onward.
func (e *Engine) ProcessGuildKickProposal(caller crypto.Address, queueIndex uint64) (err error) {
	defer func() {
		if err != nil {
			e.logRejected("ProcessGuildKickProposal", err, slog.String("caller", caller.String()), slog.Uint64("queue_index", queueIndex))
		} else {
			e.logInfo("ProcessGuildKickProposal", slog.String("caller", caller.String()), slog.Uint64("queue_index", queueIndex))
		}
	}()
	proposalID, proposal, err := e.proposalAtIndex(queueIndex)
	if err != nil {
		return err
	}
	if !proposal.Flags.GuildKick {
		return guilderrors.ErrNotKickProposal
	}
	if proposal.Flags.Processed {
		return guilderrors.ErrProposalHasProcessed
	}
	cfg, _, err := e.store.OrgConfig()
	if err != nil {
		return err
	}
	currentPeriod := e.currentPeriod(cfg)
	if currentPeriod < proposal.StartingPeriod+cfg.VotingPeriodLength+cfg.GracePeriodLength {
		return guilderrors.ErrProposalNotReady
	}
	if queueIndex > 0 {
		queue, err := e.store.Queue()
		if err != nil {
			return err
		}
		prev, ok, err := e.store.GetProposal(queue[queueIndex-1])
		if err != nil {
			return err
		}
		if !ok || !prev.Flags.Processed {
			return guilderrors.ErrPreviousProposalNotProcessed
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
	didPass, dilutionExceeded := e.shouldPass(proposal, totalShares, cfg)
	if dilutionExceeded {
		e.emit(dilutionBoundExceedsEvent{TotalShares: totalShares, DilutionBound: cfg.DilutionBound, MaxSnapshot: proposal.MaxTotalSharesAtYes})
		if e.metrics != nil {
			e.metrics.DilutionBoundEvents.Inc()
		}
	}

	if didPass {
		target, ok, err := e.store.GetMember(proposal.Applicant)
		if err != nil {
			return err
		}
		if ok && target.JailedAt == 0 {
			target.JailedAt = queueIndex
			target.Loot = addBig(target.Loot, target.Shares)
			if err := e.store.SetTotalLoot(addBig(totalLoot, target.Shares)); err != nil {
				return err
			}
			if err := e.store.SetTotalShares(subBig(totalShares, target.Shares)); err != nil {
				return err
			}
			target.Shares = big.NewInt(0)
			if err := e.store.PutMember(proposal.Applicant, target); err != nil {
				return err
			}
		}
	}

	if err := e.store.SetProposedToKick(proposal.Applicant, false); err != nil {
		return err
	}

	proposal.Flags.Processed = true
	proposal.Flags.Passed = didPass
	if err := e.store.PutProposal(proposalID, proposal); err != nil {
		return err
	}

	if err := e.treasury.PayFromBank(caller, cfg.ProcessingReward); err != nil {
		return err
	}
	refund := subBig(cfg.ProposalDeposit, cfg.ProcessingReward)
	if err := e.treasury.PayFromBank(proposal.Proposer, refund); err != nil {
		return err
	}

	if err := e.appendAudit("ProcessGuildKickProposal", proposalID, caller, fmt.Sprintf("passed=%t", didPass)); err != nil {
		return err
	}
	e.emit(processProposalEvent{
		QueueIndex: queueIndex,
		Applicant:  proposal.Applicant,
		Proposer:   proposal.Proposer,
		Tribute:    big.NewInt(0),
		Shares:     big.NewInt(0),
		DidPass:    didPass,
	})
	if e.metrics != nil {
		e.metrics.ProposalsProcessed.WithLabelValues(fmt.Sprintf("%t", didPass)).Inc()
		e.recordSupplyGauges()
	}
	return nil
}

// Abort cancels an unsponsored proposal and returns its tribute to the
// proposer.
func (e *Engine) Abort(caller crypto.Address, proposalID uint64) (err error) {
	defer func() {
		if err != nil {
			e.logRejected("Abort", err, slog.String("caller", caller.String()), slog.Uint64("proposal_id", proposalID))
		} else {
			e.logInfo("Abort", slog.String("caller", caller.String()), slog.Uint64("proposal_id", proposalID))
		}
	}()
	proposal, ok, err := e.store.GetProposal(proposalID)
	if err != nil {
		return err
	}
	if !ok {
		return guilderrors.ErrProposalNotExist
	}
	if !proposal.Proposer.Equal(caller) {
		return guilderrors.ErrNotProposalProposer
	}
	if proposal.Flags.Sponsored {
		return guilderrors.ErrProposalHasSponsored
	}
	if proposal.Flags.Aborted {
		return guilderrors.ErrProposalHasAborted
	}

	tribute := proposal.TributeOffered
	proposal.Flags.Aborted = true
	proposal.TributeOffered = big.NewInt(0)
	if err := e.store.PutProposal(proposalID, proposal); err != nil {
		return err
	}
	if err := e.treasury.RefundTribute(proposal.Proposer, tribute); err != nil {
		return err
	}

	if err := e.appendAudit("Abort", proposalID, caller, "proposal aborted before sponsorship"); err != nil {
		return err
	}
	e.emit(abortEvent{ID: proposalID, Applicant: proposal.Applicant})
	return nil
}
