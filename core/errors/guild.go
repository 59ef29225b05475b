package errors

import stderrors "errors"

// Configuration errors: rejected at summon time.
var (
	ErrVotingPeriodLengthTooBig = stderrors.New("guild: voting period length too big")
	ErrGracePeriodLengthTooBig  = stderrors.New("guild: grace period length too big")
	ErrDilutionBoundTooBig      = stderrors.New("guild: dilution bound too big")
	ErrNoEnoughProposalDeposit  = stderrors.New("guild: processing reward exceeds proposal deposit")
	ErrAlreadySummoned          = stderrors.New("guild: organization already summoned")
)

// Authorization errors.
var (
	ErrNotMember           = stderrors.New("guild: caller is not a member")
	ErrNotProposalProposer = stderrors.New("guild: caller is not the proposal's proposer")
	ErrMemberInJail        = stderrors.New("guild: member is jailed")
	ErrMemberNotInJail     = stderrors.New("guild: member is not jailed")
)

// State-phase errors.
var (
	ErrProposalNotExist             = stderrors.New("guild: proposal does not exist")
	ErrProposalNotStart             = stderrors.New("guild: voting has not started")
	ErrProposalExpired              = stderrors.New("guild: voting period has expired")
	ErrProposalNotReady             = stderrors.New("guild: proposal not ready for processing")
	ErrProposalHasSponsored         = stderrors.New("guild: proposal already sponsored")
	ErrProposalHasProcessed         = stderrors.New("guild: proposal already processed")
	ErrProposalHasAborted           = stderrors.New("guild: proposal already aborted")
	ErrProposalNotProcessed         = stderrors.New("guild: proposal not yet processed")
	ErrPreviousProposalNotProcessed = stderrors.New("guild: previous proposal in queue not yet processed")
	ErrNotStandardProposal          = stderrors.New("guild: not a standard proposal")
	ErrNotKickProposal              = stderrors.New("guild: not a guild-kick proposal")
	ErrAlreadyProposedToKick        = stderrors.New("guild: member already has an in-flight kick proposal")
)

// Accounting errors.
var (
	ErrNoEnoughShares  = stderrors.New("guild: not enough shares")
	ErrNoEnoughLoot    = stderrors.New("guild: not enough loot")
	ErrSharesOverFlow  = stderrors.New("guild: shares supply overflow")
	ErrStorageOverflow = stderrors.New("guild: storage overflow")
)

// Vote errors.
var (
	ErrInvalidVote    = stderrors.New("guild: invalid vote value")
	ErrMemberHasVoted = stderrors.New("guild: member already voted on this proposal")
)

// Delegate errors.
var (
	ErrNoOverwriteDelegate = stderrors.New("guild: new delegate is already registered as a delegate")
	ErrNoOverwriteMember   = stderrors.New("guild: new delegate is itself a member account")
)
