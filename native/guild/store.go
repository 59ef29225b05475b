package guild

import (
	"math/big"

	"guildchain/crypto"
)

// Store is the persistence abstraction the engine transacts against. It is
// the typed-map equivalent of the host's persistent key-value store: every
// accessor below is expected to read-your-writes within a single entry
// point invocation. Production code backs this with storage.Database
// (KVStore, in kvstore.go); tests back it with a hand-rolled fake.
type Store interface {
	OrgConfig() (OrgConfig, bool, error)
	SetOrgConfig(OrgConfig) error

	TotalShares() (*big.Int, error)
	SetTotalShares(*big.Int) error
	TotalLoot() (*big.Int, error)
	SetTotalLoot(*big.Int) error

	ProposalCount() (uint64, error)
	SetProposalCount(uint64) error

	Queue() ([]uint64, error)
	AppendQueue(id uint64) error

	GetMember(addr crypto.Address) (Member, bool, error)
	PutMember(addr crypto.Address, m Member) error

	DelegateOf(delegate crypto.Address) (crypto.Address, bool, error)
	SetDelegate(delegate, member crypto.Address) error
	RemoveDelegate(delegate crypto.Address) error

	GetProposal(id uint64) (Proposal, bool, error)
	PutProposal(id uint64, p Proposal) error

	GetVote(queueIndex uint64, delegate crypto.Address) (VoteChoice, bool, error)
	PutVote(queueIndex uint64, delegate crypto.Address, choice VoteChoice) error

	IsProposedToKick(addr crypto.Address) (bool, error)
	SetProposedToKick(addr crypto.Address, inFlight bool) error

	AppendAudit(rec AuditRecord) error
	AuditTrail() ([]AuditRecord, error)
}
