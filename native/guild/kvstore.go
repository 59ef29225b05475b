package guild

import (
	"encoding/json"
	"fmt"
	"math/big"

	"guildchain/crypto"
	"guildchain/storage"
)

// KVStore implements Store over storage.Database (MemDB or LevelDB). Every
// accessor round-trips through JSON: the underlying Database only offers
// Put/Get/Delete, so composite values (the queue, the audit trail) are stored
// whole under a single key and rewritten on each append, the same
// decode-mutate-encode pattern the teacher's storage layer uses for its
// account records.
type KVStore struct {
	db storage.Database
}

// NewKVStore wraps a storage.Database as a guild Store.
func NewKVStore(db storage.Database) *KVStore {
	return &KVStore{db: db}
}

func (s *KVStore) getJSON(key string, out interface{}) (bool, error) {
	raw, err := s.db.Get([]byte(key))
	if err != nil {
		return false, nil //nolint:nilerr // Database.Get returns an error on miss, treated as "absent"
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("guild: decode %s: %w", key, err)
	}
	return true, nil
}

func (s *KVStore) putJSON(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("guild: encode %s: %w", key, err)
	}
	return s.db.Put([]byte(key), raw)
}

const (
	keyOrgConfig      = "guild/org_config"
	keyTotalShares    = "guild/total_shares"
	keyTotalLoot      = "guild/total_loot"
	keyProposalCount  = "guild/proposal_count"
	keyQueue          = "guild/queue"
	keyAuditTrail     = "guild/audit_trail"
	memberKeyPrefix   = "guild/member/"
	delegateKeyPrefix = "guild/delegate/"
	proposalKeyPrefix = "guild/proposal/"
	voteKeyPrefix     = "guild/vote/"
	kickKeyPrefix     = "guild/proposed_to_kick/"
)

func memberKey(addr crypto.Address) string   { return memberKeyPrefix + addr.String() }
func delegateKey(addr crypto.Address) string { return delegateKeyPrefix + addr.String() }
func proposalKey(id uint64) string           { return fmt.Sprintf("%s%d", proposalKeyPrefix, id) }
func voteKey(queueIndex uint64, delegate crypto.Address) string {
	return fmt.Sprintf("%s%d/%s", voteKeyPrefix, queueIndex, delegate.String())
}
func kickKey(addr crypto.Address) string { return kickKeyPrefix + addr.String() }

func (s *KVStore) OrgConfig() (OrgConfig, bool, error) {
	var wire wireOrgConfig
	ok, err := s.getJSON(keyOrgConfig, &wire)
	if err != nil || !ok {
		return OrgConfig{}, ok, err
	}
	return wire.toOrgConfig(), true, nil
}

func (s *KVStore) SetOrgConfig(cfg OrgConfig) error {
	return s.putJSON(keyOrgConfig, newWireOrgConfig(cfg))
}

func (s *KVStore) TotalShares() (*big.Int, error) { return s.getBigOrZero(keyTotalShares) }
func (s *KVStore) SetTotalShares(v *big.Int) error { return s.putBig(keyTotalShares, v) }
func (s *KVStore) TotalLoot() (*big.Int, error)    { return s.getBigOrZero(keyTotalLoot) }
func (s *KVStore) SetTotalLoot(v *big.Int) error   { return s.putBig(keyTotalLoot, v) }

func (s *KVStore) getBigOrZero(key string) (*big.Int, error) {
	var str string
	ok, err := s.getJSON(key, &str)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(str, 10)
	if !ok {
		return nil, fmt.Errorf("guild: corrupt integer at %s", key)
	}
	return v, nil
}

func (s *KVStore) putBig(key string, v *big.Int) error {
	return s.putJSON(key, nonNil(v).String())
}

func (s *KVStore) ProposalCount() (uint64, error) {
	var n uint64
	ok, err := s.getJSON(keyProposalCount, &n)
	if err != nil || !ok {
		return 0, err
	}
	return n, nil
}

func (s *KVStore) SetProposalCount(n uint64) error { return s.putJSON(keyProposalCount, n) }

func (s *KVStore) Queue() ([]uint64, error) {
	var q []uint64
	ok, err := s.getJSON(keyQueue, &q)
	if err != nil || !ok {
		return nil, err
	}
	return q, nil
}

func (s *KVStore) AppendQueue(id uint64) error {
	q, err := s.Queue()
	if err != nil {
		return err
	}
	q = append(q, id)
	return s.putJSON(keyQueue, q)
}

func (s *KVStore) GetMember(addr crypto.Address) (Member, bool, error) {
	var wire wireMember
	ok, err := s.getJSON(memberKey(addr), &wire)
	if err != nil || !ok {
		return Member{}, ok, err
	}
	m, err := wire.toMember()
	return m, true, err
}

func (s *KVStore) PutMember(addr crypto.Address, m Member) error {
	return s.putJSON(memberKey(addr), newWireMember(m))
}

func (s *KVStore) DelegateOf(delegate crypto.Address) (crypto.Address, bool, error) {
	var str string
	ok, err := s.getJSON(delegateKey(delegate), &str)
	if err != nil || !ok {
		return crypto.Address{}, ok, err
	}
	addr, err := crypto.DecodeAddress(str)
	return addr, true, err
}

func (s *KVStore) SetDelegate(delegate, member crypto.Address) error {
	return s.putJSON(delegateKey(delegate), member.String())
}

func (s *KVStore) RemoveDelegate(delegate crypto.Address) error {
	return s.db.Delete([]byte(delegateKey(delegate)))
}

func (s *KVStore) GetProposal(id uint64) (Proposal, bool, error) {
	var wire wireProposal
	ok, err := s.getJSON(proposalKey(id), &wire)
	if err != nil || !ok {
		return Proposal{}, ok, err
	}
	p, err := wire.toProposal()
	return p, true, err
}

func (s *KVStore) PutProposal(id uint64, p Proposal) error {
	return s.putJSON(proposalKey(id), newWireProposal(p))
}

func (s *KVStore) GetVote(queueIndex uint64, delegate crypto.Address) (VoteChoice, bool, error) {
	var v uint8
	ok, err := s.getJSON(voteKey(queueIndex, delegate), &v)
	if err != nil || !ok {
		return VoteUnspecified, ok, err
	}
	return VoteChoice(v), true, nil
}

func (s *KVStore) PutVote(queueIndex uint64, delegate crypto.Address, choice VoteChoice) error {
	return s.putJSON(voteKey(queueIndex, delegate), uint8(choice))
}

func (s *KVStore) IsProposedToKick(addr crypto.Address) (bool, error) {
	var v bool
	ok, err := s.getJSON(kickKey(addr), &v)
	if err != nil || !ok {
		return false, err
	}
	return v, nil
}

func (s *KVStore) SetProposedToKick(addr crypto.Address, inFlight bool) error {
	return s.putJSON(kickKey(addr), inFlight)
}

func (s *KVStore) AppendAudit(rec AuditRecord) error {
	trail, err := s.AuditTrail()
	if err != nil {
		return err
	}
	trail = append(trail, rec)
	return s.putJSON(keyAuditTrail, trail)
}

func (s *KVStore) AuditTrail() ([]AuditRecord, error) {
	var trail []AuditRecord
	ok, err := s.getJSON(keyAuditTrail, &trail)
	if err != nil || !ok {
		return nil, err
	}
	return trail, nil
}
