package guild

import (
	"math/big"
	"testing"

	"guildchain/storage"
)

func TestKVStoreRoundTripsMemberAndProposal(t *testing.T) {
	db := storage.NewMemDB()
	defer db.Close()
	store := NewKVStore(db)

	member := Member{Shares: big.NewInt(7), Loot: big.NewInt(2), DelegateKey: addr(1), Exists: true, HasVotedYes: true, HighestIndexYesVote: 3}
	if err := store.PutMember(addr(1), member); err != nil {
		t.Fatalf("put member: %v", err)
	}
	got, ok, err := store.GetMember(addr(1))
	if err != nil || !ok {
		t.Fatalf("get member: ok=%v err=%v", ok, err)
	}
	if got.Shares.Cmp(big.NewInt(7)) != 0 || got.Loot.Cmp(big.NewInt(2)) != 0 || !got.HasVotedYes || got.HighestIndexYesVote != 3 {
		t.Fatalf("unexpected round-tripped member: %+v", got)
	}

	proposal := Proposal{
		ID:                  0,
		Proposer:            addr(1),
		Applicant:           addr(2),
		SharesRequested:     big.NewInt(5),
		LootRequested:       big.NewInt(0),
		TributeOffered:      big.NewInt(50),
		PaymentRequested:    big.NewInt(0),
		YesVotes:            big.NewInt(1),
		NoVotes:             big.NewInt(0),
		MaxTotalSharesAtYes: big.NewInt(6),
		Details:             []byte("hello"),
	}
	if err := store.PutProposal(0, proposal); err != nil {
		t.Fatalf("put proposal: %v", err)
	}
	gotP, ok, err := store.GetProposal(0)
	if err != nil || !ok {
		t.Fatalf("get proposal: ok=%v err=%v", ok, err)
	}
	if gotP.SharesRequested.Cmp(big.NewInt(5)) != 0 || string(gotP.Details) != "hello" {
		t.Fatalf("unexpected round-tripped proposal: %+v", gotP)
	}
}

func TestKVStoreQueueAndAuditAppend(t *testing.T) {
	db := storage.NewMemDB()
	defer db.Close()
	store := NewKVStore(db)

	if err := store.AppendQueue(3); err != nil {
		t.Fatalf("append queue: %v", err)
	}
	if err := store.AppendQueue(7); err != nil {
		t.Fatalf("append queue: %v", err)
	}
	queue, err := store.Queue()
	if err != nil || len(queue) != 2 || queue[0] != 3 || queue[1] != 7 {
		t.Fatalf("unexpected queue: %v err=%v", queue, err)
	}

	if err := store.AppendAudit(AuditRecord{Sequence: 1, Kind: "Test"}); err != nil {
		t.Fatalf("append audit: %v", err)
	}
	if err := store.AppendAudit(AuditRecord{Sequence: 2, Kind: "Test2"}); err != nil {
		t.Fatalf("append audit: %v", err)
	}
	trail, err := store.AuditTrail()
	if err != nil || len(trail) != 2 || trail[1].Kind != "Test2" {
		t.Fatalf("unexpected audit trail: %+v err=%v", trail, err)
	}
}

func TestKVStoreRemoveDelegateClearsMapping(t *testing.T) {
	db := storage.NewMemDB()
	defer db.Close()
	store := NewKVStore(db)

	if err := store.SetDelegate(addr(2), addr(1)); err != nil {
		t.Fatalf("set delegate: %v", err)
	}
	if owner, ok, err := store.DelegateOf(addr(2)); err != nil || !ok || !owner.Equal(addr(1)) {
		t.Fatalf("unexpected delegate lookup: owner=%v ok=%v err=%v", owner, ok, err)
	}

	if err := store.RemoveDelegate(addr(2)); err != nil {
		t.Fatalf("remove delegate: %v", err)
	}
	if _, ok, err := store.DelegateOf(addr(2)); err != nil || ok {
		t.Fatalf("expected no delegate after removal, ok=%v err=%v", ok, err)
	}
}

func TestKVStoreOrgConfigAbsentUntilSet(t *testing.T) {
	db := storage.NewMemDB()
	defer db.Close()
	store := NewKVStore(db)

	if _, ok, err := store.OrgConfig(); err != nil || ok {
		t.Fatalf("expected no OrgConfig before SetOrgConfig, ok=%v err=%v", ok, err)
	}
	cfg := OrgConfig{PeriodDuration: 10, VotingPeriodLength: 2, GracePeriodLength: 2, DilutionBound: 3, ProposalDeposit: big.NewInt(100), ProcessingReward: big.NewInt(50), SummonTime: 1234}
	if err := store.SetOrgConfig(cfg); err != nil {
		t.Fatalf("set org config: %v", err)
	}
	got, ok, err := store.OrgConfig()
	if err != nil || !ok {
		t.Fatalf("get org config: ok=%v err=%v", ok, err)
	}
	if got.DilutionBound != 3 || got.ProposalDeposit.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("unexpected round-tripped org config: %+v", got)
	}
}
