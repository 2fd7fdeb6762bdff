package scoring

import (
	"testing"

	"codearena/contexts/challenge-arena/vote-ledger/domain/entities"
)

func TestDelta(t *testing.T) {
	cfg := DefaultConfig()

	if got := cfg.Delta(entities.VoteKindCommunity, false); got != 15 {
		t.Fatalf("expected community cast delta 15, got %d", got)
	}
	if got := cfg.Delta(entities.VoteKindCommunity, true); got != -15 {
		t.Fatalf("expected community retract delta -15, got %d", got)
	}
	if got := cfg.Delta(entities.VoteKindJudge, false); got != 30 {
		t.Fatalf("expected judge cast delta 30, got %d", got)
	}
	if got := cfg.Delta(entities.VoteKind("unknown"), false); got != 0 {
		t.Fatalf("expected zero delta for unknown kind, got %d", got)
	}
}

func TestSubtotalsNeverNegative(t *testing.T) {
	cfg := DefaultConfig()

	if got := cfg.CommunitySubtotal(-3); got != 0 {
		t.Fatalf("expected zero subtotal for negative count, got %d", got)
	}
	if got := cfg.JudgeSubtotal(0); got != 0 {
		t.Fatalf("expected zero subtotal for zero count, got %d", got)
	}
	if got := cfg.CommunitySubtotal(4); got != 60 {
		t.Fatalf("expected 60, got %d", got)
	}
}

func TestGrandTotal(t *testing.T) {
	if got := GrandTotal(45, 30, 3); got != 78 {
		t.Fatalf("expected 78, got %d", got)
	}
	if got := GrandTotal(0, 0, 0); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
