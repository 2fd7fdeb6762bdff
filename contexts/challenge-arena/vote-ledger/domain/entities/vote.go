package entities

import (
	"strings"
	"time"
)

type VoteKind string

const (
	VoteKindCommunity VoteKind = "community"
	VoteKindJudge     VoteKind = "judge"
)

// Vote is the append-only source of truth for community and judge
// contributions. Uniqueness is (submission, voter, kind); community votes also
// carry the originating message id so reaction add/remove events reconcile
// idempotently.
type Vote struct {
	VoteID          string
	SubmissionID    string
	VoterID         string
	Kind            VoteKind
	SourceMessageID string
	CreatedAt       time.Time
}

func (v Vote) Validate() bool {
	if strings.TrimSpace(v.SubmissionID) == "" || strings.TrimSpace(v.VoterID) == "" {
		return false
	}
	switch v.Kind {
	case VoteKindCommunity:
		return strings.TrimSpace(v.SourceMessageID) != ""
	case VoteKindJudge:
		return true
	default:
		return false
	}
}
