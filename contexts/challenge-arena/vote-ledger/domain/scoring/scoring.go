package scoring

import "codearena/contexts/challenge-arena/vote-ledger/domain/entities"

// Config holds the point value of each vote kind. The values are resolved
// once at startup and injected; they never change mid-run.
type Config struct {
	CommunityVotePoints int
	JudgeVotePoints     int
}

func DefaultConfig() Config {
	return Config{
		CommunityVotePoints: 15,
		JudgeVotePoints:     30,
	}
}

// Delta returns the signed point contribution of casting (or retracting) one
// vote of the given kind.
func (c Config) Delta(kind entities.VoteKind, retract bool) int {
	var points int
	switch kind {
	case entities.VoteKindCommunity:
		points = c.CommunityVotePoints
	case entities.VoteKindJudge:
		points = c.JudgeVotePoints
	default:
		return 0
	}
	if retract {
		return -points
	}
	return points
}

// CommunitySubtotal derives a submission's community points from the count of
// its active community votes. Deriving from counts instead of patching a
// running total keeps negatives impossible under event replay or reordering.
func (c Config) CommunitySubtotal(activeVotes int) int {
	if activeVotes <= 0 {
		return 0
	}
	return activeVotes * c.CommunityVotePoints
}

func (c Config) JudgeSubtotal(activeVotes int) int {
	if activeVotes <= 0 {
		return 0
	}
	return activeVotes * c.JudgeVotePoints
}

// GrandTotal is the canonical submission total. Every mutation path goes
// through this so the total always equals the sum of its parts.
func GrandTotal(community int, judge int, ai int) int {
	return community + judge + ai
}
