package commands

import "sync"

// SubmissionLocks serializes mutations per submission id. Votes on different
// submissions proceed independently; votes on the same submission must not
// race the read-recompute-write cycle.
type SubmissionLocks struct {
	locks sync.Map
}

func NewSubmissionLocks() *SubmissionLocks {
	return &SubmissionLocks{}
}

func (l *SubmissionLocks) Lock(submissionID string) func() {
	value, _ := l.locks.LoadOrStore(submissionID, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
