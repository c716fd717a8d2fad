package journal

import "sync"

// Locked serializes access to a backend so parallel runs can share one
// journal. Neither the CSV nor the SQLite backend is safe for concurrent
// writers on its own.
type Locked struct {
	mu sync.Mutex
	j  Journal
}

func NewLocked(j Journal) *Locked { return &Locked{j: j} }

func (l *Locked) RecordTrade(t TradeRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.j.RecordTrade(t)
}

func (l *Locked) RecordRun(r RunRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.j.RecordRun(r)
}

func (l *Locked) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.j.Close()
}
