package store

import (
	"path/filepath"
	"sync"
)

// Locks serialises writers per repository directory so a toggle's
// read-modify-write can't interleave with another write in this process.
// Entries exist only while someone holds or waits for them. Other processes
// writing the same tree are not coordinated: last write wins.
type Locks struct {
	mu sync.Mutex
	m  map[string]*repoLock
}

type repoLock struct {
	mu   sync.Mutex
	refs int
}

func NewLocks() *Locks {
	return &Locks{m: map[string]*repoLock{}}
}

func (l *Locks) lock(key string) (unlock func()) {
	l.mu.Lock()
	e := l.m[key]
	if e == nil {
		e = &repoLock{}
		l.m[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.m, key)
		}
		l.mu.Unlock()
	}
}

// Len is the number of repositories currently locked or waited on.
func (l *Locks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

// Lock acquires the repository's write lock and returns the release func. A
// Store without Locks doesn't serialise anything.
func (s Store) Lock(project, repository string) (unlock func()) {
	if s.Locks == nil {
		return func() {}
	}
	key := s.RepositoryDir(project, repository)
	if abs, err := filepath.Abs(key); err == nil {
		key = abs
	}
	return s.Locks.lock(key)
}
