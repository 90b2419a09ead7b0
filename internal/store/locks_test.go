package store

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLock_SerialisesSameRepository(t *testing.T) {
	t.Parallel()

	s := New(t.TempDir())
	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := s.Lock("acme", "widgets")
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, s.Locks.Len())
}

func TestLock_IndependentRepositories(t *testing.T) {
	t.Parallel()

	s := New(t.TempDir())
	unlockA := s.Lock("acme", "widgets")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := s.Lock("acme", "gadgets")
		unlock()
		close(done)
	}()
	<-done
}

func TestLock_TableShrinksAfterRelease(t *testing.T) {
	t.Parallel()

	s := New(t.TempDir())
	for _, repo := range []string{"a", "b", "c"} {
		unlock := s.Lock("acme", repo)
		assert.Equal(t, 1, s.Locks.Len())
		unlock()
	}
	assert.Equal(t, 0, s.Locks.Len())
}

func TestLock_ZeroStoreIsNoop(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	unlock := s.Lock("acme", "widgets")
	unlock2 := s.Lock("acme", "widgets")
	unlock2()
	unlock()
}
