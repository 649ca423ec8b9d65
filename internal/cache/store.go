package cache

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/arsenal/vkd/internal/utils"
)

// ErrCreationAborted is returned to callers waiting on a creation whose callback panicked
var ErrCreationAborted = errors.New("cache entry creation was aborted")

// Store is an associative store shared between threads. Values are published once: the create
// callback passed to GetOrCreate runs at most once per key, and every caller racing on the same
// key receives the same value. Creation runs outside the store's lock, so only callers asking for
// a key that is being created wait for it.
type Store[K comparable, V any] struct {
	mutex    utils.OptionalRWMutex
	entries  *swiss.Map[K, V]
	inflight *swiss.Map[K, *creation[V]]

	hits   uint64
	misses uint64
}

type creation[V any] struct {
	done  chan struct{}
	value V
	err   error
}

func NewStore[K comparable, V any](useMutex bool, capacity uint32) *Store[K, V] {
	return &Store[K, V]{
		mutex:    utils.OptionalRWMutex{UseMutex: useMutex},
		entries:  swiss.NewMap[K, V](capacity),
		inflight: swiss.NewMap[K, *creation[V]](4),
	}
}

func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, ok := s.entries.Get(key)
	if ok {
		atomic.AddUint64(&s.hits, 1)
	}
	return value, ok
}

// GetOrCreate returns the value stored for key, calling create to build it if no value is
// present. The returned bool is true when this call created the value. An error from create
// leaves the store unchanged and is returned to every caller that waited on that creation.
func (s *Store[K, V]) GetOrCreate(key K, create func() (V, error)) (V, bool, error) {
	s.mutex.RLock()
	value, ok := s.entries.Get(key)
	s.mutex.RUnlock()

	if ok {
		atomic.AddUint64(&s.hits, 1)
		return value, false, nil
	}

	s.mutex.Lock()

	// Another thread may have published while we waited for the write lock
	value, ok = s.entries.Get(key)
	if ok {
		s.mutex.Unlock()
		atomic.AddUint64(&s.hits, 1)
		return value, false, nil
	}

	pending, ok := s.inflight.Get(key)
	if ok {
		s.mutex.Unlock()
		<-pending.done

		if pending.err != nil {
			var zero V
			return zero, false, pending.err
		}
		atomic.AddUint64(&s.hits, 1)
		return pending.value, false, nil
	}

	pending = &creation[V]{done: make(chan struct{})}
	s.inflight.Put(key, pending)
	atomic.AddUint64(&s.misses, 1)
	s.mutex.Unlock()

	s.runCreate(key, pending, create)
	if pending.err != nil {
		var zero V
		return zero, false, pending.err
	}
	return pending.value, true, nil
}

// runCreate publishes the result of create and wakes every waiter, even when create panics
func (s *Store[K, V]) runCreate(key K, pending *creation[V], create func() (V, error)) {
	pending.err = ErrCreationAborted
	defer func() {
		s.mutex.Lock()
		s.inflight.Delete(key)
		if pending.err == nil {
			s.entries.Put(key, pending.value)
		}
		s.mutex.Unlock()

		close(pending.done)
	}()

	pending.value, pending.err = create()
}

func (s *Store[K, V]) Remove(key K) (V, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	value, ok := s.entries.Get(key)
	if ok {
		s.entries.Delete(key)
	}
	return value, ok
}

// RemoveIf deletes every entry matching the predicate and returns the removed values
func (s *Store[K, V]) RemoveIf(predicate func(key K, value V) bool) []V {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var keys []K
	var values []V
	s.entries.Iter(func(key K, value V) bool {
		if predicate(key, value) {
			keys = append(keys, key)
			values = append(values, value)
		}
		return false
	})

	for _, key := range keys {
		s.entries.Delete(key)
	}

	return values
}

// Clear waits for creations already in flight, then empties the store and returns every value
// it held
func (s *Store[K, V]) Clear() []V {
	for {
		s.mutex.RLock()
		var pending *creation[V]
		s.inflight.Iter(func(_ K, value *creation[V]) bool {
			pending = value
			return true
		})
		s.mutex.RUnlock()

		if pending == nil {
			break
		}
		<-pending.done
	}

	return s.RemoveIf(func(K, V) bool { return true })
}

func (s *Store[K, V]) Range(callback func(key K, value V) bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	s.entries.Iter(func(key K, value V) bool {
		return !callback(key, value)
	})
}

func (s *Store[K, V]) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.entries.Count()
}

func (s *Store[K, V]) Statistics() Statistics {
	return Statistics{
		Entries: s.Len(),
		Hits:    atomic.LoadUint64(&s.hits),
		Misses:  atomic.LoadUint64(&s.misses),
	}
}

type Statistics struct {
	Entries int
	Hits    uint64
	Misses  uint64
}
