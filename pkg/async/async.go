package async

import "sync"

// ConcurrentMap is a mutex-guarded map safe for use as a shared registry.
// The zero value is ready to use.
type ConcurrentMap[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

// initForWrite caller must hold the write lock. Read operations must all be
// compatible with a nil map instead.
func (cm *ConcurrentMap[K, V]) initForWrite() {
	if cm.m == nil {
		cm.m = make(map[K]V)
	}
}

func (cm *ConcurrentMap[K, V]) Len() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.m)
}

func (cm *ConcurrentMap[K, V]) Set(k K, v V) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.initForWrite()
	cm.m[k] = v
}

// SetIfAbsent stores v under k only when no value is present, returning
// whether the store happened.
func (cm *ConcurrentMap[K, V]) SetIfAbsent(k K, v V) bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.initForWrite()
	if _, ok := cm.m[k]; ok {
		return false
	}
	cm.m[k] = v
	return true
}

func (cm *ConcurrentMap[K, V]) Get(k K) (v V, ok bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	if cm.m != nil {
		v, ok = cm.m[k]
	}
	return
}

func (cm *ConcurrentMap[K, V]) Delete(k K) (v V, existed bool) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.m != nil {
		v, existed = cm.m[k]
		delete(cm.m, k)
	}
	return
}

func (cm *ConcurrentMap[K, V]) Keys() []K {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	keys := make([]K, 0, len(cm.m))
	for k := range cm.m {
		keys = append(keys, k)
	}
	return keys
}

func (cm *ConcurrentMap[K, V]) Each(f func(k K, v V) (stop bool)) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	for k, v := range cm.m {
		if f(k, v) {
			return
		}
	}
}
