package web

import (
	"hash/fnv"
	"sync"
)

// stripedLock serialises requests that touch the same session within this
// process. Distinct sessions usually land on different stripes.
type stripedLock [64]sync.Mutex

func (l *stripedLock) get(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &l[h.Sum32()%uint32(len(l))]
}
