package lock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyMutexSerializesSameKey(t *testing.T) {
	km := NewKeyMutex()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("property:1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, km.Len())
}

func TestKeyMutexIndependentKeys(t *testing.T) {
	km := NewKeyMutex()

	unlockA := km.Lock("a")

	done := make(chan struct{})
	go func() {
		unlockB := km.Lock("b")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on independent key should not block")
	}

	unlockA()
	assert.Equal(t, 0, km.Len())
}

func TestKeyMutexBlocksUntilReleased(t *testing.T) {
	km := NewKeyMutex()

	unlock := km.Lock("contract:9")

	acquired := make(chan struct{})
	go func() {
		u := km.Lock("contract:9")
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first still held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired after release")
	}
}

func TestKeyMutexUnlockIsIdempotent(t *testing.T) {
	km := NewKeyMutex()

	unlock := km.Lock("x")
	unlock()
	assert.NotPanics(t, func() { unlock() })
	assert.Equal(t, 0, km.Len())
}

func TestKeyMutexEntriesAreReclaimed(t *testing.T) {
	km := NewKeyMutex()

	for i := 0; i < 100; i++ {
		unlock := km.Lock(string(rune('a' + i%26)))
		unlock()
	}
	assert.Equal(t, 0, km.Len())
}
