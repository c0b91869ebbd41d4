package util

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLocker(t *testing.T) {
	locker := NewKeyLocker()
	k1 := "records/1"
	k2 := "records/2"

	assert.True(t, locker.TryLock(k1))
	assert.False(t, locker.TryLock(k1))
	assert.False(t, locker.TryRLock(k1))
	assert.True(t, locker.TryLock(k2))
	assert.Equal(t, 2, locker.Held())
	locker.Unlock(k1)
	locker.Unlock(k2)
	assert.Equal(t, 0, locker.Held())

	assert.Panics(t, func() {
		locker.Unlock(k1)
	})
	assert.Panics(t, func() {
		locker.RUnlock(k1)
	})

	var wg sync.WaitGroup
	for i := 0; i < 7; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, locker.TryRLock(k1))
		}()
	}
	wg.Wait()

	assert.Panics(t, func() {
		locker.Unlock(k1)
	})
	assert.False(t, locker.TryLock(k1))
	assert.True(t, locker.TryRLock(k1))
	assert.Equal(t, 1, locker.Held())

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locker.RUnlock(k1)
		}()
	}
	wg.Wait()

	assert.Panics(t, func() {
		locker.RUnlock(k1)
	})
	assert.True(t, locker.TryLock(k1))
}

func TestKeyLocker_Exclusive(t *testing.T) {
	locker := NewKeyLocker()
	var wg sync.WaitGroup
	var mtx sync.Mutex
	winners := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if locker.TryLock("k") {
				mtx.Lock()
				winners++
				mtx.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
}
