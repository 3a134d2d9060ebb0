package worker

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/baharkarakas/recipe-api/internal/logger"
)

func TestPoolRunsAllTasks(t *testing.T) {
	p := NewPool(4, 64, logger.Discard())
	var n atomic.Int32
	for i := 0; i < 50; i++ {
		assert.True(t, p.Submit(func() { n.Add(1) }))
	}
	p.Stop()
	assert.Equal(t, int32(50), n.Load())
}

func TestPoolSurvivesPanic(t *testing.T) {
	p := NewPool(1, 4, logger.Discard())
	var ran atomic.Bool
	p.Submit(func() { panic("boom") })
	p.Submit(func() { ran.Store(true) })
	p.Stop()
	assert.True(t, ran.Load())
}

func TestPoolSubmitAfterStop(t *testing.T) {
	p := NewPool(1, 1, logger.Discard())
	p.Stop()
	p.Stop()
	assert.False(t, p.Submit(func() {}))
}

func TestPoolDropsWhenFull(t *testing.T) {
	p := NewPool(1, 1, logger.Discard())
	block := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	p.Submit(func() {
		once.Do(func() { close(started) })
		<-block
	})
	<-started

	assert.True(t, p.Submit(func() {}))
	assert.False(t, p.Submit(func() {}))
	close(block)
	p.Stop()
}
