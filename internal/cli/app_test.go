package cli

import (
	"context"
	stdsync "sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adubois/patrontheque/internal/logging"
)

func TestSetMode_SafeUnderConcurrentReads(t *testing.T) {
	a := &App{log: logging.NewDiscard(), mode: ModeOffline}
	ctx := context.Background()

	var wg stdsync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if (n+j)%2 == 0 {
					a.setMode(ctx, ModeOnline)
				} else {
					a.setMode(ctx, ModeOffline)
				}
				_ = a.Mode()
			}
		}(i)
	}
	wg.Wait()

	mode := a.Mode()
	assert.Contains(t, []Mode{ModeOnline, ModeOffline}, mode)
}

func TestSetMode_FlipsMode(t *testing.T) {
	a := &App{log: logging.NewDiscard(), mode: ModeOffline}
	ctx := context.Background()

	a.setMode(ctx, ModeOnline)
	assert.Equal(t, ModeOnline, a.Mode())

	a.setMode(ctx, ModeOffline)
	assert.Equal(t, ModeOffline, a.Mode())
}
