package sanitation

import (
	"sync"
	"testing"
	"time"

	"hfgwas/api/tests/common"

	"github.com/stretchr/testify/assert"
)

type fakeEvictor struct {
	mux     sync.Mutex
	cutoffs []time.Time
	evict   int
}

func (f *fakeEvictor) EvictRunsOlderThan(cutoff time.Time) int {
	f.mux.Lock()
	defer f.mux.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.evict
}

func TestInit(t *testing.T) {
	ss := NewSanitationService(&fakeEvictor{}, common.InitConfig())
	defer ss.Stop()

	assert.True(t, ss.Initialized)
	assert.NotNil(t, ss.Scheduler)
}

func TestSanitize(t *testing.T) {
	cfg := common.InitConfig()
	cfg.Api.RunRetentionHours = 6

	runs := &fakeEvictor{evict: 3}
	ss := &SanitationService{Config: cfg, Runs: runs}

	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, ss.Sanitize(now))
	assert.Equal(t, []time.Time{now.Add(-6 * time.Hour)}, runs.cutoffs)
}

func TestSanitizeWithoutRetention(t *testing.T) {
	cfg := common.InitConfig()
	cfg.Api.RunRetentionHours = 0

	runs := &fakeEvictor{evict: 3}
	ss := &SanitationService{Config: cfg, Runs: runs}

	assert.Equal(t, 0, ss.Sanitize(time.Now()))
	assert.Empty(t, runs.cutoffs)
}
