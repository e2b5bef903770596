package sanitation

import (
	"fmt"
	"time"

	"hfgwas/api/models"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

type (
	RunEvictor interface {
		EvictRunsOlderThan(cutoff time.Time) int
	}

	SanitationService struct {
		Initialized bool
		Config      *models.Config
		Runs        RunEvictor
		Scheduler   *gocron.Scheduler
	}
)

func NewSanitationService(runs RunEvictor, cfg *models.Config) *SanitationService {
	ss := &SanitationService{
		Initialized: false,
		Config:      cfg,
		Runs:        runs,
	}

	ss.Init()

	return ss
}

func (ss *SanitationService) Init() {
	// initialization if necessary
	if !ss.Initialized {
		// - periodically drop finished pipeline runs whose
		//   retention period has elapsed so the run registry
		//   does not grow without bound
		s := gocron.NewScheduler(time.UTC)

		s.Every(1).Hours().Do(func() {
			fmt.Printf("[%s] - Running pipeline run cleanup..\n", time.Now())
			ss.Sanitize(time.Now())
		})

		s.StartAsync()
		ss.Scheduler = s

		ss.Initialized = true
		fmt.Println("Sanitation Service Initialized ..")
	}
}

// Sanitize evicts runs last updated more than the retention period before now.
// A non-positive retention keeps every run.
func (ss *SanitationService) Sanitize(now time.Time) int {
	retention := time.Duration(ss.Config.Api.RunRetentionHours) * time.Hour
	if retention <= 0 {
		return 0
	}

	evicted := ss.Runs.EvictRunsOlderThan(now.Add(-retention))
	if evicted > 0 {
		logrus.WithField("evicted", evicted).Info("evicted expired pipeline runs")
	}
	return evicted
}

func (ss *SanitationService) Stop() {
	if ss.Scheduler != nil {
		ss.Scheduler.Stop()
	}
}
