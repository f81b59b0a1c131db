package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/salesrace/pitwall/internal/modules/pipeline"
	"github.com/salesrace/pitwall/internal/modules/workbook"
)

// Refresher publishes a freshly ingested workbook as the latest dataset
type Refresher interface {
	Refresh(ctx context.Context, src workbook.Source, sheet string) (*pipeline.Result, error)
}

// FeedStatus describes the outcome of the most recent feed refresh
type FeedStatus struct {
	Source      string    `json:"source"`
	LastRun     time.Time `json:"last_run"`
	LastSuccess time.Time `json:"last_success"`
	LastError   string    `json:"last_error,omitempty"`
	DatasetID   string    `json:"dataset_id,omitempty"`
	Runs        int       `json:"runs"`
	Failures    int       `json:"failures"`
}

// FeedRefreshJob re-reads the configured workbook and publishes it
type FeedRefreshJob struct {
	log       zerolog.Logger
	refresher Refresher
	source    workbook.Source
	sheet     string
	timeout   time.Duration
	now       func() time.Time

	runMu  sync.Mutex // one refresh at a time
	mu     sync.RWMutex
	status FeedStatus
}

// NewFeedRefreshJob creates a new FeedRefreshJob
func NewFeedRefreshJob(refresher Refresher, source workbook.Source, sheet string, log zerolog.Logger) *FeedRefreshJob {
	return &FeedRefreshJob{
		log:       log.With().Str("job", "feed_refresh").Logger(),
		refresher: refresher,
		source:    source,
		sheet:     sheet,
		timeout:   2 * time.Minute,
		now:       time.Now,
		status:    FeedStatus{Source: source.String()},
	}
}

// Name returns the job name
func (j *FeedRefreshJob) Name() string {
	return "feed_refresh"
}

// Run fetches and ingests the workbook. A failed run leaves the
// previously published dataset untouched. Overlapping calls from the
// cron tick and the manual trigger run one after the other.
func (j *FeedRefreshJob) Run() error {
	j.runMu.Lock()
	defer j.runMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	started := j.now()
	result, err := j.refresher.Refresh(ctx, j.source, j.sheet)

	j.mu.Lock()
	defer j.mu.Unlock()

	j.status.Runs++
	j.status.LastRun = started
	if err != nil {
		j.status.Failures++
		j.status.LastError = err.Error()
		j.log.Warn().Err(err).Str("source", j.status.Source).Msg("Feed refresh failed, keeping previous dataset")
		return err
	}

	j.status.LastSuccess = started
	j.status.LastError = ""
	j.status.DatasetID = result.ID
	j.log.Info().
		Str("source", j.status.Source).
		Str("dataset_id", result.ID).
		Int("records", len(result.Performers)).
		Msg("Feed refreshed")
	return nil
}

// Status returns a snapshot of the last refresh outcome
func (j *FeedRefreshJob) Status() FeedStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status
}
