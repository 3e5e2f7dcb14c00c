package gallery

import (
	"context"
	"fmt"
	"time"

	"github.com/lumiforge/video-bridge/internal/backend"
	app_errors "github.com/lumiforge/video-bridge/internal/errors"
	"github.com/lumiforge/video-bridge/internal/logger"
)

const (
	PollInterval    = 10 * time.Second
	PollMaxAttempts = 30
)

// PollResult says how polling ended.
type PollResult struct {
	JobStatus    string
	ErrorMessage string
	Attempts     int
	Err          error
}

// Poller checks a processing job until it reaches a terminal status.
type Poller struct {
	api         VideoAPI
	interval    time.Duration
	maxAttempts int
}

func NewPoller(api VideoAPI) *Poller {
	return &Poller{api: api, interval: PollInterval, maxAttempts: PollMaxAttempts}
}

// Poll waits one interval before each check. It stops on "completed",
// "failed", a request error, attempt exhaustion or ctx cancellation;
// onCheck is called with every status received.
func (p *Poller) Poll(ctx context.Context, id int64, onCheck func(backend.ProcessingStatus)) PollResult {
	log := logger.FromContext(ctx).With("video_id", id)
	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	var res PollResult
	for res.Attempts < p.maxAttempts {
		select {
		case <-ctx.Done():
			res.Err = ctx.Err()
			return res
		case <-timer.C:
		}

		st, err := p.api.GetStatus(ctx, id)
		res.Attempts++
		if err != nil {
			log.Error("Status polling error", "error", err)
			res.Err = fmt.Errorf("%w: %w", app_errors.ErrStatusFailed, err)
			return res
		}
		if onCheck != nil {
			onCheck(*st)
		}

		res.JobStatus = st.JobStatus
		switch st.JobStatus {
		case backend.JobCompleted:
			log.Info("Video processing completed")
			return res
		case backend.JobFailed:
			if st.ErrorMessage != nil {
				res.ErrorMessage = *st.ErrorMessage
			}
			log.Error("Video processing failed", "error", res.ErrorMessage)
			return res
		}
		timer.Reset(p.interval)
	}
	return res
}
