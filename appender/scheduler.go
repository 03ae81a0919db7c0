package appender

import (
	"time"

	"github.com/relex/gotils/channels"
	"github.com/relex/gotils/logger"
	"github.com/relex/slog-loki/defs"
)

// drainScheduler invokes drain periodically in its own goroutine, starting after defs.DrainWarmupDelay
type drainScheduler struct {
	logger      logger.Logger
	interval    time.Duration
	drain       func(timeout time.Duration)
	stopRequest *channels.SignalAwaitable
	stopped     *channels.SignalAwaitable
}

func launchDrainScheduler(parentLogger logger.Logger, interval time.Duration, drain func(timeout time.Duration)) *drainScheduler {
	sch := &drainScheduler{
		logger:      parentLogger.WithField(defs.LabelPart, "scheduler"),
		interval:    interval,
		drain:       drain,
		stopRequest: channels.NewSignalAwaitable(),
		stopped:     channels.NewSignalAwaitable(),
	}
	go sch.run()
	return sch
}

// Stop stops the timer and waits for the running drain if any
func (sch *drainScheduler) Stop() {
	sch.stopRequest.Signal()
	sch.stopped.WaitForever()
}

// Stopped returns an Awaitable which is signaled when the scheduler goroutine exits
func (sch *drainScheduler) Stopped() channels.Awaitable {
	return sch.stopped
}

func (sch *drainScheduler) run() {
	defer sch.stopped.Signal()

	warmup := time.NewTimer(defs.DrainWarmupDelay)
	select {
	case <-sch.stopRequest.Channel():
		warmup.Stop()
		return
	case <-warmup.C:
	}

	ticker := time.NewTicker(sch.interval)
	defer ticker.Stop()
	sch.logger.Debugf("start draining every %s", sch.interval)
	sch.tick()
	for {
		select {
		case <-sch.stopRequest.Channel():
			sch.logger.Debug("stop draining")
			return
		case <-ticker.C:
			sch.tick()
		}
	}
}

func (sch *drainScheduler) tick() {
	timeout := sch.interval - defs.DrainTimeoutCompensation
	if timeout <= 0 {
		timeout = sch.interval
	}
	sch.drain(timeout)
}
