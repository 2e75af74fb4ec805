package utils

import (
	"time"

	"github.com/paktum-network/paktum"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ paktum.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (r Logging) Check(ctx paktum.Context, store paktum.KVStore, tx paktum.Tx, next paktum.Checker) (*paktum.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	logDuration(ctx, start, "", err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx paktum.Context, store paktum.KVStore, tx paktum.Tx, next paktum.Deliverer) (*paktum.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var msg string
	if res != nil {
		msg = res.Log
	}
	logDuration(ctx, start, msg, err, false)
	return res, err
}

// logDuration writes information about the time and result
// to the logger
func logDuration(ctx paktum.Context, start time.Time, msg string, err error, debug bool) {
	delta := time.Now().Sub(start)
	logger := paktum.GetLogger(ctx).With("duration", micros(delta))

	if err != nil {
		logger = logger.With("err", err)
	}

	if err != nil {
		logger.Error(msg)
	} else if debug {
		logger.Debug(msg)
	} else {
		logger.Info(msg)
	}
}

// micros returns how many microseconds passed in duration
func micros(d time.Duration) int64 {
	return int64(d) / 1000
}
