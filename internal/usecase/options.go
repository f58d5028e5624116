package usecase

import "time"

// Option customizes a usecase.
type Option func(*options)

type options struct {
	now       func() time.Time
	batchSize int
}

// WithClock overrides time.Now, which is read once per operation.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithBatchSize sets how many rows the sweeper loads per batch.
func WithBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now:       func() time.Time { return time.Now().UTC() },
		batchSize: sweepBatchSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
