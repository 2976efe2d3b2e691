package reconciler

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/sheetlink/pkg/errors"
	"github.com/agentstation/sheetlink/pkg/logging"
)

type options struct {
	sheets Sheets
	logger *zerolog.Logger
	now    func() time.Time
}

func defaultOptions() *options {
	return &options{
		logger: logging.Default(),
		now:    time.Now,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithSheets sets the spreadsheet client used by Export, LoadSheet and Import.
func WithSheets(s Sheets) Option {
	return func(o *options) error {
		if s == nil {
			return &errors.ValidationError{Field: "sheets", Message: "cannot be nil"}
		}
		o.sheets = s
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger != nil {
			o.logger = logger
		}
		return nil
	}
}

// WithClock sets the time source for snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return &errors.ValidationError{Field: "clock", Message: "cannot be nil"}
		}
		o.now = now
		return nil
	}
}
