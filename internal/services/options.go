package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"smartbudget/internal/log"
)

// ChangePublisher announces a completed mutation to other processes.
// Implementations must not block the caller for long; failures are logged
// and never undo the mutation.
type ChangePublisher interface {
	PublishChange(ctx context.Context, collection, operation, recordKey string) error
}

type Option func(*options)

type options struct {
	publisher ChangePublisher
	logger    *log.Logger
	now       func() time.Time
	newID     func() string
}

func defaultOptions(component string) options {
	return options{
		logger: log.New(log.DefaultConfig()).WithComponent(component),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// WithPublisher announces every successful mutation through p.
func WithPublisher(p ChangePublisher) Option {
	return func(o *options) { o.publisher = p }
}

// WithLogger replaces the service logger. The component name is kept.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l.WithComponent(o.logger.Component())
		}
	}
}

// WithClock sets the time source used for default dates.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator sets how new transaction IDs are produced.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) { o.newID = gen }
}

func buildOptions(component string, opts []Option) options {
	o := defaultOptions(component)
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// publish sends a change event when a publisher is configured.
func (o options) publish(ctx context.Context, collection, operation, key string) {
	if o.publisher == nil {
		return
	}
	if err := o.publisher.PublishChange(ctx, collection, operation, key); err != nil {
		o.logger.ErrorContext(ctx, "Failed to publish change event",
			log.FieldCollection, collection,
			log.FieldOperation, operation,
			log.FieldErrorType, log.ErrorTypeNetwork,
			log.FieldError, err)
	}
}
