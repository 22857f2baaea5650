package kafka

import (
	"context"
	"fmt"

	"github.com/birdayz/consecution"
	"github.com/birdayz/consecution/kserde"
	"github.com/go-logr/logr"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/multierr"
)

// Producer is the producing half of *kgo.Client.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Flush(ctx context.Context) error
}

var _ Producer = (*kgo.Client)(nil)

// Sink is a processor producing every item it receives to a topic, then
// handing the item on. It can sit anywhere in a pipeline.
type Sink[T any] struct {
	producer Producer
	topic    string
	encode   kserde.Serializer[any]
	key      func(T) ([]byte, error)
	log      logr.Logger

	produced int
}

type SinkOption[T any] func(*Sink[T])

// WithKey sets the record key of every item. Records have no key by default.
func WithKey[T any](fn func(T) ([]byte, error)) SinkOption[T] {
	return func(s *Sink[T]) {
		s.key = fn
	}
}

func WithSinkLogr[T any](log logr.Logger) SinkOption[T] {
	return func(s *Sink[T]) {
		s.log = log
	}
}

func NewSink[T any](producer Producer, topic string, encode kserde.Serializer[T], opts ...SinkOption[T]) *Sink[T] {
	s := &Sink[T]{
		producer: producer,
		topic:    topic,
		encode:   kserde.Erase(encode),
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	_ consecution.Processor = (*Sink[any])(nil)
	_ consecution.Beginner  = (*Sink[any])(nil)
	_ consecution.Ender     = (*Sink[any])(nil)
)

func (s *Sink[T]) Begin(ctx consecution.Context) error {
	s.produced = 0
	return nil
}

func (s *Sink[T]) Process(ctx consecution.Context, item any) error {
	value, err := s.encode(item)
	if err != nil {
		return err
	}
	r := &kgo.Record{Topic: s.topic, Value: value}
	if s.key != nil {
		// encode already checked the type.
		if r.Key, err = s.key(item.(T)); err != nil {
			return err
		}
	}

	if err := produceErr(s.producer.ProduceSync(ctx, r)); err != nil {
		return fmt.Errorf("produce to %s: %w", s.topic, err)
	}
	s.produced++
	return ctx.Push(item)
}

// End flushes anything still buffered by the client.
func (s *Sink[T]) End(ctx consecution.Context) error {
	if err := s.producer.Flush(ctx); err != nil {
		return fmt.Errorf("flush %s: %w", s.topic, err)
	}
	s.log.V(1).Info("Sink flushed", "node", ctx.Name(), "topic", s.topic, "produced", s.produced)
	return nil
}

// Produced returns the number of records produced since the pipeline began.
func (s *Sink[T]) Produced() int {
	return s.produced
}

func produceErr(results kgo.ProduceResults) error {
	var errs error
	for _, r := range results {
		errs = multierr.Append(errs, r.Err)
	}
	return errs
}
