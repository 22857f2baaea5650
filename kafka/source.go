// Package kafka feeds pipelines from Kafka topics and produces pipeline
// items back to Kafka.
package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/birdayz/consecution"
	"github.com/birdayz/consecution/kserde"
	"github.com/go-logr/logr"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Poller is the consuming half of *kgo.Client.
type Poller interface {
	PollRecords(ctx context.Context, maxRecords int) kgo.Fetches
}

var _ Poller = (*kgo.Client)(nil)

// Source consumes records and pushes their decoded values into a pipeline.
type Source[T any] struct {
	poller Poller
	decode kserde.Deserializer[T]
	cfg    sourceConfig
}

type sourceConfig struct {
	maxPollRecords int
	limit          int
	log            logr.Logger
}

type SourceOption func(*sourceConfig)

// WithMaxPollRecords caps the records returned by a single poll. Defaults to
// 500.
var WithMaxPollRecords = func(n int) SourceOption {
	return func(c *sourceConfig) {
		c.maxPollRecords = n
	}
}

// WithLimit stops the source after n records. Zero means no limit.
var WithLimit = func(n int) SourceOption {
	return func(c *sourceConfig) {
		c.limit = n
	}
}

var WithLogr = func(log logr.Logger) SourceOption {
	return func(c *sourceConfig) {
		c.log = log
	}
}

func NewSource[T any](poller Poller, decode kserde.Deserializer[T], opts ...SourceOption) *Source[T] {
	cfg := sourceConfig{
		maxPollRecords: 500,
		log:            logr.Discard(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Source[T]{poller: poller, decode: decode, cfg: cfg}
}

// Run begins p and pushes every consumed record into it until ctx is done,
// the client is closed or the limit is reached. It then ends p and returns
// the result of End.
//
// A fetch, decode or processing error aborts the run without ending p.
func (s *Source[T]) Run(ctx context.Context, p *consecution.Pipeline) (any, error) {
	if err := p.Begin(ctx); err != nil {
		return nil, err
	}

	consumed := 0
	for !s.done(consumed) {
		f := s.poller.PollRecords(ctx, s.cfg.maxPollRecords)
		if stop, err := s.checkFetches(f); err != nil {
			return nil, err
		} else if stop {
			break
		}

		it := f.RecordIter()
		for !it.Done() && !s.done(consumed) {
			r := it.Next()
			v, err := s.decode(r.Value)
			if err != nil {
				return nil, fmt.Errorf("decode %s/%d@%d: %w", r.Topic, r.Partition, r.Offset, err)
			}
			if err := p.Push(ctx, v); err != nil {
				return nil, err
			}
			consumed++
		}

		if ctx.Err() != nil {
			break
		}
	}

	s.cfg.log.V(1).Info("Source stopped", "consumed", consumed)
	return p.End(context.WithoutCancel(ctx))
}

func (s *Source[T]) done(consumed int) bool {
	return s.cfg.limit > 0 && consumed >= s.cfg.limit
}

// checkFetches reports whether polling should stop, or the fetch error that
// aborts the run.
func (s *Source[T]) checkFetches(f kgo.Fetches) (bool, error) {
	if f.IsClientClosed() {
		return true, nil
	}
	for _, fe := range f.Errors() {
		switch {
		case errors.Is(fe.Err, context.Canceled), errors.Is(fe.Err, kgo.ErrClientClosed):
			return true, nil
		case errors.Is(fe.Err, context.DeadlineExceeded):
			continue
		case kerr.IsRetriable(fe.Err):
			s.cfg.log.V(1).Info("Retrying fetch", "topic", fe.Topic, "partition", fe.Partition, "error", fe.Err.Error())
			continue
		}
		s.cfg.log.Error(fe.Err, "Fetch failed", "topic", fe.Topic, "partition", fe.Partition)
		return false, fmt.Errorf("fetch error on topic %s, partition %d: %w", fe.Topic, fe.Partition, fe.Err)
	}
	return false, nil
}
