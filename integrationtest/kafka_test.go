//go:build integration

package integrationtest

import (
	"context"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/consecution"
	"github.com/birdayz/consecution/kafka"
	"github.com/birdayz/consecution/kserde"
	"github.com/birdayz/consecution/processors"
	"github.com/go-logr/logr/testr"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

type word struct {
	Text string `json:"text"`
	N    int    `json:"n"`
}

func TestKafkaRoundTrip(t *testing.T) {
	for _, b := range brokers {
		t.Run(b.name, func(t *testing.T) {
			roundTrip(t, b.start(t))
		})
	}
}

func roundTrip(t *testing.T, seeds []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	admin, err := kgo.NewClient(kgo.SeedBrokers(seeds...))
	assert.NoError(t, err)
	defer admin.Close()
	resp, err := kadm.NewClient(admin).CreateTopics(ctx, 1, 1, nil, "words", "words-out")
	assert.NoError(t, err)
	for _, r := range resp {
		assert.NoError(t, r.Err)
	}

	in := []word{{"even", 0}, {"odd", 1}, {"even", 2}, {"odd", 3}}
	for _, w := range in {
		v, err := kserde.JSON[word]().Serializer(w)
		assert.NoError(t, err)
		assert.NoError(t, admin.ProduceSync(ctx, &kgo.Record{Topic: "words", Value: v}).FirstErr())
	}

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(seeds...),
		kgo.ConsumeTopics("words"),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	assert.NoError(t, err)
	defer consumer.Close()

	log := testr.New(t)
	bld := consecution.NewBuilder(consecution.WithBuilderLogr(log))
	evens, odds := bld.MustAddNode("evens", processors.Collect[word]("evens")), bld.MustAddNode("odds", processors.Collect[word]("odds"))
	parity := consecution.RouteByIndex("parity", func(item any) (int, error) {
		return item.(word).N % 2, nil
	})
	top := consecution.MustChain(
		bld.MustAddNode("sink", kafka.NewSink(consumer, "words-out", kserde.JSON[word]().Serializer)),
		[]any{evens, odds, parity},
	)
	p := consecution.MustNew(top, consecution.WithLogr(log))

	_, err = kafka.NewSource(consumer, kserde.JSON[word]().Deserializer, kafka.WithLimit(len(in)), kafka.WithLogr(log)).Run(ctx, p)
	assert.NoError(t, err)

	got, _ := consecution.Value[[]word](p.GlobalState(), "evens")
	assert.Equal(t, []word{{"even", 0}, {"even", 2}}, got)
	got, _ = consecution.Value[[]word](p.GlobalState(), "odds")
	assert.Equal(t, []word{{"odd", 1}, {"odd", 3}}, got)

	verify, err := kgo.NewClient(
		kgo.SeedBrokers(seeds...),
		kgo.ConsumeTopics("words-out"),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	assert.NoError(t, err)
	defer verify.Close()

	var produced []string
	for len(produced) < len(in) {
		f := verify.PollFetches(ctx)
		assert.NoError(t, f.Err())
		f.EachRecord(func(r *kgo.Record) {
			produced = append(produced, string(r.Value))
		})
	}
	assert.Equal(t, `{"text":"even","n":0}`, produced[0])
}
