// Command example_kafka consumes lines from one topic, upper-cases them and
// produces them to another, counting runs of equal lines on the way.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/birdayz/consecution"
	"github.com/birdayz/consecution/kafka"
	"github.com/birdayz/consecution/kserde"
	"github.com/birdayz/consecution/pkg/log"
	"github.com/birdayz/consecution/processors"
	"github.com/twmb/franz-go/pkg/kgo"
)

func main() {
	brokers := flag.String("brokers", "localhost:9092", "comma separated seed brokers")
	in := flag.String("in", "lines", "topic to consume")
	out := flag.String("out", "lines-upper", "topic to produce to")
	limit := flag.Int("limit", 0, "stop after this many records, 0 for no limit")
	flag.Parse()

	logger := log.New(log.WithFormat(log.FormatTint), log.WithVerbosity(1))

	client, err := kgo.NewClient(
		kgo.SeedBrokers(strings.Split(*brokers, ",")...),
		kgo.ConsumeTopics(*in),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		logger.Error(err, "Failed to create kafka client")
		os.Exit(1)
	}
	defer client.Close()

	bld := consecution.NewBuilder()
	top := consecution.MustChain(
		bld.MustAddNode("upper", processors.Map(func(s string) (string, error) { return strings.ToUpper(s), nil })),
		bld.MustAddNode("sink", kafka.NewSink(client, *out, kserde.String.Serializer,
			kafka.WithSinkLogr[string](logger))),
		bld.MustAddGroupByNode("runs", processors.Counter(func(s string) string { return s })),
		bld.MustAddNode("report", processors.ForEach(func(c processors.Count[string]) {
			logger.Info("Run", "line", c.Key, "count", c.N)
		})),
	)
	p := consecution.MustNew(top, consecution.WithLogr(logger))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	src := kafka.NewSource(client, kserde.String.Deserializer, kafka.WithLimit(*limit), kafka.WithLogr(logger))
	if _, err := src.Run(ctx, p); err != nil {
		logger.Error(err, "Pipeline failed")
		os.Exit(1)
	}
}
