//go:build integration

package integrationtest

import (
	"context"
	"fmt"
	"net"
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/testcontainers/testcontainers-go/wait"
)

// brokers lists the ways a test broker can be started.
var brokers = []struct {
	name  string
	start func(t *testing.T) []string
}{
	{
		name:  "redpanda",
		start: func(t *testing.T) []string { return startRedpanda(t, "latest").seeds },
	},
	{
		name:  "redpanda-module",
		start: startRedpandaModule,
	},
}

// broker is a single-node Redpanda running for the duration of a test.
type broker struct {
	version   string
	container testcontainers.Container
	seeds     []string
}

func startRedpanda(t *testing.T, version string) *broker {
	t.Helper()
	ctx := context.Background()

	// Redpanda advertises the address it listens on, so host and container
	// port must match.
	port, err := freePort()
	if err != nil {
		t.Fatal(err)
	}
	req := testcontainers.ContainerRequest{
		Image:        "docker.redpanda.com/redpandadata/redpanda:" + version,
		WaitingFor:   wait.ForLog("Successfully started Redpanda!"),
		User:         "root:root",
		ExposedPorts: []string{fmt.Sprintf("%d:%d/tcp", port, port)},
		Cmd: []string{
			"redpanda", "start",
			"--smp", "1",
			"--reserve-memory", "0M",
			"--overprovisioned",
			"--node-id", "0",
			"--kafka-addr", fmt.Sprintf("OUTSIDE://0.0.0.0:%d", port),
		},
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := c.Terminate(context.Background()); err != nil {
			t.Logf("terminate redpanda: %v", err)
		}
	})

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	mapped, err := c.MappedPort(ctx, nat.Port(fmt.Sprintf("%d/tcp", port)))
	if err != nil {
		t.Fatal(err)
	}

	return &broker{
		version:   version,
		container: c,
		seeds:     []string{fmt.Sprintf("%s:%d", host, mapped.Int())},
	}
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// startRedpandaModule starts Redpanda through the testcontainers module.
func startRedpandaModule(t *testing.T) []string {
	t.Helper()
	ctx := context.Background()

	c, err := redpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v23.3.3")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := c.Terminate(context.Background()); err != nil {
			t.Logf("terminate redpanda: %v", err)
		}
	})

	seed, err := c.KafkaSeedBroker(ctx)
	if err != nil {
		t.Fatal(err)
	}
	return []string{seed}
}
