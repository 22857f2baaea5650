// Package integrationtest runs pipelines against a Redpanda broker started
// with testcontainers. Run with:
//
//	go test -tags integration ./integrationtest/...
package integrationtest
