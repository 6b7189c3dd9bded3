// Package telemetry exposes engine activity as Prometheus metrics.
package telemetry
