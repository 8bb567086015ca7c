// Package telemetry wires OpenTelemetry exporters and meters for the sluice
// admission pipeline.
//
// It centralises trace provider setup, applies service resource attributes,
// and offers recording helpers that attach admission outcomes to spans and
// instruments so operators can correlate rejections with client behaviour
// without ever exporting the rejected content itself.
package telemetry
