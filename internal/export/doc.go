// Package export dumps stored telemetry to CSV for post-flight analysis.
package export
