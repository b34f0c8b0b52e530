// Package sim generates synthetic telemetry for bench testing.
//
// With no radio hardware on the bench, the simulator stands in for the link:
// it submits randomized packets across every sensor channel at a fixed rate so
// the full pipeline, router through store, runs end to end.
package sim
