// Package metrics provides scan metrics for resourcescan.
//
// Components receive a Recorder through dependency injection. NoopRecorder is the
// default so callers never nil-check; PrometheusRecorder is swapped in when a
// metrics textfile is configured, and WriteTextfile exports the registry in the
// node_exporter textfile-collector format once the run ends.
package metrics
