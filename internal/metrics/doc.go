// Package metrics records navigation resolve metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics cost
// nothing unless the watch command is started with --metrics-addr, which
// swaps in a PrometheusRecorder and serves it over HTTP:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	http.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
