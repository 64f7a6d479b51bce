/*
Package metrics implements the collection of the sitetree metrics with
Prometheus.

The collected metrics include the duration of the path resolutions, the
number of paths that didn't resolve, the outcome of the rebuilds of the
resolver, the number of declared routes and pages currently served, the
number of times the response composition waited for a pending value, and
the duration of the responses by status code and endpoint.

To expose the metrics, register the handler on a mux served by the
support listener:

	m := metrics.NewPrometheus(metrics.Options{})
	mux := http.NewServeMux()
	m.RegisterHandler("/metrics", mux)
*/
package metrics
