/*
Package observability provides Prometheus instrumentation for the engine.

It exposes the collector set as lifecycle hooks, so wiring it up is one
option on the engine plus one route on whatever serves HTTP:

	metrics := observability.NewMetrics()
	eng := blockstep.New(blockstep.WithLifecycleHooks(metrics.Hooks()))
	http.Handle("/metrics", metrics.Handler())
*/
package observability
