/*
Package observability provides tools for monitoring a calculator deployment.

It turns the engine's lifecycle hooks into Prometheus metrics and structured
log lines. Hooks from several sources can be combined with Chain.
*/
package observability
