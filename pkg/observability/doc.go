/*
Package observability provides tools for monitoring the Stylist session engine.

It turns lifecycle hooks into structured log lines and Prometheus metrics, and
lets hosts compose several hook sets into one.
*/
package observability
