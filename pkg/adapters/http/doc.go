// Package http exposes the guided styling flow as a JSON API with a websocket event stream.
package http
