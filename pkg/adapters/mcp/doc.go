// Package mcp exposes the guided styling flow as Model Context Protocol tools.
//
// Every session tool waits for the issued step transition or reply before returning.
package mcp
