// Package cli wires configuration into a running engine and implements the
// command behaviour shared by the stylist binary.
package cli
