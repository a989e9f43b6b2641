// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary lifecycle: build a registry
// from compiled-in providers, turn a manifest into modules, and expose the
// registry over the health check server. It is decoupled from any specific
// entrypoint like a CLI or server.
package app
