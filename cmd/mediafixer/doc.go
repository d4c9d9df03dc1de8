// Package main hosts the mediafixer CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into scan and
// work phases over a library tree, queue inspection and maintenance, leftover
// cleanup, and configuration scaffolding. It centralizes configuration
// resolution, queue discovery, and structured logging setup so subcommands
// can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
