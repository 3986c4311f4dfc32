// Package main hosts the medredact CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, builds the redaction
// engine, and hands work to the internal packages: record adapters for input
// and output, the batch runner for concurrency, and the history store for the
// run ledger. Commands that print source text (explain, dictionary check) are
// meant for local tuning and say so on stderr.
package main
