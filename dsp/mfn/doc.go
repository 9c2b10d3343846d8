// Package mfn implements the multi-feedback network: a directed graph of
// delay nodes whose outputs feed each other through gain-weighted
// connections.
//
// A [Graph] is assembled with a [Builder] and is immutable once built. The
// engine processes audio in fixed blocks. Every node accumulates the scaled
// input plus the delayed outputs of the nodes connected to it, optionally
// saturates the sum ("chaos"), writes it to its ring buffer and contributes
// its delayed tap to the output mix. Connections read at least one block in
// the past, so feedback always carries one block of latency.
//
// Two interchangeable kernels run the block step: a portable per-sample
// kernel and a vector kernel built on algo-vecmath block operations. The
// kernel is picked from the detected CPU features unless one is named with
// [WithKernel]. An RMS watchdog scales down blocks when the network's
// average level runs away.
package mfn
