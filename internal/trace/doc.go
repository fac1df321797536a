// Package trace captures execution witnesses for token interactions.
//
// Every successful interaction can be recorded as an ExecutionTrace (who
// invoked which handler with what input and output, at which logical time)
// wrapped in a TraceWitness with a unique ID. Witnesses are append-only
// history: they are never mutated after creation, and a cancelled or failed
// interaction produces no witness at all.
//
// The package does not persist anything itself. Witnesses are handed to a
// caller-supplied Sink; MemorySink is the in-process implementation and
// the store package provides a sqlite-backed one.
package trace
