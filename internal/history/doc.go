// Package history persists a ledger of encode runs in SQLite so past
// inputs, outputs, and outcomes can be listed after the fact. The
// ledger is advisory: encode behavior never depends on it, and a
// disabled or broken ledger only costs the record.
package history
