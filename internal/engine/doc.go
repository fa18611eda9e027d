// Package engine contains the match game state machine and its round loop.
// This is the heartbeat of Word Cross.
//
// ARCHITECTURAL RULE: Game holds state and has no I/O. Session owns the
// terminal side (prompts, rendering, messages) and the event log.
package engine
