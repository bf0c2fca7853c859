/*
Package session holds the execution state of a protocol run.

A Session is an append-only accumulator of completed steps and their
validated responses. It is never mutated in place: every successful step
execution allocates a successor, and the original value stays usable as a
checkpoint to fork from. Because of this, a single session value may be
read concurrently and may be the starting point of multiple concurrent
execute calls without any locking.

The session decides availability (CanExecute, Available) and terminality
(IsTerminal); the actual step transition lives in the engine, which is the
only place a successor session is allocated from.
*/
package session
