/*
Package session implements session management and persistence orchestration.

A Manager serialises every read-modify-write of a calculator session, first with an
in-process mutex per session and then, when configured, with a distributed lock
so several server replicas can share one store.
*/
package session
