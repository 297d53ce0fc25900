// Package undo keeps one reversible mutation at a time.
//
// Recording a new entry discards the previous one. Entries expire after a
// fixed window; a timer drops them and reads re-check the deadline. Replay
// re-validates its target, locating items by id and recreating or renaming
// sections as needed, and the slot is emptied whether replay succeeds or not.
// There is no redo.
package undo
