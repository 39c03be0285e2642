// Package session tracks the view state of a practice session: which item
// and word are active, whether the learner is recording or waiting for
// feedback, and the latest result. Sessions live in memory only.
package session
