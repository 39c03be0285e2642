// Package coach runs a single pronunciation attempt end to end. It moves a
// session through its states, transcribes recorded audio when the browser
// could not, asks the feedback requester for a judgment and appends the
// outcome to the attempt history.
//
// Pipeline failures never escape as errors: they are turned into a
// learner-facing message on the session (see UserMessage). The error return
// of the session operations is reserved for problems with the session
// itself, such as an unknown ID or an event that does not fit its state.
package coach
