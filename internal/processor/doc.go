// Package processor wires the pronunciation coach together. It reads the
// command-line flags and configuration, builds the practice deck, the
// recognizer, the feedback requester, the attempt history and the reference
// audio library, and runs the selected mode: serving the widget, checking a
// single attempt, transcribing a recording or listing the practice items.
package processor
