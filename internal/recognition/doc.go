// Package recognition turns a recorded attempt into text. Each recognizer is
// single-shot: one clip in, the first transcript out, or a reason why not.
// Backends are OpenAI Whisper and Google Cloud Speech-to-Text, optionally
// behind a circuit breaker and a fallback. The package also holds the lookup
// table from browser speech-recognition error names to learner-facing text.
package recognition
