// Package feedback asks a generative language model whether a learner's
// attempt matched the target word. It builds the prompt from the word, its
// IPA and the recognized transcript, calls Gemini or an OpenAI chat model in
// JSON mode, and parses and validates the three-field judgment.
package feedback
