// Package audio produces reference pronunciations for practice words.
//
// A Provider turns text into an audio file (OpenAI text-to-speech or the
// local espeak-ng engine). A Library sits in front of a provider and keeps
// every generated clip on disk, keyed by the text and the voice settings,
// so each word is synthesized once.
package audio
