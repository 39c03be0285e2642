// Package models lists and categorizes the OpenAI models available to an
// API key, so users can pick transcription, chat and speech models for
// practice sessions.
package models
