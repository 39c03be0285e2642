// Package practice holds the practice items a learner works through: minimal
// word pairs and short sentences, each with an IPA transcription and a
// translation. The built-in list is fixed; a custom list can be loaded from a
// text file and completed with IPA and translations fetched from OpenAI.
package practice
