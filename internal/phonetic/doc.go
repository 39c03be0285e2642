// Package phonetic fetches broad IPA transcriptions for English practice
// words and sentences using OpenAI chat models.
package phonetic
