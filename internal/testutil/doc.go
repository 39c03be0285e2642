// Package testutil holds shared test helpers: temporary practice lists and
// recordings, a fake OpenAI endpoint, and mocks for the IPA and translation
// lookups.
package testutil
