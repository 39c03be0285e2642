// Package translation translates English practice text into the learner's
// language using the OpenAI API. Translations are cached in memory so a
// practice list that repeats words only pays for each once.
package translation
