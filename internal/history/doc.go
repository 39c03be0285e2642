// Package history records finished practice attempts in a SQLite database
// so learners can review which words they keep getting wrong.
package history
