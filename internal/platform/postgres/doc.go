// Package postgres holds the PostgreSQL plumbing shared by the bot: opening
// pooled handles, applying the embedded schema migrations with goose, and
// classifying driver errors.
package postgres
