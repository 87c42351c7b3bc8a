package db

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes the LIKE metacharacters in s so a pattern built from
// user input matches it literally. Backslash is the default escape character
// in Postgres.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
