// Package repository holds helpers shared by the SQL store implementations.
package repository

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a LIKE pattern matching values that contain term
// literally. Queries using it must declare ESCAPE '\'.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
