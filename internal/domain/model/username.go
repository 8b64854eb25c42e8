package model

import (
	"fmt"
	"math/rand"
)

var (
	usernamePrefixes = []string{"Frost", "Shadow", "Ember", "Void", "Storm"}
	usernameSuffixes = []string{"Vale", "Nova", "Knight", "Hunter", "Strike"}
)

// GenerateUsername builds an anonymous handle such as "EmberNova417".
// Uniqueness is the caller's job.
func GenerateUsername(r *rand.Rand) string {
	p := usernamePrefixes[r.Intn(len(usernamePrefixes))]
	s := usernameSuffixes[r.Intn(len(usernameSuffixes))]
	return fmt.Sprintf("%s%s%d", p, s, 100+r.Intn(900))
}
