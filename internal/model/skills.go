package model

import (
	"strings"

	"github.com/lib/pq"
)

// NormalizeSkills trims and lower-cases skills and drops blanks and
// duplicates, keeping the first occurrence's order. Stored skills and skill
// filters both go through it so matching can stay exact.
func NormalizeSkills(skills []string) pq.StringArray {
	if skills == nil {
		return nil
	}
	out := make(pq.StringArray, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, skill := range skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" || seen[skill] {
			continue
		}
		seen[skill] = true
		out = append(out, skill)
	}
	return out
}
