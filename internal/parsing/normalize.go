package parsing

import (
	"strings"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"ms excel":   "Excel",
}

// NormalizeSkillName maps known variants to their canonical form and trims
// everything else. Acronyms and casing chosen by the resume author are kept.
func NormalizeSkillName(skillName string) string {
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}

	if canonical, ok := skillNormalizations[strings.ToLower(normalized)]; ok {
		return canonical
	}

	return normalized
}

// NormalizeSkills canonicalizes skill names and removes duplicates, keeping
// the first occurrence so the resume's own ordering survives.
func NormalizeSkills(skills []string) []string {
	return dedupe(skills, NormalizeSkillName)
}

// NormalizeList trims entries, drops blanks and removes case-insensitive duplicates.
func NormalizeList(items []string) []string {
	return dedupe(items, func(s string) string {
		return strings.Join(strings.Fields(s), " ")
	})
}

func dedupe(items []string, normalize func(string) string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		n := normalize(item)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}
