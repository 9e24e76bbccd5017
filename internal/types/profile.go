package types

// CandidateProfile is the structured representation of a resume.
// ID is the identity of the source document (its name) and drives cache invalidation.
type CandidateProfile struct {
	ID              string   `json:"-"`
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experience_years"`
	Education       []string `json:"education"`
	PreviousTitles  []string `json:"previous_titles"`
	Industries      []string `json:"industries"`
	Achievements    []string `json:"achievements"`
	PreferredRoles  []string `json:"preferred_roles"`
	Location        string   `json:"location"`
}
