package character

// Incident describes what happened, when, and where.
type Incident struct {
	What     string `json:"what"`
	When     string `json:"when"`
	Where    string `json:"where"`
	Quantity string `json:"quantity,omitempty"`
}

// HouseholdMember is one entry in the case's family/household roster.
type HouseholdMember struct {
	Name     string `json:"name"`
	Relation string `json:"relation"` // e.g. "Mom", "Sister", "Roommate"
	Species  string `json:"species"`
}

// CaseFile is the static case context shared by all interrogations.
type CaseFile struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Incident      Incident          `json:"incident"`
	Household     []HouseholdMember `json:"household"`
	Status        string            `json:"status"`   // "active", "solved", "cold"
	Priority      string            `json:"priority"` // "low", "medium", "high", "urgent"
	LeadDetective string            `json:"lead_detective"`
	BadgeNumber   string            `json:"badge_number"`
}
