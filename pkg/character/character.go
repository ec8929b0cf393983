package character

// Role describes how a character relates to the investigation.
type Role string

const (
	RoleSuspect  Role = "suspect"
	RoleWitness  Role = "witness"
	RoleFamily   Role = "family"
	RoleRoommate Role = "roommate"
)

// Status is the character's current investigative status.
type Status string

const (
	StatusUnknown            Status = "unknown"
	StatusCleared            Status = "cleared"
	StatusPrimeSuspect       Status = "prime_suspect"
	StatusUnderInvestigation Status = "under_investigation"
)

// EvidenceType categorizes a piece of evidence on the board.
type EvidenceType string

const (
	EvidencePhysical    EvidenceType = "physical"
	EvidenceTestimony   EvidenceType = "testimony"
	EvidenceAlibi       EvidenceType = "alibi"
	EvidenceMotive      EvidenceType = "motive"
	EvidenceMeans       EvidenceType = "means"
	EvidenceOpportunity EvidenceType = "opportunity"
)

// Evidence is a display-oriented fact attached to exactly one character.
type Evidence struct {
	ID          string       `json:"id"`
	Type        EvidenceType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       string       `json:"color"`     // display tag, e.g. "red", "blue"
	Relevance   string       `json:"relevance"` // "high", "medium", "low"
}

// Relationship is a directed edge to another character. Edges are
// authored one-directionally and may be asymmetric in tone; that is
// intentional narrative design, not a consistency requirement.
type Relationship struct {
	CharacterID  string `json:"character_id"`
	Relationship string `json:"relationship"`
	Notes        string `json:"notes,omitempty"`
}

// Personality holds the trait data that conditions prompt composition.
type Personality struct {
	Traits      []string `json:"traits"`
	Nervousness string   `json:"nervousness"` // "low", "medium", "high"
	Cooperation string   `json:"cooperation"` // "hostile", "reluctant", "neutral", "cooperative"
}

// InterrogationProgress is carried in the data shape but never mutated
// on the shared record. Any live counters belong to a session copy.
type InterrogationProgress struct {
	QuestionsAsked   int      `json:"questions_asked"`
	KeyFactsRevealed []string `json:"key_facts_revealed"`
	Contradictions   []string `json:"contradictions"`
}

// PromptModifiers is the primary input to system prompt composition.
type PromptModifiers struct {
	BasePersonality string `json:"base_personality"`
	CurrentMood     string `json:"current_mood"`
	ResponseStyle   string `json:"response_style"`
}

// Character is an immutable catalog record. The orchestrator treats
// these as read-only; registry accessors return copies.
type Character struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Role           Role                  `json:"role"`
	Status         Status                `json:"status"`
	Description    string                `json:"description"`
	Age            string                `json:"age,omitempty"`
	Species        string                `json:"species"`
	Image          string                `json:"image"`
	PrisonerNumber string                `json:"prisoner_number,omitempty"`
	Personality    Personality           `json:"personality"`
	Evidence       []Evidence            `json:"evidence"`
	Relationships  []Relationship        `json:"relationships"`
	Alibi          string                `json:"alibi,omitempty"`
	Motive         string                `json:"motive,omitempty"`
	LastSeen       string                `json:"last_seen,omitempty"`
	Notes          []string              `json:"notes"`
	Progress       InterrogationProgress `json:"interrogation_progress"`
	Modifiers      PromptModifiers       `json:"ai_prompt_modifiers"`
}

// Copy returns a deep copy so callers can never mutate catalog data
// through a returned record.
func (c Character) Copy() Character {
	out := c
	out.Personality.Traits = append([]string(nil), c.Personality.Traits...)
	out.Evidence = append([]Evidence(nil), c.Evidence...)
	out.Relationships = append([]Relationship(nil), c.Relationships...)
	out.Notes = append([]string(nil), c.Notes...)
	out.Progress.KeyFactsRevealed = append([]string(nil), c.Progress.KeyFactsRevealed...)
	out.Progress.Contradictions = append([]string(nil), c.Progress.Contradictions...)
	return out
}
