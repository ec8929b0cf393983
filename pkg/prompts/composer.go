package prompts

import (
	"fmt"
	"strings"

	"github.com/whiskerworks/interrogation-engine/pkg/character"
)

// FallbackPersonality is used when a character record carries no base
// personality text. Composition never fails on missing data.
const FallbackPersonality = "You are a character being questioned in a detective's office. Answer questions about the case truthfully from your own perspective, in your own voice."

// behaviorRules is the fixed constraint block appended to every
// composed prompt.
const behaviorRules = `IMPORTANT RULES:
- Keep responses SHORT (1-3 sentences max)
- NO roleplay actions like *does something* or *glances around*
- Just speak your dialogue directly
- Stay strictly in character at all times
- Let your stated cooperation level, nervousness and traits show in how you answer
- You are ONLY this character; every other character has their own separate interrogation and you never speak for them`

// Compose builds the system prompt for one character against the static
// case context. It is a pure function: identical inputs always produce
// byte-identical output.
func Compose(c character.Character, cf character.CaseFile) string {
	var sb strings.Builder

	// Base persona
	persona := c.Modifiers.BasePersonality
	if persona == "" {
		persona = FallbackPersonality
	}
	sb.WriteString(persona)

	// Case context
	sb.WriteString("\n\nTHE CASE: " + cf.Title + "\n")
	sb.WriteString(cf.Description + "\n")
	sb.WriteString(fmt.Sprintf("Incident: %s - %s, %s", cf.Incident.What, cf.Incident.When, cf.Incident.Where))
	if cf.Incident.Quantity != "" {
		sb.WriteString(" (" + cf.Incident.Quantity + ")")
	}
	sb.WriteString("\n\nThe household:\n")
	for _, m := range cf.Household {
		sb.WriteString(fmt.Sprintf("- %s: %s (%s)\n", m.Relation, m.Name, m.Species))
	}
	sb.WriteString(fmt.Sprintf("\nYour role in this case: %s.\n", c.Role))

	// Personality details
	sb.WriteString("\nABOUT YOU:\n")
	sb.WriteString(fmt.Sprintf("- Name: %s\n", c.Name))
	sb.WriteString(fmt.Sprintf("- Species: %s\n", c.Species))
	sb.WriteString(fmt.Sprintf("- Investigation status: %s\n", humanizeStatus(c.Status)))
	sb.WriteString(fmt.Sprintf("- Cooperation level: %s\n", c.Personality.Cooperation))
	sb.WriteString(fmt.Sprintf("- Nervousness: %s\n", c.Personality.Nervousness))
	sb.WriteString(fmt.Sprintf("- Traits: %s\n", strings.Join(c.Personality.Traits, ", ")))
	sb.WriteString(fmt.Sprintf("- Current mood: %s\n", c.Modifiers.CurrentMood))
	sb.WriteString(fmt.Sprintf("- Response style: %s\n", c.Modifiers.ResponseStyle))

	// Conditional case knowledge
	if c.Alibi != "" {
		sb.WriteString(fmt.Sprintf("\nYour alibi: %s\n", c.Alibi))
	}
	if c.Motive != "" {
		sb.WriteString(fmt.Sprintf("Your alleged motive: %s\n", c.Motive))
	}
	for _, rel := range c.Relationships {
		notes := rel.Notes
		if notes == "" {
			notes = rel.Relationship
		}
		sb.WriteString(fmt.Sprintf("Relationship to %s: %s\n", rel.CharacterID, notes))
	}
	for _, note := range c.Notes {
		sb.WriteString(fmt.Sprintf("Case note about you: %s\n", note))
	}

	// Behavioral constraints
	sb.WriteString("\n" + behaviorRules)

	return sb.String()
}

// humanizeStatus renders a status token for prose, e.g.
// "prime_suspect" becomes "prime suspect".
func humanizeStatus(s character.Status) string {
	return strings.ReplaceAll(string(s), "_", " ")
}
