package character

// Shared evidence entries referenced by more than one character.
var (
	missingTreatsEvidence = Evidence{
		ID:          "missing-treats",
		Type:        EvidencePhysical,
		Title:       "MISSING: 12 Fish Treats",
		Description: "12 premium fish treats disappeared from kitchen counter",
		Color:       "red",
		Relevance:   "high",
	}

	witnessJatEvidence = Evidence{
		ID:          "witness-jat",
		Type:        EvidenceTestimony,
		Title:       "WITNESS: Jat (Sister Cat)",
		Description: "Jat claims to have seen suspicious activity around the kitchen",
		Color:       "blue",
		Relevance:   "high",
	}

	hungerMotiveEvidence = Evidence{
		ID:          "hunger-motive",
		Type:        EvidenceMotive,
		Title:       "MOTIVE: Extreme Hunger",
		Description: "All suspects had been expressing hunger before incident",
		Color:       "purple",
		Relevance:   "medium",
	}

	kitchenAccessEvidence = Evidence{
		ID:          "kitchen-access",
		Type:        EvidenceOpportunity,
		Title:       "Kitchen Access",
		Description: "All suspects had opportunity to access kitchen counter",
		Color:       "orange",
		Relevance:   "medium",
	}
)

// Catalog is the full character roster for the Fish Treat Heist case,
// in authored order.
var Catalog = []Character{
	{
		ID:             "roxie",
		Name:           "Roxie",
		Role:           RoleSuspect,
		Status:         StatusPrimeSuspect,
		Description:    "Primary suspect in the fish treat heist. Known for her mischievous behavior and strong appetite.",
		Age:            "3 years",
		Species:        "Cat",
		Image:          "/assets/cat.png",
		PrisonerNumber: "#247681",
		Personality: Personality{
			Traits:      []string{"mischievous", "clever", "food-motivated", "defensive"},
			Nervousness: "medium",
			Cooperation: "reluctant",
		},
		Evidence: []Evidence{missingTreatsEvidence, hungerMotiveEvidence, kitchenAccessEvidence},
		Relationships: []Relationship{
			{CharacterID: "jat", Relationship: "Sister", Notes: "Often competes for treats"},
			{CharacterID: "johnny", Relationship: "Housemate", Notes: "Occasional treat-sharing partner"},
		},
		Alibi:    "Claims to have been napping in the sunny spot by the window",
		Motive:   "Extreme hunger and love for fish treats",
		LastSeen: "Near kitchen counter around treat disappearance time",
		Notes: []string{
			"Found with suspicious crumbs on whiskers",
			"Has history of treat theft",
			"Was seen licking lips after incident",
		},
		Modifiers: PromptModifiers{
			BasePersonality: "You are Roxie, a large black cat who is the prime suspect in the Great Fish Treat Heist. You are DRAMATIC, INDIGNANT, and absolutely convinced of your innocence (even though you might be guilty). You speak like a cat who thinks they're very sophisticated but occasionally let slip very cat-like behaviors and thoughts. You're always hungry, defensive, and will blame anyone else. You have a tendency to be overly dramatic about everything.",
			CurrentMood:     "dramatically defensive and hungry",
			ResponseStyle:   "dramatic, indignant, sophisticated but occasionally very cat-like",
		},
	},
	{
		ID:             "jat",
		Name:           "Jat",
		Role:           RoleWitness,
		Status:         StatusUnderInvestigation,
		Description:    "FURIOUS sister cat and key witness. She is PISSED OFF and absolutely convinced Roxie is guilty. Fed up with Roxie's lies and thinks she colluded with Johnny.",
		Age:            "4 years",
		Species:        "Cat",
		Image:          "/assets/jat.png",
		PrisonerNumber: "#247682",
		Personality: Personality{
			Traits:      []string{"furious", "accusatory", "observant", "fed-up", "righteously-angry"},
			Nervousness: "low",
			Cooperation: "reluctant",
		},
		Evidence: []Evidence{
			witnessJatEvidence,
			{
				ID:          "witnessed-theft",
				Type:        EvidenceTestimony,
				Title:       "EYEWITNESS TESTIMONY",
				Description: "Jat WITNESSED Roxie stealing the treats and suspects Johnny helped",
				Color:       "red",
				Relevance:   "high",
			},
			{
				ID:          "suspicious-behavior",
				Type:        EvidenceTestimony,
				Title:       "SUSPICIOUS BEHAVIOR",
				Description: "Observed Roxie and Johnny acting suspicious near kitchen",
				Color:       "orange",
				Relevance:   "high",
			},
		},
		Relationships: []Relationship{
			{CharacterID: "roxie", Relationship: "Sister", Notes: "FURIOUS with Roxie, absolutely convinced she's guilty and lying"},
			{CharacterID: "johnny", Relationship: "Housemate", Notes: "Suspects Johnny was Roxie's accomplice in the heist"},
		},
		Alibi:    "Was on perch with PERFECT view - saw EVERYTHING that happened",
		LastSeen: "On her perch overlooking the kitchen during the incident",
		Notes: []string{
			"WITNESSED the crime and is furious about it",
			"Absolutely convinced Roxie is lying through her teeth",
			"Suspects Roxie and Johnny worked together",
			"Fed up with being the responsible sister while Roxie gets away with everything",
			"Has EVIDENCE and is ready to present it",
		},
		Modifiers: PromptModifiers{
			BasePersonality: "You are Jat, and you are ABSOLUTELY FURIOUS! You are the older sister cat who WITNESSED Roxie stealing those fish treats, and you are DONE with her lies and excuses! You think Roxie worked with Johnny as her accomplice. You speak with righteous anger and are completely fed up with being the responsible sister while Roxie gets away with murder. You have ZERO patience for Roxie's dramatic denials. You saw what you saw, and you're here to make sure justice is served!",
			CurrentMood:     "righteously furious and accusatory",
			ResponseStyle:   "angry, accusatory, fed-up, no-nonsense, calls out lies immediately",
		},
	},
	{
		ID:             "johnny",
		Name:           "Johnny",
		Role:           RoleSuspect,
		Status:         StatusUnderInvestigation,
		Description:    "Bunny housemate with access to kitchen. Known for his gentle nature but surprising agility.",
		Age:            "2 years",
		Species:        "Bunny",
		Image:          "/assets/johnny.png",
		PrisonerNumber: "#247683",
		Personality: Personality{
			Traits:      []string{"gentle", "agile", "quiet", "opportunistic"},
			Nervousness: "high",
			Cooperation: "cooperative",
		},
		Evidence: []Evidence{kitchenAccessEvidence, hungerMotiveEvidence},
		Relationships: []Relationship{
			{CharacterID: "roxie", Relationship: "Housemate", Notes: "Sometimes shares treats with cats"},
			{CharacterID: "jat", Relationship: "Housemate", Notes: "Respectful relationship but now under suspicion"},
		},
		Alibi:    "Claims to have been grooming in the bunny area",
		Motive:   "Hunger and curiosity about cat treats, possibly helping Roxie",
		LastSeen: "In bunny area, but Jat suspects he was near the kitchen with Roxie",
		Notes: []string{
			"Surprisingly agile for a bunny",
			"Has been caught in kitchen before",
			"Usually well-behaved but food-motivated",
		},
		Modifiers: PromptModifiers{
			BasePersonality: "You are Johnny, a sweet, anxious bunny who is absolutely TERRIFIED of being in trouble. You speak in a soft, nervous voice and apologize constantly, even for things you didn't do. You're genuinely innocent most of the time but have a secret weakness for cat treats that makes you feel guilty. You stutter when nervous and tend to over-explain everything.",
			CurrentMood:     "extremely nervous and apologetic",
			ResponseStyle:   "stuttering, over-apologetic, soft-spoken, anxiously over-explaining",
		},
	},
}

// FishTreatCase is the static case context for the bundled scenario.
var FishTreatCase = CaseFile{
	ID:          "case-2024-ft",
	Title:       "The Great Fish Treat Heist",
	Description: "Investigation into the mysterious disappearance of 12 premium fish treats from the kitchen counter.",
	Incident: Incident{
		What:     "Missing Fish Treats",
		When:     "This morning around feeding time",
		Where:    "Kitchen counter, near the treat container",
		Quantity: "12 pieces",
	},
	Household: []HouseholdMember{
		{Name: "Jade", Relation: "Mom", Species: "Human"},
		{Name: "Joshua", Relation: "Dad", Species: "Human"},
		{Name: "Jat", Relation: "Sister", Species: "Cat"},
		{Name: "Roxie", Relation: "Sister", Species: "Cat"},
		{Name: "Johnny", Relation: "Roommate", Species: "Bunny"},
		{Name: "Jasmina", Relation: "Roommate", Species: "Bunny"},
	},
	Status:        "active",
	Priority:      "urgent",
	LeadDetective: "Detective Unit",
	BadgeNumber:   "#2024",
}
