package plan

import "fmt"

// Day archetypes. Each names the areas it targets; Rest targets none.
func archetypeFullBody() Archetype {
	return Archetype{Label: "Full Body", Targets: allAreas()}
}

func archetypePush() Archetype {
	return Archetype{Label: "Push", Targets: []Area{AreaChest, AreaShoulder, AreaTricep}}
}

func archetypePull() Archetype {
	return Archetype{Label: "Pull", Targets: []Area{AreaBack, AreaBicep}}
}

func archetypeLegs() Archetype {
	return Archetype{Label: "Legs", Targets: []Area{AreaLeg}}
}

func archetypeUpper() Archetype {
	return Archetype{Label: "Upper", Targets: []Area{AreaChest, AreaBack, AreaShoulder, AreaBicep, AreaTricep}}
}

func archetypeLower() Archetype {
	return Archetype{Label: "Lower", Targets: []Area{AreaLeg, AreaCore}}
}

func archetypeChest() Archetype {
	return Archetype{Label: "Chest", Targets: []Area{AreaChest}}
}

func archetypeBack() Archetype {
	return Archetype{Label: "Back", Targets: []Area{AreaBack}}
}

func archetypeShoulders() Archetype {
	return Archetype{Label: "Shoulders", Targets: []Area{AreaShoulder}}
}

func archetypeArms() Archetype {
	return Archetype{Label: "Arms", Targets: []Area{AreaBicep, AreaTricep}}
}

func archetypeRest() Archetype {
	return Archetype{Label: "Rest", Targets: nil}
}

// ResolveTemplate maps a requested number of training days to its fixed split.
// Exactly one template exists per day count; selection is a pure lookup.
//
//	1: Full Body
//	2: Upper / Lower
//	3: Push / Pull / Legs
//	4: Push / Pull x2
//	5: Bro split (Chest / Back / Shoulders / Arms / Legs)
//	6: Push / Pull / Legs x2
//	7: Push / Legs / Pull x2 + Rest
func ResolveTemplate(trainingDays int) ([]Archetype, error) {
	switch trainingDays {
	case 1:
		return []Archetype{archetypeFullBody()}, nil
	case 2:
		return []Archetype{archetypeUpper(), archetypeLower()}, nil
	case 3:
		return []Archetype{archetypePush(), archetypePull(), archetypeLegs()}, nil
	case 4:
		return []Archetype{archetypePush(), archetypePull(), archetypePush(), archetypePull()}, nil
	case 5:
		return []Archetype{
			archetypeChest(), archetypeBack(), archetypeShoulders(), archetypeArms(), archetypeLegs(),
		}, nil
	case 6:
		return []Archetype{
			archetypePush(), archetypePull(), archetypeLegs(),
			archetypePush(), archetypePull(), archetypeLegs(),
		}, nil
	case 7:
		return []Archetype{
			archetypePush(), archetypeLegs(), archetypePull(),
			archetypePush(), archetypeLegs(), archetypePull(),
			archetypeRest(),
		}, nil
	default:
		return nil, &InvalidConfigurationError{
			Field:  "training_days",
			Reason: fmt.Sprintf("must be between 1 and 7, got %d", trainingDays),
		}
	}
}
