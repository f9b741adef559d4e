package stats

// PhysicalTag in a skill's tags selects the physical attack component.
const PhysicalTag = "physical"

// FinesseTag on a weapon swaps STR scaling for scaled DEX.
const FinesseTag = "finesse"

// elementalTags is the closed set of skill tags that select the magical
// attack component.
var elementalTags = map[string]bool{
	"fire":      true,
	"ice":       true,
	"lightning": true,
	"earth":     true,
	"wind":      true,
	"water":     true,
	"holy":      true,
	"shadow":    true,
}

// IsElementalTag reports whether tag is one of the elemental skill tags.
func IsElementalTag(tag string) bool { return elementalTags[tag] }

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// PhysicalAttack is the physical action-attack component: weapon attack
// plus STR, or plus truncated DEX*0.75 when the weapon carries a finesse
// tag.
func PhysicalAttack(weaponAttack int, attrs Attributes, weaponTags []string) int {
	if hasTag(weaponTags, FinesseTag) {
		return weaponAttack + int(float64(attrs.DEX)*FinesseDexCoefficient)
	}
	return weaponAttack + attrs.STR
}

// MagicalAttack is the magical action-attack component: weapon attack plus
// INT.
func MagicalAttack(weaponAttack int, attrs Attributes) int {
	return weaponAttack + attrs.INT
}

// ActionAttack computes the attack value an action resolves with. A
// physical skill tag selects PhysicalAttack, an elemental tag selects
// MagicalAttack, both split the two evenly, and a skill with neither
// resolves as magical.
//
// Postcondition: Pure function; consumes no randomness.
func ActionAttack(weaponAttack int, attrs Attributes, skillTags, weaponTags []string) int {
	physical := hasTag(skillTags, PhysicalTag)
	elemental := false
	for _, tag := range skillTags {
		if elementalTags[tag] {
			elemental = true
			break
		}
	}
	switch {
	case physical && elemental:
		return (PhysicalAttack(weaponAttack, attrs, weaponTags) + MagicalAttack(weaponAttack, attrs)) / 2
	case physical:
		return PhysicalAttack(weaponAttack, attrs, weaponTags)
	default:
		return MagicalAttack(weaponAttack, attrs)
	}
}
