package shared

// Attribute is one of the six ability scores. The value doubles as the name of the
// attribute's saving-throw slot on the derived stat sheet.
type Attribute string

var Attributes = []Attribute{AttributeStrength, AttributeDexterity, AttributeConstitution, AttributeIntelligence, AttributeWisdom, AttributeCharisma}

const (
	AttributeNone         Attribute = ""
	AttributeStrength     Attribute = "Strength"
	AttributeDexterity    Attribute = "Dexterity"
	AttributeConstitution Attribute = "Constitution"
	AttributeIntelligence Attribute = "Intelligence"
	AttributeWisdom       Attribute = "Wisdom"
	AttributeCharisma     Attribute = "Charisma"
)

// Stat returns the saving throw slot for the attribute
func (a Attribute) Stat() Stat {
	return Stat(a)
}

// ParseAttribute looks up an attribute by its full name
func ParseAttribute(name string) (Attribute, bool) {
	for _, a := range Attributes {
		if string(a) == name {
			return a, true
		}
	}
	return AttributeNone, false
}
