package shared

// Skill is a competency whose modifier derives from a single attribute
type Skill string

const (
	SkillAcrobatics     Skill = "Acrobatics"
	SkillAnimalHandling Skill = "Animal Handling"
	SkillArcana         Skill = "Arcana"
	SkillAthletics      Skill = "Athletics"
	SkillDeception      Skill = "Deception"
	SkillHistory        Skill = "History"
	SkillInsight        Skill = "Insight"
	SkillIntimidation   Skill = "Intimidation"
	SkillInvestigation  Skill = "Investigation"
	SkillMedicine       Skill = "Medicine"
	SkillNature         Skill = "Nature"
	SkillPerception     Skill = "Perception"
	SkillPerformance    Skill = "Performance"
	SkillPersuasion     Skill = "Persuasion"
	SkillReligion       Skill = "Religion"
	SkillSleightOfHand  Skill = "Sleight of Hand"
	SkillStealth        Skill = "Stealth"
	SkillSurvival       Skill = "Survival"
)

// Skills lists every skill in sheet order
var Skills = []Skill{
	SkillAcrobatics, SkillAnimalHandling, SkillArcana, SkillAthletics, SkillDeception, SkillHistory,
	SkillInsight, SkillIntimidation, SkillInvestigation, SkillMedicine, SkillNature, SkillPerception,
	SkillPerformance, SkillPersuasion, SkillReligion, SkillSleightOfHand, SkillStealth, SkillSurvival,
}

// Stat returns the skill's slot on the derived stat sheet
func (s Skill) Stat() Stat {
	return Stat(s)
}

// ParseSkill looks up a skill by name
func ParseSkill(name string) (Skill, bool) {
	for _, s := range Skills {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}
