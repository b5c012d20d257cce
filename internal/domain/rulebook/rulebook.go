// Package rulebook holds the static rule tables: races, classes, backgrounds,
// the ability to skill mapping and the per-class milestone index.
//
// A Rulebook is immutable once loaded. Every accessor hands out copies so callers
// cannot mutate the tables shared by all characters.
package rulebook

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/dnd-sheet/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
)

// MaxLevel is the highest level a character can reach
const MaxLevel = 20

//go:embed rules.yaml
var defaultRules []byte

type document struct {
	AbilitySkills map[shared.Attribute][]shared.Skill `yaml:"ability_skills"`
	ASILevels     []int                               `yaml:"ability_score_improvement_levels"`
	Races         []*Race                             `yaml:"races"`
	Classes       []*Class                            `yaml:"classes"`
	Backgrounds   []*Background                       `yaml:"backgrounds"`
	Domains       []*DivineDomain                     `yaml:"divine_domains"`
	Colleges      []*BardCollege                      `yaml:"bard_colleges"`
}

// Rulebook is the loaded, validated set of rule tables
type Rulebook struct {
	doc         document
	races       map[string]*Race
	classes     map[string]*Class
	backgrounds map[string]*Background
}

// Default returns the rule tables compiled into the binary
func Default() (*Rulebook, error) {
	return Parse(defaultRules)
}

// MustDefault is Default for program start up and tests
func MustDefault() *Rulebook {
	rb, err := Default()
	if err != nil {
		panic(err)
	}
	return rb
}

// Load reads rule tables from a YAML file
func Load(path string) (*Rulebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	rb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing rules file %s: %w", path, err)
	}
	return rb, nil
}

// Parse decodes and validates a rules document
func Parse(data []byte) (*Rulebook, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode rules: %w", err)
	}

	rb := &Rulebook{
		doc:         doc,
		races:       make(map[string]*Race, len(doc.Races)),
		classes:     make(map[string]*Class, len(doc.Classes)),
		backgrounds: make(map[string]*Background, len(doc.Backgrounds)),
	}
	for _, r := range doc.Races {
		rb.races[r.Key] = r
	}
	for _, c := range doc.Classes {
		slices.Sort(c.Milestones)
		rb.classes[c.Key] = c
	}
	for _, b := range doc.Backgrounds {
		rb.backgrounds[b.Key] = b
	}

	if err := rb.Validate(); err != nil {
		return nil, err
	}
	return rb, nil
}

// Validate checks the tables for internal consistency
func (rb *Rulebook) Validate() error {
	for _, attr := range shared.Attributes {
		if _, ok := rb.doc.AbilitySkills[attr]; !ok {
			return dnderr.InvalidArgumentf("ability_skills is missing %s", attr)
		}
	}
	mapped := map[shared.Skill]shared.Attribute{}
	for attr, skills := range rb.doc.AbilitySkills {
		if _, ok := shared.ParseAttribute(string(attr)); !ok {
			return dnderr.InvalidArgumentf("unknown attribute %q", attr)
		}
		for _, s := range skills {
			if err := checkSkill(s); err != nil {
				return err
			}
			if prev, dup := mapped[s]; dup {
				return dnderr.InvalidArgumentf("skill %s mapped from both %s and %s", s, prev, attr)
			}
			mapped[s] = attr
		}
	}
	if len(mapped) != len(shared.Skills) {
		return dnderr.InvalidArgumentf("ability_skills covers %d of %d skills", len(mapped), len(shared.Skills))
	}

	for _, lvl := range rb.doc.ASILevels {
		if lvl < 1 || lvl > MaxLevel {
			return dnderr.InvalidArgumentf("ability score improvement level %d out of range", lvl)
		}
	}

	if len(rb.races) != len(rb.doc.Races) || len(rb.classes) != len(rb.doc.Classes) || len(rb.backgrounds) != len(rb.doc.Backgrounds) {
		return dnderr.InvalidArgument("rule table keys must be unique")
	}

	for _, r := range rb.doc.Races {
		for attr := range r.AbilityBonuses {
			if _, ok := shared.ParseAttribute(string(attr)); !ok {
				return dnderr.InvalidArgumentf("race %s: unknown attribute %q", r.Key, attr)
			}
		}
	}

	for _, c := range rb.doc.Classes {
		if len(c.SavingThrows) != 2 {
			return dnderr.InvalidArgumentf("class %s must have exactly two saving throws", c.Key)
		}
		for _, attr := range c.SavingThrows {
			if _, ok := shared.ParseAttribute(string(attr)); !ok {
				return dnderr.InvalidArgumentf("class %s: unknown saving throw %q", c.Key, attr)
			}
		}
		for _, s := range c.ProficiencyPool {
			if err := checkSkill(s); err != nil {
				return dnderr.Wrapf(err, "class %s", c.Key)
			}
		}
		if c.ProficiencyChoiceCount < 0 || c.ProficiencyChoiceCount > len(c.ProficiencyPool) {
			return dnderr.InvalidArgumentf("class %s: cannot choose %d of %d skills", c.Key, c.ProficiencyChoiceCount, len(c.ProficiencyPool))
		}
		for _, lvl := range c.Milestones {
			if lvl < 1 || lvl > MaxLevel {
				return dnderr.InvalidArgumentf("class %s: milestone level %d out of range", c.Key, lvl)
			}
		}
	}

	for _, b := range rb.doc.Backgrounds {
		if len(b.Skills) != 2 {
			return dnderr.InvalidArgumentf("background %s must grant exactly two skills", b.Key)
		}
		for _, s := range b.Skills {
			if err := checkSkill(s); err != nil {
				return dnderr.Wrapf(err, "background %s", b.Key)
			}
		}
	}

	for _, d := range rb.doc.Domains {
		if d.SkillChoiceCount > len(d.SkillChoices) {
			return dnderr.InvalidArgumentf("domain %s: cannot choose %d of %d skills", d.Key, d.SkillChoiceCount, len(d.SkillChoices))
		}
		for _, s := range d.SkillChoices {
			if err := checkSkill(s); err != nil {
				return dnderr.Wrapf(err, "domain %s", d.Key)
			}
		}
	}

	return nil
}

func checkSkill(s shared.Skill) error {
	if _, ok := shared.ParseSkill(string(s)); !ok {
		return dnderr.InvalidArgumentf("unknown skill %q", s)
	}
	return nil
}

// Race looks up a race by key
func (rb *Rulebook) Race(key string) (*Race, error) {
	r, ok := rb.races[key]
	if !ok {
		return nil, dnderr.NotFoundf("race '%s' not found", key).WithMeta("race_key", key)
	}
	return r.clone(), nil
}

// Class looks up a class by key
func (rb *Rulebook) Class(key string) (*Class, error) {
	c, ok := rb.classes[key]
	if !ok {
		return nil, dnderr.NotFoundf("class '%s' not found", key).WithMeta("class_key", key)
	}
	return c.clone(), nil
}

// Background looks up a background by key
func (rb *Rulebook) Background(key string) (*Background, error) {
	b, ok := rb.backgrounds[key]
	if !ok {
		return nil, dnderr.NotFoundf("background '%s' not found", key).WithMeta("background_key", key)
	}
	return b.clone(), nil
}

// Races returns every race in table order
func (rb *Rulebook) Races() []*Race {
	out := make([]*Race, 0, len(rb.doc.Races))
	for _, r := range rb.doc.Races {
		out = append(out, r.clone())
	}
	return out
}

// Classes returns every class in table order
func (rb *Rulebook) Classes() []*Class {
	out := make([]*Class, 0, len(rb.doc.Classes))
	for _, c := range rb.doc.Classes {
		out = append(out, c.clone())
	}
	return out
}

// Backgrounds returns every background in table order
func (rb *Rulebook) Backgrounds() []*Background {
	out := make([]*Background, 0, len(rb.doc.Backgrounds))
	for _, b := range rb.doc.Backgrounds {
		out = append(out, b.clone())
	}
	return out
}

// Domains returns the cleric divine domains
func (rb *Rulebook) Domains() []*DivineDomain {
	out := make([]*DivineDomain, 0, len(rb.doc.Domains))
	for _, d := range rb.doc.Domains {
		out = append(out, d.clone())
	}
	return out
}

// Colleges returns the bard colleges
func (rb *Rulebook) Colleges() []*BardCollege {
	out := make([]*BardCollege, 0, len(rb.doc.Colleges))
	for _, c := range rb.doc.Colleges {
		out = append(out, c.clone())
	}
	return out
}

// SkillsFor returns the derived slots whose base modifier comes from the attribute:
// the attribute's own saving throw slot followed by its skills.
func (rb *Rulebook) SkillsFor(attr shared.Attribute) []shared.Stat {
	skills := rb.doc.AbilitySkills[attr]
	out := make([]shared.Stat, 0, len(skills)+1)
	out = append(out, attr.Stat())
	for _, s := range skills {
		out = append(out, s.Stat())
	}
	return out
}

// MilestoneLevels returns the sorted levels at which the class has an event.
// Unknown classes have none.
func (rb *Rulebook) MilestoneLevels(classKey string) []int {
	c, ok := rb.classes[classKey]
	if !ok {
		return nil
	}
	return slices.Clone(c.Milestones)
}

// IsMilestone reports whether the class has an event at the level
func (rb *Rulebook) IsMilestone(classKey string, level int) bool {
	c, ok := rb.classes[classKey]
	return ok && slices.Contains(c.Milestones, level)
}

// AbilityScoreImprovementLevels returns the levels granting two +1 increases
func (rb *Rulebook) AbilityScoreImprovementLevels() []int {
	return slices.Clone(rb.doc.ASILevels)
}

// IsAbilityScoreImprovement reports whether the level grants an ability increase
func (rb *Rulebook) IsAbilityScoreImprovement(level int) bool {
	return slices.Contains(rb.doc.ASILevels, level)
}
