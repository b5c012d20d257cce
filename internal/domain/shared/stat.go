package shared

import "sort"

// Stat names a slot on the derived stat sheet: either an attribute (its saving throw)
// or a skill. Proficiency and expertise are tracked per Stat.
type Stat string

// Stats lists every derived slot, attributes first
var Stats = func() []Stat {
	out := make([]Stat, 0, len(Attributes)+len(Skills))
	for _, a := range Attributes {
		out = append(out, a.Stat())
	}
	for _, s := range Skills {
		out = append(out, s.Stat())
	}
	return out
}()

// ParseStat validates a stat name read from outside the program
func ParseStat(name string) (Stat, bool) {
	if a, ok := ParseAttribute(name); ok {
		return a.Stat(), true
	}
	if s, ok := ParseSkill(name); ok {
		return s.Stat(), true
	}
	return "", false
}

// IsSkill reports whether the stat is a skill rather than a saving throw
func (s Stat) IsSkill() bool {
	_, ok := ParseSkill(string(s))
	return ok
}

// StatSet is a membership-only set of stat names
type StatSet map[Stat]struct{}

// NewStatSet builds a set from the given stats
func NewStatSet(stats ...Stat) StatSet {
	set := make(StatSet, len(stats))
	for _, s := range stats {
		set[s] = struct{}{}
	}
	return set
}

// Add inserts the stat and reports whether it was new
func (s StatSet) Add(stat Stat) bool {
	if _, ok := s[stat]; ok {
		return false
	}
	s[stat] = struct{}{}
	return true
}

// Has reports membership
func (s StatSet) Has(stat Stat) bool {
	_, ok := s[stat]
	return ok
}

// SubsetOf reports whether every member of s is also in other
func (s StatSet) SubsetOf(other StatSet) bool {
	for stat := range s {
		if !other.Has(stat) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy
func (s StatSet) Clone() StatSet {
	out := make(StatSet, len(s))
	for stat := range s {
		out[stat] = struct{}{}
	}
	return out
}

// Sorted returns the members in a stable order for display and serialization
func (s StatSet) Sorted() []Stat {
	out := make([]Stat, 0, len(s))
	for stat := range s {
		out = append(out, stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
