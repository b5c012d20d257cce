package dice

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	dnderr "github.com/KirkDiggler/dnd-sheet/internal/errors"
)

// MaxDice bounds a single roll so bad input cannot allocate without limit
const MaxDice = 100

// RollResult holds the kept dice of a roll and anything dropped from it
type RollResult struct {
	Total   int
	Rolls   []int
	Dropped []int
	Bonus   int
	Count   int
	Sides   int
}

func validate(count, sides int) error {
	if count < 1 || count > MaxDice {
		return dnderr.InvalidArgumentf("invalid dice count %d", count)
	}
	if sides < 1 {
		return dnderr.InvalidArgumentf("invalid dice size %d", sides)
	}
	return nil
}

func newResult(count, sides, bonus int, rolls []int) *RollResult {
	total := bonus
	for _, roll := range rolls {
		total += roll
	}
	return &RollResult{
		Total: total,
		Rolls: rolls,
		Bonus: bonus,
		Count: count,
		Sides: sides,
	}
}

// DropLowest returns a copy of the result without its lowest kept die
func (r *RollResult) DropLowest() *RollResult {
	if len(r.Rolls) == 0 {
		return r
	}
	lowest := slices.Index(r.Rolls, slices.Min(r.Rolls))
	kept := slices.Delete(slices.Clone(r.Rolls), lowest, lowest+1)

	out := newResult(r.Count, r.Sides, r.Bonus, kept)
	out.Dropped = append(slices.Clone(r.Dropped), r.Rolls[lowest])
	return out
}

// ParseNotation reads dice notation such as "d20", "2d6+3" or "1d8-1"
func ParseNotation(notation string) (count, sides, bonus int, err error) {
	s := strings.ToLower(strings.TrimSpace(notation))
	invalid := dnderr.InvalidArgumentf("invalid dice notation %q", notation)

	dicePart, bonusPart := s, ""
	if i := strings.IndexAny(s, "+-"); i >= 0 {
		dicePart, bonusPart = s[:i], s[i:]
	}
	if bonusPart != "" {
		if bonus, err = strconv.Atoi(bonusPart); err != nil {
			return 0, 0, 0, invalid
		}
	}

	countPart, sidesPart, ok := strings.Cut(dicePart, "d")
	if !ok {
		return 0, 0, 0, invalid
	}
	count = 1
	if countPart != "" {
		if count, err = strconv.Atoi(countPart); err != nil {
			return 0, 0, 0, invalid
		}
	}
	if sides, err = strconv.Atoi(sidesPart); err != nil {
		return 0, 0, 0, invalid
	}
	if err := validate(count, sides); err != nil {
		return 0, 0, 0, err
	}
	return count, sides, bonus, nil
}

// RollString rolls dice given in notation form
func RollString(r Roller, notation string) (*RollResult, error) {
	count, sides, bonus, err := ParseNotation(notation)
	if err != nil {
		return nil, err
	}
	return r.Roll(count, sides, bonus)
}

func (r *RollResult) String() string {
	compact := strings.ReplaceAll(fmt.Sprintf("%v", r.Rolls), " ", ",")
	out := fmt.Sprintf("%d %s", r.Total, compact)
	if r.Bonus > 0 {
		out += fmt.Sprintf(" +%d", r.Bonus)
	} else if r.Bonus < 0 {
		out += fmt.Sprintf(" %d", r.Bonus)
	}
	if len(r.Dropped) > 0 {
		out += fmt.Sprintf(" (dropped %v)", strings.ReplaceAll(fmt.Sprintf("%v", r.Dropped), " ", ","))
	}
	return out
}
