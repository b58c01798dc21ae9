package registration

import "fmt"

// AgeBracket tags a child entry with the age group it was counted under.
type AgeBracket string

const (
	BracketAbove11 AgeBracket = "above11"
	Bracket6To11   AgeBracket = "6to11"
	BracketUnder6  AgeBracket = "under6"
)

// Brackets is the fixed emit order for the children list: entries for
// earlier brackets always precede entries for later ones.
var Brackets = []AgeBracket{BracketAbove11, Bracket6To11, BracketUnder6}

// Label is the human-readable bracket name, used for auto-generated
// child entry names.
func (b AgeBracket) Label() string {
	switch b {
	case BracketAbove11:
		return "Above 11"
	case Bracket6To11:
		return "6-11"
	case BracketUnder6:
		return "Under 6"
	default:
		return string(b)
	}
}

// DefaultAge is the representative age assigned to generated entries.
func (b AgeBracket) DefaultAge() int {
	switch b {
	case BracketAbove11:
		return 12
	case Bracket6To11:
		return 8
	case BracketUnder6:
		return 3
	default:
		return 0
	}
}

// BracketCounts maps each bracket to the number of children in it.
type BracketCounts map[AgeBracket]int

// Total sums all bracket counts.
func (c BracketCounts) Total() int {
	total := 0
	for _, b := range Brackets {
		total += c[b]
	}
	return total
}

// CountsOf derives bracket counts from an existing children list.
func CountsOf(children []Child) BracketCounts {
	counts := BracketCounts{}
	for _, ch := range children {
		counts[ch.Group]++
	}
	return counts
}

// SyncChildren recomputes the children list for the given bracket counts.
// It is a pure reducer: existing entries are preserved positionally within
// their bracket up to the new count, excess entries are dropped, and new
// entries are generated with a "<bracket label> <index>" name and the
// bracket's representative age. Brackets are emitted in the fixed Brackets
// order. Calling it again with unchanged counts returns an equal list
// without mutating entries, so reactive consumers never loop.
func SyncChildren(existing []Child, counts BracketCounts) []Child {
	byBracket := make(map[AgeBracket][]Child, len(Brackets))
	for _, ch := range existing {
		byBracket[ch.Group] = append(byBracket[ch.Group], ch)
	}

	out := make([]Child, 0, counts.Total())
	for _, b := range Brackets {
		want := counts[b]
		if want < 0 {
			want = 0
		}
		have := byBracket[b]
		for i := 0; i < want; i++ {
			if i < len(have) {
				out = append(out, have[i])
				continue
			}
			out = append(out, Child{
				Name:  fmt.Sprintf("%s %d", b.Label(), i+1),
				Age:   b.DefaultAge(),
				Group: b,
			})
		}
	}
	return out
}
