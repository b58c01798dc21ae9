// Package steps models the wizard step sequence: the full ordered step
// list, the conditional skip rules, navigation within the effective
// sequence, and the progress percentage.
//
// Skip rules are pure functions of the current answers and are evaluated
// at navigation time, never cached: editing marital status on step one
// immediately reshapes the sequence.
package steps

import "regwiz/internal/registration"

// ID identifies one wizard step.
type ID string

const (
	PersonalInfo  ID = "personal_info"
	Family        ID = "family"
	Package       ID = "package"
	Travel        ID = "travel"
	Payment       ID = "payment"
	Accommodation ID = "accommodation"
	Review        ID = "review"
)

// all is the full step order. Family and Travel may be skipped.
var all = []ID{PersonalInfo, Family, Package, Travel, Payment, Accommodation, Review}

// All returns the full ordered step list, before skip rules apply.
func All() []ID {
	out := make([]ID, len(all))
	copy(out, all)
	return out
}

// Title is the step heading shown in the wizard.
func (id ID) Title() string {
	switch id {
	case PersonalInfo:
		return "Personal Information"
	case Family:
		return "Family Participation"
	case Package:
		return "Package & Souvenirs"
	case Travel:
		return "Travel Schedule"
	case Payment:
		return "Payment"
	case Accommodation:
		return "Accommodation & Sponsorship"
	case Review:
		return "Review & Submit"
	default:
		return string(id)
	}
}

// skipped reports whether a step is hidden by the current answers.
// The rules compose independently: a single registrant from Đà Nẵng
// skips both Family and Travel.
func skipped(id ID, f registration.FormData) bool {
	switch id {
	case Family:
		return f.PersonalInfo.MaritalStatus == registration.MaritalSingle
	case Travel:
		return f.PersonalInfo.Church == registration.ChurchDaNang
	default:
		return false
	}
}

// EffectiveSequence returns the steps actually shown, in order, for the
// given answers.
func EffectiveSequence(f registration.FormData) []ID {
	seq := make([]ID, 0, len(all))
	for _, id := range all {
		if !skipped(id, f) {
			seq = append(seq, id)
		}
	}
	return seq
}

// EffectiveCount is the number of visible steps for the given answers.
func EffectiveCount(f registration.FormData) int {
	return len(EffectiveSequence(f))
}

// position returns the index of id in the full step order.
func position(id ID) int {
	for i, s := range all {
		if s == id {
			return i
		}
	}
	return -1
}

// Next returns the step after current in the effective sequence. The
// second return value is true when current is at (or past) the last
// effective step, meaning the wizard should submit instead of advancing.
//
// current itself need not be effective: if the answers changed under the
// user's feet, Next advances to the first effective step after current's
// slot in the full order.
func Next(current ID, f registration.FormData) (ID, bool) {
	pos := position(current)
	for _, id := range all[pos+1:] {
		if !skipped(id, f) {
			return id, false
		}
	}
	return current, true
}

// Prev returns the step before current in the effective sequence, or
// current unchanged when there is nothing before it.
func Prev(current ID, f registration.FormData) ID {
	pos := position(current)
	for i := pos - 1; i >= 0; i-- {
		if !skipped(all[i], f) {
			return all[i]
		}
	}
	return current
}

// First returns the first effective step.
func First(f registration.FormData) ID {
	seq := EffectiveSequence(f)
	return seq[0]
}
