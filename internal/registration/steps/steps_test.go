package steps

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"regwiz/internal/registration"
)

func formWith(marital registration.MaritalStatus, church string) registration.FormData {
	f := registration.Defaults()
	f.PersonalInfo.MaritalStatus = marital
	f.PersonalInfo.Church = church
	return f
}

func TestEffectiveSequence_NoSkips(t *testing.T) {
	f := formWith(registration.MaritalMarried, "Cần Thơ")

	seq := EffectiveSequence(f)

	require.Equal(t, []ID{PersonalInfo, Family, Package, Travel, Payment, Accommodation, Review}, seq)
	require.Equal(t, 7, EffectiveCount(f))
}

func TestEffectiveSequence_SingleSkipsFamily(t *testing.T) {
	f := formWith(registration.MaritalSingle, "Cần Thơ")

	seq := EffectiveSequence(f)

	require.NotContains(t, seq, Family)
	require.Equal(t, 6, len(seq))
}

func TestEffectiveSequence_DaNangSkipsTravel(t *testing.T) {
	f := formWith(registration.MaritalMarried, registration.ChurchDaNang)

	seq := EffectiveSequence(f)

	require.NotContains(t, seq, Travel)
	require.Contains(t, seq, Family)
}

func TestEffectiveSequence_SkipRulesCompose(t *testing.T) {
	f := formWith(registration.MaritalSingle, registration.ChurchDaNang)

	seq := EffectiveSequence(f)

	require.Equal(t, []ID{PersonalInfo, Package, Payment, Accommodation, Review}, seq)
}

func TestNext_SkipsHiddenSteps(t *testing.T) {
	f := formWith(registration.MaritalSingle, "Cần Thơ")

	next, atEnd := Next(PersonalInfo, f)

	require.False(t, atEnd)
	require.Equal(t, Package, next)
}

func TestNext_OnLastStepSignalsSubmit(t *testing.T) {
	f := formWith(registration.MaritalMarried, "Cần Thơ")

	next, atEnd := Next(Review, f)

	require.True(t, atEnd)
	require.Equal(t, Review, next)
}

func TestNext_CurrentFellOutOfSequence(t *testing.T) {
	// The user sat on Family, then marital status changed to single:
	// advancing must land on the first effective step after Family's slot.
	f := formWith(registration.MaritalSingle, "Cần Thơ")

	next, atEnd := Next(Family, f)

	require.False(t, atEnd)
	require.Equal(t, Package, next)
}

func TestPrev_SkipsHiddenSteps(t *testing.T) {
	f := formWith(registration.MaritalSingle, "Cần Thơ")

	require.Equal(t, PersonalInfo, Prev(Package, f))
}

func TestPrev_AtFirstStepStays(t *testing.T) {
	f := formWith(registration.MaritalMarried, "Cần Thơ")

	require.Equal(t, PersonalInfo, Prev(PersonalInfo, f))
}

func TestFirst(t *testing.T) {
	require.Equal(t, PersonalInfo, First(registration.Defaults()))
}

func TestProgress_Endpoints(t *testing.T) {
	f := formWith(registration.MaritalMarried, "Cần Thơ")
	seq := EffectiveSequence(f)

	require.Equal(t, 14, Progress(PersonalInfo, seq)) // round(100*1/7)
	require.Equal(t, 100, Progress(Review, seq))
}

func TestProgress_ShorterSequenceRecomputes(t *testing.T) {
	// Same step, fewer effective steps: the percentage grows.
	full := EffectiveSequence(formWith(registration.MaritalMarried, "Cần Thơ"))
	short := EffectiveSequence(formWith(registration.MaritalSingle, registration.ChurchDaNang))

	require.Greater(t, Progress(Package, short), Progress(Package, full))
}

func TestProgress_MonotoneAlongSequence(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		marital := rapid.SampledFrom([]registration.MaritalStatus{
			registration.MaritalSingle, registration.MaritalMarried,
		}).Draw(rt, "marital")
		church := rapid.SampledFrom(registration.Churches).Draw(rt, "church")

		f := formWith(marital, church)
		seq := EffectiveSequence(f)

		prev := 0
		for _, id := range seq {
			p := Progress(id, seq)
			require.Greater(t, p, prev, "progress must strictly increase along the sequence")
			require.LessOrEqual(t, p, 100)
			prev = p
		}
		require.Equal(t, 100, prev, "last step is always 100%%")
	})
}
