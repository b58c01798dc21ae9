package registration

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSyncChildren_GeneratesNamedEntries(t *testing.T) {
	out := SyncChildren(nil, BracketCounts{
		BracketAbove11: 1,
		Bracket6To11:   2,
	})

	require.Len(t, out, 3)
	require.Equal(t, Child{Name: "Above 11 1", Age: 12, Group: BracketAbove11}, out[0])
	require.Equal(t, Child{Name: "6-11 1", Age: 8, Group: Bracket6To11}, out[1])
	require.Equal(t, Child{Name: "6-11 2", Age: 8, Group: Bracket6To11}, out[2])
}

func TestSyncChildren_PreservesEditedEntries(t *testing.T) {
	existing := []Child{
		{Name: "An", Age: 13, Group: BracketAbove11},
		{Name: "Bình", Age: 7, Group: Bracket6To11},
	}

	out := SyncChildren(existing, BracketCounts{
		BracketAbove11: 2,
		Bracket6To11:   1,
	})

	require.Len(t, out, 3)
	require.Equal(t, "An", out[0].Name)
	require.Equal(t, Child{Name: "Above 11 2", Age: 12, Group: BracketAbove11}, out[1])
	require.Equal(t, "Bình", out[2].Name)
}

func TestSyncChildren_DropsExcessFromTheEnd(t *testing.T) {
	existing := []Child{
		{Name: "First", Age: 3, Group: BracketUnder6},
		{Name: "Second", Age: 4, Group: BracketUnder6},
	}

	out := SyncChildren(existing, BracketCounts{BracketUnder6: 1})

	require.Len(t, out, 1)
	require.Equal(t, "First", out[0].Name)
}

func TestSyncChildren_BracketOrderIsFixed(t *testing.T) {
	// Entries come back grouped in bracket order regardless of input order.
	existing := []Child{
		{Name: "Young", Age: 3, Group: BracketUnder6},
		{Name: "Old", Age: 14, Group: BracketAbove11},
	}

	out := SyncChildren(existing, BracketCounts{
		BracketAbove11: 1,
		BracketUnder6:  1,
	})

	require.Equal(t, BracketAbove11, out[0].Group)
	require.Equal(t, BracketUnder6, out[1].Group)
}

func TestSyncChildren_NegativeCountsTreatedAsZero(t *testing.T) {
	out := SyncChildren(nil, BracketCounts{BracketAbove11: -2})

	require.Empty(t, out)
}

func TestSyncChildren_Idempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		counts := BracketCounts{
			BracketAbove11: rapid.IntRange(0, 6).Draw(rt, "above11"),
			Bracket6To11:   rapid.IntRange(0, 6).Draw(rt, "6to11"),
			BracketUnder6:  rapid.IntRange(0, 6).Draw(rt, "under6"),
		}

		once := SyncChildren(nil, counts)
		twice := SyncChildren(once, counts)

		require.Equal(t, once, twice, "same counts must be a no-op")
		require.Equal(t, counts.Total(), len(once))
		derived := CountsOf(once)
		for _, b := range Brackets {
			require.Equal(t, counts[b], derived[b], "bracket %s", b)
		}
	})
}
