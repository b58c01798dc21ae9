package draft

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"regwiz/internal/registration"
)

func sampleForm() registration.FormData {
	arrival := time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)
	ret := arrival.AddDate(0, 0, 3)

	f := registration.Defaults()
	f.PersonalInfo.FullName = "Nguyễn Văn An"
	f.PersonalInfo.Email = "an@example.org"
	f.PersonalInfo.MaritalStatus = registration.MaritalMarried
	f.FamilyParticipation.Children = []registration.Child{
		{Name: "Bé", Age: 4, Group: registration.BracketUnder6},
	}
	f.TravelSchedule = &registration.TravelSchedule{
		ArrivalDate: &arrival,
		ReturnDate:  &ret,
		Transport:   registration.TransportTrain,
	}
	f.PackageSelection.SetAdultPackage("ADULT_B", 2)
	f.PackageSelection.AddShirt(registration.SizeL, 1)
	return f
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	f := sampleForm()

	data, err := Encode(f, true, time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)

	f.IsDraft = true
	f.Normalize()
	require.Equal(t, f, got)
}

func TestEncode_SetsDraftFlag(t *testing.T) {
	data, err := Encode(sampleForm(), false, time.Now().UTC())
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	require.False(t, got.IsDraft)
}

func TestEncode_DatesAreRFC3339Strings(t *testing.T) {
	data, err := Encode(sampleForm(), true, time.Now().UTC())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	travel := raw["travelSchedule"].(map[string]any)
	require.Equal(t, "2026-10-02T00:00:00Z", travel["arrivalDate"])
}

func TestEncode_ReceiptNeverSerialized(t *testing.T) {
	f := sampleForm()
	f.Payment.Receipt = &registration.Receipt{FileName: "r.png", Path: "/tmp/r.png"}

	data, err := Encode(f, true, time.Now().UTC())
	require.NoError(t, err)

	require.NotContains(t, string(data), "r.png")

	got, err := Decode(data)
	require.NoError(t, err)
	require.Nil(t, got.Payment.Receipt)
}

func TestDecode_NormalizesAbsentCollections(t *testing.T) {
	got, err := Decode([]byte(`{"personalInfo":{"fullName":"An"}}`))
	require.NoError(t, err)

	require.NotNil(t, got.FamilyParticipation.Children)
	require.NotNil(t, got.PackageSelection.Shirts)
	require.Equal(t, 0, got.FamilyParticipation.NumberOfChildren)
}

func TestDecode_CoalescesDuplicateShirtEntries(t *testing.T) {
	raw := []byte(`{"packageSelection":{"shirts":[
		{"size":"M","quantity":2},
		{"size":"M","quantity":1},
		{"size":"L","quantity":1}
	]}}`)

	got, err := Decode(raw)

	require.NoError(t, err)
	require.Equal(t, []registration.ShirtOrder{
		{Size: registration.SizeM, Quantity: 3},
		{Size: registration.SizeL, Quantity: 1},
	}, got.PackageSelection.Shirts)
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	require.Error(t, err)
}

func TestEncodeDecode_RoundTripProperty(t *testing.T) {
	statuses := []registration.PaymentStatus{registration.PaymentPaid, registration.PaymentWillPayLater}

	rapid.Check(t, func(rt *rapid.T) {
		f := registration.Defaults()
		f.PersonalInfo.FullName = rapid.StringN(0, 40, -1).Draw(rt, "name")
		f.PersonalInfo.Email = rapid.StringN(0, 40, -1).Draw(rt, "email")
		f.Payment.Status = rapid.SampledFrom(statuses).Draw(rt, "status")
		f.Accommodation.SponsorshipAmount = rapid.Int64Range(0, 10_000_000).Draw(rt, "sponsorship")

		if rapid.Bool().Draw(rt, "hasTransferDate") {
			// UTC with second precision survives the RFC 3339 round-trip.
			ts := time.Unix(rapid.Int64Range(1_700_000_000, 1_900_000_000).Draw(rt, "transferUnix"), 0).UTC()
			f.Payment.TransferDate = &ts
		}
		counts := registration.BracketCounts{
			registration.BracketAbove11: rapid.IntRange(0, 4).Draw(rt, "above11"),
			registration.Bracket6To11:   rapid.IntRange(0, 4).Draw(rt, "6to11"),
		}
		f.FamilyParticipation.Children = registration.SyncChildren(nil, counts)

		data, err := Encode(f, true, time.Now().UTC())
		require.NoError(rt, err)
		got, err := Decode(data)
		require.NoError(rt, err)

		f.IsDraft = true
		f.Normalize()
		require.Equal(rt, f, got)
	})
}
