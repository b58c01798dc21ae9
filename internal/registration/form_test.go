package registration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	f := Defaults()

	require.Equal(t, GenderMale, f.PersonalInfo.Gender)
	require.Equal(t, DefaultChurch, f.PersonalInfo.Church)
	require.Equal(t, PaymentWillPayLater, f.Payment.Status)
	require.True(t, f.IsDraft)
	require.NotNil(t, f.FamilyParticipation.Children)
	require.NotNil(t, f.TravelSchedule)
}

func TestAddShirt_CoalescesBySize(t *testing.T) {
	var p PackageSelection

	p.AddShirt(SizeM, 2)
	p.AddShirt(SizeL, 1)
	p.AddShirt(SizeM, 3)

	require.Len(t, p.Shirts, 2)
	require.Equal(t, ShirtOrder{Size: SizeM, Quantity: 5}, p.Shirts[0])
	require.Equal(t, ShirtOrder{Size: SizeL, Quantity: 1}, p.Shirts[1])
}

func TestAddShirt_IgnoresNonPositiveQuantity(t *testing.T) {
	var p PackageSelection

	p.AddShirt(SizeS, 0)
	p.AddShirt(SizeS, -1)

	require.Empty(t, p.Shirts)
}

func TestSetPackage_ReplacesQuantity(t *testing.T) {
	var p PackageSelection

	p.SetAdultPackage("ADULT_A", 2)
	p.SetAdultPackage("ADULT_A", 1)
	p.SetChildPackage("CHILD_B", 3)

	require.Equal(t, []PackageQuantity{{PackageID: "ADULT_A", Quantity: 1}}, p.AdultPackages)
	require.Equal(t, 4, p.TotalPackageQuantity())
}

func TestNormalize_RestoresDerivedInvariants(t *testing.T) {
	f := FormData{
		FamilyParticipation: FamilyParticipation{
			NumberOfChildren: 99,
			Children: []Child{
				{Name: "A", Age: 4, Group: BracketUnder6},
			},
		},
	}

	f.Normalize()

	require.Equal(t, 1, f.FamilyParticipation.NumberOfChildren)
	require.NotNil(t, f.PackageSelection.AdultPackages)
	require.NotNil(t, f.PackageSelection.ChildPackages)
	require.NotNil(t, f.PackageSelection.Shirts)
}

func TestNormalize_CoalescesDuplicateShirtSizes(t *testing.T) {
	f := FormData{
		PackageSelection: PackageSelection{
			Shirts: []ShirtOrder{
				{Size: SizeM, Quantity: 2},
				{Size: SizeL, Quantity: 1},
				{Size: SizeM, Quantity: 3},
			},
		},
	}

	f.Normalize()

	require.Equal(t, []ShirtOrder{
		{Size: SizeM, Quantity: 5},
		{Size: SizeL, Quantity: 1},
	}, f.PackageSelection.Shirts)
}

func TestClone_IsIndependent(t *testing.T) {
	arrival := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	f := Defaults()
	f.FamilyParticipation.Children = []Child{{Name: "A", Age: 4, Group: BracketUnder6}}
	f.TravelSchedule.ArrivalDate = &arrival
	f.Payment.Receipt = &Receipt{FileName: "r.png"}

	c := f.Clone()
	c.FamilyParticipation.Children[0].Name = "B"
	*c.TravelSchedule.ArrivalDate = arrival.AddDate(0, 0, 5)
	c.Payment.Receipt.FileName = "other.png"

	require.Equal(t, "A", f.FamilyParticipation.Children[0].Name)
	require.Equal(t, arrival, *f.TravelSchedule.ArrivalDate)
	require.Equal(t, "r.png", f.Payment.Receipt.FileName)
}

func TestTotal(t *testing.T) {
	f := Defaults()
	f.PackageSelection.SetAdultPackage("ADULT_A", 2) // 2 × 1,200,000
	f.PackageSelection.SetChildPackage("CHILD_C", 1) // 250,000
	f.PackageSelection.AddShirt(SizeM, 3)            // 3 × 100,000
	f.PackageSelection.WantMagazine = true
	f.PackageSelection.MagazineQuantity = 2 // 2 × 50,000

	require.Equal(t, int64(3_050_000), Total(f))
}

func TestTotal_UnknownPackageContributesNothing(t *testing.T) {
	f := Defaults()
	f.PackageSelection.SetAdultPackage("GONE", 5)

	require.Equal(t, int64(0), Total(f))
}
