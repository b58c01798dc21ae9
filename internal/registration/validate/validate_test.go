package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"regwiz/internal/registration"
	"regwiz/internal/registration/steps"
)

// validForm returns answers that pass every step.
func validForm() registration.FormData {
	f := registration.Defaults()
	f.PersonalInfo.FullName = "Nguyễn Văn An"
	f.PersonalInfo.PhoneNumber = "0901234567"
	f.PersonalInfo.Email = "an@example.org"
	f.PersonalInfo.MaritalStatus = registration.MaritalMarried
	f.PackageSelection.SetAdultPackage("ADULT_A", 1)
	return f
}

func TestStep_PersonalInfo_Valid(t *testing.T) {
	r := Step(steps.PersonalInfo, validForm())

	require.True(t, r.Valid())
}

func TestStep_PersonalInfo_RequiredFields(t *testing.T) {
	f := validForm()
	f.PersonalInfo = registration.PersonalInfo{}

	r := Step(steps.PersonalInfo, f)

	require.True(t, r.Has(MsgFullNameRequired))
	require.True(t, r.Has(MsgPhoneRequired))
	require.True(t, r.Has(MsgEmailRequired))
	require.True(t, r.Has(MsgChurchRequired))
	require.True(t, r.Has(MsgMaritalStatusRequired))
}

func TestStep_PersonalInfo_PhoneRules(t *testing.T) {
	f := validForm()

	f.PersonalInfo.PhoneNumber = "090123"
	require.True(t, Step(steps.PersonalInfo, f).Has(MsgPhoneTooShort))

	f.PersonalInfo.PhoneNumber = "09012345ab"
	require.True(t, Step(steps.PersonalInfo, f).Has(MsgPhoneInvalid))

	f.PersonalInfo.PhoneNumber = "+84 (90) 123-4567"
	require.True(t, Step(steps.PersonalInfo, f).Valid())
}

func TestStep_PersonalInfo_EmailRules(t *testing.T) {
	f := validForm()

	f.PersonalInfo.Email = "not-an-email"
	require.True(t, Step(steps.PersonalInfo, f).Has(MsgEmailInvalid))

	f.PersonalInfo.Email = "an@example.org"
	require.True(t, Step(steps.PersonalInfo, f).Valid())
}

func TestStep_PersonalInfo_UnknownChurch(t *testing.T) {
	f := validForm()
	f.PersonalInfo.Church = "Elsewhere"

	require.True(t, Step(steps.PersonalInfo, f).Has(MsgChurchUnknown))
}

func TestStep_Family_SpouseNameOnlyWhenAttending(t *testing.T) {
	f := validForm()
	f.FamilyParticipation.AttendingWithSpouse = false
	require.True(t, Step(steps.Family, f).Valid())

	f.FamilyParticipation.AttendingWithSpouse = true
	require.True(t, Step(steps.Family, f).Has(MsgSpouseNameRequired))

	f.FamilyParticipation.SpouseName = "Trần Thị Hoa"
	require.True(t, Step(steps.Family, f).Valid())
}

func TestStep_Family_ChildRules(t *testing.T) {
	f := validForm()
	f.FamilyParticipation.Children = []registration.Child{
		{Name: "", Age: 5, Group: registration.BracketUnder6},
		{Name: "Cường", Age: 19, Group: registration.BracketAbove11},
	}

	r := Step(steps.Family, f)

	require.True(t, r.Has(MsgChildNameRequired))
	require.True(t, r.Has(MsgChildAgeRange))
	require.Len(t, r.Errors, 2)
}

func TestStep_Package_RequiresOneSelection(t *testing.T) {
	f := validForm()
	f.PackageSelection = registration.PackageSelection{}
	require.True(t, Step(steps.Package, f).Has(MsgPackageRequired))

	// Shirts and magazines alone don't satisfy the gate.
	f.PackageSelection.AddShirt(registration.SizeM, 3)
	f.PackageSelection.MagazineQuantity = 2
	require.True(t, Step(steps.Package, f).Has(MsgPackageRequired))

	f.PackageSelection.SetChildPackage("CHILD_A", 1)
	require.True(t, Step(steps.Package, f).Valid())
}

func TestStep_Travel_NilAndNoInfoAreClean(t *testing.T) {
	f := validForm()

	f.TravelSchedule = nil
	require.True(t, Step(steps.Travel, f).Valid())

	f.TravelSchedule = &registration.TravelSchedule{NoTravelInfo: true}
	require.True(t, Step(steps.Travel, f).Valid())
}

func TestStep_Travel_ReturnBeforeArrival(t *testing.T) {
	arrival := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	ret := arrival.AddDate(0, 0, -1)
	f := validForm()
	f.TravelSchedule = &registration.TravelSchedule{ArrivalDate: &arrival, ReturnDate: &ret}

	require.False(t, Step(steps.Travel, f).Valid())

	// NoTravelInfo exempts everything, even an inconsistent date pair.
	f.TravelSchedule.NoTravelInfo = true
	require.True(t, Step(steps.Travel, f).Valid())
}

func TestStep_Payment_WillPayLaterNeedsNothing(t *testing.T) {
	f := validForm()
	f.Payment = registration.Payment{Status: registration.PaymentWillPayLater}

	require.True(t, Step(steps.Payment, f).Valid())
}

func TestStep_Payment_PaidReportsEachMissingFieldSeparately(t *testing.T) {
	f := validForm()
	f.Payment = registration.Payment{Status: registration.PaymentPaid}

	r := Step(steps.Payment, f)
	require.Len(t, r.Errors, 2)
	require.True(t, r.Has(MsgTransferDateRequired))
	require.True(t, r.Has(MsgReceiptRequired))

	// Supplying one leaves exactly the other's message.
	now := time.Now().UTC()
	f.Payment.TransferDate = &now
	r = Step(steps.Payment, f)
	require.Len(t, r.Errors, 1)
	require.True(t, r.Has(MsgReceiptRequired))

	f.Payment.TransferDate = nil
	f.Payment.Receipt = &registration.Receipt{FileName: "r.png"}
	r = Step(steps.Payment, f)
	require.Len(t, r.Errors, 1)
	require.True(t, r.Has(MsgTransferDateRequired))
}

func TestStep_Accommodation_NegativeSponsorship(t *testing.T) {
	f := validForm()
	f.Accommodation.SponsorshipAmount = -1

	require.False(t, Step(steps.Accommodation, f).Valid())
}

func TestStep_Review_HasNoFields(t *testing.T) {
	require.True(t, Step(steps.Review, registration.FormData{}).Valid())
}

func TestAll_OnlyChecksEffectiveSteps(t *testing.T) {
	// A single registrant's spouse fields never block submission: the
	// family step is skipped, so its rules don't run.
	f := validForm()
	f.PersonalInfo.MaritalStatus = registration.MaritalSingle
	f.FamilyParticipation.AttendingWithSpouse = true // would fail if checked

	require.True(t, All(f).Valid())
}

func TestAll_AggregatesAcrossSteps(t *testing.T) {
	f := validForm()
	f.PersonalInfo.FullName = ""
	f.PackageSelection = registration.PackageSelection{}

	r := All(f)

	require.True(t, r.Has(MsgFullNameRequired))
	require.True(t, r.Has(MsgPackageRequired))
}
