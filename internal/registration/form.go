// Package registration defines the data model for one registration session:
// the aggregate form data collected across the wizard steps, the fixed
// catalogs (churches, packages, shirt sizes), the children bracket reducer,
// and the running cost calculator.
package registration

import "time"

// Gender of the registrant.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// MaritalStatus of the registrant. Single registrants skip the family step.
type MaritalStatus string

const (
	MaritalSingle  MaritalStatus = "single"
	MaritalMarried MaritalStatus = "married"
)

// Transport describes how the registrant travels to the event.
type Transport string

const (
	TransportPlane Transport = "plane"
	TransportTrain Transport = "train"
	TransportBus   Transport = "bus"
	TransportSelf  Transport = "self"
)

// PaymentStatus distinguishes completed transfers from deferred payment.
type PaymentStatus string

const (
	PaymentPaid         PaymentStatus = "paid"
	PaymentWillPayLater PaymentStatus = "willPayLater"
)

// Participation is a yes/no/considering answer for event activities.
type Participation string

const (
	ParticipationYes         Participation = "yes"
	ParticipationNo          Participation = "no"
	ParticipationConsidering Participation = "considering"
)

// ShirtSize is a souvenir shirt size.
type ShirtSize string

const (
	SizeS   ShirtSize = "S"
	SizeM   ShirtSize = "M"
	SizeL   ShirtSize = "L"
	SizeXL  ShirtSize = "XL"
	SizeXXL ShirtSize = "XXL"
)

// PersonalInfo holds the registrant's identity fields collected on step 1.
type PersonalInfo struct {
	FullName      string        `json:"fullName"`
	Gender        Gender        `json:"gender"`
	PhoneNumber   string        `json:"phoneNumber"`
	Email         string        `json:"email"`
	Church        string        `json:"church"`
	MaritalStatus MaritalStatus `json:"maritalStatus"`
}

// Child is one entry in the family children list.
// Group is the age bracket tag the entry was generated for; the bracket
// reducer matches entries by this tag when counts change.
type Child struct {
	Name  string     `json:"name"`
	Age   int        `json:"age"`
	Group AgeBracket `json:"group"`
}

// FamilyParticipation covers spouse and children attendance.
// NumberOfChildren is derived: it always equals len(Children) and is never
// set directly by the user.
type FamilyParticipation struct {
	AttendingWithSpouse bool    `json:"attendingWithSpouse"`
	SpouseName          string  `json:"spouseName,omitempty"`
	SpousePhone         string  `json:"spousePhone,omitempty"`
	NumberOfChildren    int     `json:"numberOfChildren"`
	Children            []Child `json:"children"`
}

// TravelSchedule is optional in its entirety; a nil pointer means the
// registrant never reached or skipped the travel step.
type TravelSchedule struct {
	NoTravelInfo bool       `json:"noTravelInfo"`
	ArrivalDate  *time.Time `json:"arrivalDate,omitempty"`
	ReturnDate   *time.Time `json:"returnDate,omitempty"`
	Transport    Transport  `json:"transport,omitempty"`
	FlightCode   string     `json:"flightCode,omitempty"`
}

// PackageQuantity is a selected quantity of one catalog package.
type PackageQuantity struct {
	PackageID string `json:"packageId"`
	Quantity  int    `json:"quantity"`
}

// ShirtOrder is a quantity of souvenir shirts in one size.
type ShirtOrder struct {
	Size     ShirtSize `json:"size"`
	Quantity int       `json:"quantity"`
}

// PackageSelection holds the package step answers.
type PackageSelection struct {
	AdultPackages    []PackageQuantity `json:"adultPackages"`
	ChildPackages    []PackageQuantity `json:"childPackages"`
	Shirts           []ShirtOrder      `json:"shirts"`
	WantMagazine     bool              `json:"wantMagazine"`
	MagazineQuantity int               `json:"magazineQuantity"`
}

// TotalPackageQuantity sums adult and child package quantities.
// Submission requires this to be greater than zero.
func (p PackageSelection) TotalPackageQuantity() int {
	total := 0
	for _, pq := range p.AdultPackages {
		total += pq.Quantity
	}
	for _, pq := range p.ChildPackages {
		total += pq.Quantity
	}
	return total
}

// AddShirt adds qty shirts of the given size, coalescing by size:
// adding a duplicate size increments the existing entry instead of
// appending a new one.
func (p *PackageSelection) AddShirt(size ShirtSize, qty int) {
	if qty < 1 {
		return
	}
	for i := range p.Shirts {
		if p.Shirts[i].Size == size {
			p.Shirts[i].Quantity += qty
			return
		}
	}
	p.Shirts = append(p.Shirts, ShirtOrder{Size: size, Quantity: qty})
}

// SetAdultPackage sets the quantity for one adult package, replacing any
// existing entry for the same package id.
func (p *PackageSelection) SetAdultPackage(id string, qty int) {
	p.AdultPackages = setPackageQuantity(p.AdultPackages, id, qty)
}

// SetChildPackage sets the quantity for one child package.
func (p *PackageSelection) SetChildPackage(id string, qty int) {
	p.ChildPackages = setPackageQuantity(p.ChildPackages, id, qty)
}

func setPackageQuantity(list []PackageQuantity, id string, qty int) []PackageQuantity {
	if qty < 0 {
		qty = 0
	}
	for i := range list {
		if list[i].PackageID == id {
			list[i].Quantity = qty
			return list
		}
	}
	return append(list, PackageQuantity{PackageID: id, Quantity: qty})
}

// Payment holds the payment step answers. Receipt is an opaque binary
// reference and is never part of the JSON representation; it travels as a
// separate multipart part on the wire and does not survive local
// persistence.
type Payment struct {
	Status       PaymentStatus `json:"status"`
	TransferDate *time.Time    `json:"transferDate,omitempty"`
	Receipt      *Receipt      `json:"-"`
}

// Accommodation holds the accommodation and sponsorship step answers.
type Accommodation struct {
	AssistanceDetails     string        `json:"assistanceDetails,omitempty"`
	ParticipateBigGame    Participation `json:"participateBigGame,omitempty"`
	ParticipateSports     Participation `json:"participateSports,omitempty"`
	ParticipateVolleyball Participation `json:"participateVolleyball,omitempty"`
	SponsorshipAmount     int64         `json:"sponsorshipAmount,omitempty"`
	BankNote              string        `json:"bankNote,omitempty"`
}

// FormData is the aggregate root for one registration session.
// It is owned exclusively by the form store for the session's lifetime.
type FormData struct {
	PersonalInfo        PersonalInfo        `json:"personalInfo"`
	FamilyParticipation FamilyParticipation `json:"familyParticipation"`
	TravelSchedule      *TravelSchedule     `json:"travelSchedule"`
	PackageSelection    PackageSelection    `json:"packageSelection"`
	Payment             Payment             `json:"payment"`
	Accommodation       Accommodation       `json:"accommodation"`
	IsDraft             bool                `json:"isDraft"`
}

// Defaults returns the form state a fresh wizard session starts from.
func Defaults() FormData {
	return FormData{
		PersonalInfo: PersonalInfo{
			Gender: GenderMale,
			Church: DefaultChurch,
		},
		FamilyParticipation: FamilyParticipation{
			Children: []Child{},
		},
		TravelSchedule: &TravelSchedule{},
		PackageSelection: PackageSelection{
			AdultPackages: []PackageQuantity{},
			ChildPackages: []PackageQuantity{},
			Shirts:        []ShirtOrder{},
		},
		Payment: Payment{
			Status: PaymentWillPayLater,
		},
		IsDraft: true,
	}
}

// Normalize defaults absent nested collections so downstream code never
// dereferences nil slices, and restores the one-entry-per-shirt-size
// invariant for payloads produced elsewhere. Both draft load paths run
// this after decoding.
func (f *FormData) Normalize() {
	if f.FamilyParticipation.Children == nil {
		f.FamilyParticipation.Children = []Child{}
	}
	f.FamilyParticipation.NumberOfChildren = len(f.FamilyParticipation.Children)
	if f.PackageSelection.AdultPackages == nil {
		f.PackageSelection.AdultPackages = []PackageQuantity{}
	}
	if f.PackageSelection.ChildPackages == nil {
		f.PackageSelection.ChildPackages = []PackageQuantity{}
	}
	f.PackageSelection.Shirts = coalesceShirts(f.PackageSelection.Shirts)
}

// coalesceShirts merges duplicate size entries, keeping first-seen order.
func coalesceShirts(shirts []ShirtOrder) []ShirtOrder {
	merged := make([]ShirtOrder, 0, len(shirts))
	index := make(map[ShirtSize]int, len(shirts))
	for _, so := range shirts {
		if i, ok := index[so.Size]; ok {
			merged[i].Quantity += so.Quantity
			continue
		}
		index[so.Size] = len(merged)
		merged = append(merged, so)
	}
	return merged
}

// Clone returns a deep copy. Snapshots handed out by the form store are
// clones so callers cannot mutate shared state.
func (f FormData) Clone() FormData {
	out := f

	out.FamilyParticipation.Children = append([]Child(nil), f.FamilyParticipation.Children...)
	out.PackageSelection.AdultPackages = append([]PackageQuantity(nil), f.PackageSelection.AdultPackages...)
	out.PackageSelection.ChildPackages = append([]PackageQuantity(nil), f.PackageSelection.ChildPackages...)
	out.PackageSelection.Shirts = append([]ShirtOrder(nil), f.PackageSelection.Shirts...)

	if f.TravelSchedule != nil {
		ts := *f.TravelSchedule
		ts.ArrivalDate = cloneTime(f.TravelSchedule.ArrivalDate)
		ts.ReturnDate = cloneTime(f.TravelSchedule.ReturnDate)
		out.TravelSchedule = &ts
	}
	out.Payment.TransferDate = cloneTime(f.Payment.TransferDate)
	if f.Payment.Receipt != nil {
		r := *f.Payment.Receipt
		out.Payment.Receipt = &r
	}

	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
