package registration

// ChurchDaNang is the sentinel church value that skips the travel step:
// registrants from the host city have no travel schedule to collect.
const ChurchDaNang = "Đà Nẵng"

// DefaultChurch pre-selects the most common congregation.
const DefaultChurch = "Cần Thơ"

// Churches is the fixed set of congregations offered on the personal step.
var Churches = []string{
	"Cần Thơ",
	"Hồ Chí Minh",
	"Hà Nội",
	"Đà Nẵng",
	"Bình Dương",
	"Other",
}

// KnownChurch reports whether v is a member of the church catalog.
func KnownChurch(v string) bool {
	for _, c := range Churches {
		if c == v {
			return true
		}
	}
	return false
}

// Package is a priced participation tier.
type Package struct {
	ID    string
	Name  string
	Price int64 // VND
}

// Adult and child package catalogs, latest pricing revision.
var (
	AdultPackageCatalog = []Package{
		{ID: "ADULT_A", Name: "Full program", Price: 1_200_000},
		{ID: "ADULT_B", Name: "Weekend only", Price: 800_000},
		{ID: "ADULT_C", Name: "Single day", Price: 500_000},
	}

	ChildPackageCatalog = []Package{
		{ID: "CHILD_A", Name: "Full program (child)", Price: 600_000},
		{ID: "CHILD_B", Name: "Weekend only (child)", Price: 400_000},
		{ID: "CHILD_C", Name: "Single day (child)", Price: 250_000},
	}
)

// Souvenir pricing.
const (
	ShirtPrice    int64 = 100_000
	MagazinePrice int64 = 50_000
)

// ShirtSizes lists the selectable souvenir shirt sizes in display order.
var ShirtSizes = []ShirtSize{SizeS, SizeM, SizeL, SizeXL, SizeXXL}

// PackageByID looks up a package in either catalog.
func PackageByID(id string) (Package, bool) {
	for _, p := range AdultPackageCatalog {
		if p.ID == id {
			return p, true
		}
	}
	for _, p := range ChildPackageCatalog {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}

// BankDetails shown on the payment step for manual transfer.
type BankDetails struct {
	Bank          string
	AccountNumber string
	Reference     string
}

// TransferBank is the account registrants transfer the fee to.
var TransferBank = BankDetails{
	Bank:          "Vietcombank",
	AccountNumber: "1023456789",
	Reference:     "Church Anniversary",
}
