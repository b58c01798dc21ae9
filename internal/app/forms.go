package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"regwiz/internal/registration"
	"regwiz/internal/registration/steps"
	"regwiz/internal/registration/store"
	"regwiz/internal/registration/validate"
	"regwiz/internal/ui/stepform"
)

// dateLayout is the entry format for all date fields.
const dateLayout = "2006-01-02"

// buildForm constructs the field stack for one step, pre-filled from the
// current answers. Field keys match the validator's field names so
// validation messages attach to the right field.
func buildForm(id steps.ID, f registration.FormData) stepform.Model {
	cfg := stepform.Config{Title: id.Title()}

	switch id {
	case steps.PersonalInfo:
		cfg.Fields = []stepform.FieldConfig{
			{
				Key: "personalInfo.fullName", Type: stepform.FieldTypeText,
				Label: "Full Name", Hint: "required",
				InitialValue: f.PersonalInfo.FullName,
			},
			{
				Key: "personalInfo.gender", Type: stepform.FieldTypeToggle,
				Label: "Gender",
				Options: []stepform.Option{
					{Label: "Male", Value: string(registration.GenderMale)},
					{Label: "Female", Value: string(registration.GenderFemale)},
				},
				InitialToggleIndex: toggleIndex(f.PersonalInfo.Gender == registration.GenderFemale),
			},
			{
				Key: "personalInfo.phoneNumber", Type: stepform.FieldTypeText,
				Label: "Phone Number", Hint: "required",
				Placeholder:  "+84 ...",
				InitialValue: f.PersonalInfo.PhoneNumber,
			},
			{
				Key: "personalInfo.email", Type: stepform.FieldTypeText,
				Label: "Email", Hint: "required",
				Placeholder:  "you@example.org",
				InitialValue: f.PersonalInfo.Email,
			},
			{
				Key: "personalInfo.church", Type: stepform.FieldTypeSelect,
				Label:   "Church", Hint: "required",
				Options: churchOptions(f.PersonalInfo.Church),
			},
			{
				Key: "personalInfo.maritalStatus", Type: stepform.FieldTypeSelect,
				Label: "Marital Status", Hint: "required",
				Options: []stepform.Option{
					{Label: "Single", Value: string(registration.MaritalSingle), Selected: f.PersonalInfo.MaritalStatus == registration.MaritalSingle},
					{Label: "Married", Value: string(registration.MaritalMarried), Selected: f.PersonalInfo.MaritalStatus == registration.MaritalMarried},
				},
			},
		}

	case steps.Family:
		counts := registration.CountsOf(f.FamilyParticipation.Children)
		cfg.Fields = []stepform.FieldConfig{
			{
				Key: "familyParticipation.attendingWithSpouse", Type: stepform.FieldTypeToggle,
				Label: "Attending With Spouse",
				Options: []stepform.Option{
					{Label: "No", Value: "no"},
					{Label: "Yes", Value: "yes"},
				},
				InitialToggleIndex: toggleIndex(f.FamilyParticipation.AttendingWithSpouse),
			},
			{
				Key: "familyParticipation.spouseName", Type: stepform.FieldTypeText,
				Label: "Spouse Name", Hint: "required when attending",
				InitialValue: f.FamilyParticipation.SpouseName,
			},
			{
				Key: "familyParticipation.spousePhone", Type: stepform.FieldTypeText,
				Label: "Spouse Phone", Hint: "optional",
				InitialValue: f.FamilyParticipation.SpousePhone,
			},
			{
				Key: "children.above11", Type: stepform.FieldTypeCounter,
				Label: "Children Above 11", Min: 0, Max: 10,
				InitialCount: counts[registration.BracketAbove11],
			},
			{
				Key: "children.6to11", Type: stepform.FieldTypeCounter,
				Label: "Children 6-11", Min: 0, Max: 10,
				InitialCount: counts[registration.Bracket6To11],
			},
			{
				Key: "children.under6", Type: stepform.FieldTypeCounter,
				Label: "Children Under 6", Min: 0, Max: 10,
				InitialCount: counts[registration.BracketUnder6],
			},
		}

	case steps.Package:
		fields := make([]stepform.FieldConfig, 0, 12)
		for _, p := range registration.AdultPackageCatalog {
			fields = append(fields, stepform.FieldConfig{
				Key: "package." + p.ID, Type: stepform.FieldTypeCounter,
				Label: fmt.Sprintf("%s — %s", p.Name, formatVND(p.Price)),
				Min:   0, Max: 20,
				InitialCount: packageQty(f.PackageSelection.AdultPackages, p.ID),
			})
		}
		for _, p := range registration.ChildPackageCatalog {
			fields = append(fields, stepform.FieldConfig{
				Key: "package." + p.ID, Type: stepform.FieldTypeCounter,
				Label: fmt.Sprintf("%s — %s", p.Name, formatVND(p.Price)),
				Min:   0, Max: 20,
				InitialCount: packageQty(f.PackageSelection.ChildPackages, p.ID),
			})
		}
		for _, size := range registration.ShirtSizes {
			fields = append(fields, stepform.FieldConfig{
				Key: "shirt." + string(size), Type: stepform.FieldTypeCounter,
				Label: fmt.Sprintf("Shirt %s — %s", size, formatVND(registration.ShirtPrice)),
				Min:   0, Max: 20,
				InitialCount: shirtQty(f.PackageSelection.Shirts, size),
			})
		}
		fields = append(fields, stepform.FieldConfig{
			Key: "magazine", Type: stepform.FieldTypeCounter,
			Label: fmt.Sprintf("Anniversary Magazine — %s", formatVND(registration.MagazinePrice)),
			Min:   0, Max: 20,
			InitialCount: f.PackageSelection.MagazineQuantity,
		})
		cfg.Fields = fields

	case steps.Travel:
		t := f.TravelSchedule
		if t == nil {
			t = &registration.TravelSchedule{}
		}
		cfg.Fields = []stepform.FieldConfig{
			{
				Key: "travelSchedule.noTravelInfo", Type: stepform.FieldTypeToggle,
				Label: "Travel Details",
				Options: []stepform.Option{
					{Label: "Provide now", Value: "no"},
					{Label: "Share later", Value: "yes"},
				},
				InitialToggleIndex: toggleIndex(t.NoTravelInfo),
			},
			{
				Key: "travelSchedule.arrivalDate", Type: stepform.FieldTypeDate,
				Label: "Arrival Date", Hint: "YYYY-MM-DD",
				InitialValue: formatDate(t.ArrivalDate),
			},
			{
				Key: "travelSchedule.returnDate", Type: stepform.FieldTypeDate,
				Label: "Return Date", Hint: "YYYY-MM-DD",
				InitialValue: formatDate(t.ReturnDate),
			},
			{
				Key: "travelSchedule.transport", Type: stepform.FieldTypeSelect,
				Label: "Transport",
				Options: []stepform.Option{
					{Label: "Plane", Value: string(registration.TransportPlane), Selected: t.Transport == registration.TransportPlane},
					{Label: "Train", Value: string(registration.TransportTrain), Selected: t.Transport == registration.TransportTrain},
					{Label: "Bus", Value: string(registration.TransportBus), Selected: t.Transport == registration.TransportBus},
					{Label: "Self-arranged", Value: string(registration.TransportSelf), Selected: t.Transport == registration.TransportSelf},
				},
			},
			{
				Key: "travelSchedule.flightCode", Type: stepform.FieldTypeText,
				Label: "Flight Code", Hint: "optional",
				InitialValue: t.FlightCode,
			},
		}

	case steps.Payment:
		cfg.Fields = []stepform.FieldConfig{
			{
				Key: "payment.status", Type: stepform.FieldTypeToggle,
				Label: "Payment Status",
				Options: []stepform.Option{
					{Label: "Will pay later", Value: string(registration.PaymentWillPayLater)},
					{Label: "Transferred", Value: string(registration.PaymentPaid)},
				},
				InitialToggleIndex: toggleIndex(f.Payment.Status == registration.PaymentPaid),
			},
			{
				Key: "payment.transferDate", Type: stepform.FieldTypeDate,
				Label: "Transfer Date", Hint: "required when transferred",
				InitialValue: formatDate(f.Payment.TransferDate),
			},
			{
				Key: "payment.receiptImage", Type: stepform.FieldTypeText,
				Label: "Receipt File", Hint: "PNG, JPG or PDF, max 10MB",
				Placeholder:  "/path/to/receipt.png",
				InitialValue: receiptPath(f.Payment.Receipt),
			},
		}

	case steps.Accommodation:
		cfg.Fields = []stepform.FieldConfig{
			{
				Key: "accommodation.assistanceDetails", Type: stepform.FieldTypeText,
				Label: "Assistance Details", Hint: "optional",
				InitialValue: f.Accommodation.AssistanceDetails,
			},
			participationField("accommodation.participateBigGame", "Big Game", f.Accommodation.ParticipateBigGame),
			participationField("accommodation.participateSports", "Sports", f.Accommodation.ParticipateSports),
			participationField("accommodation.participateVolleyball", "Volleyball", f.Accommodation.ParticipateVolleyball),
			{
				Key: "accommodation.sponsorshipAmount", Type: stepform.FieldTypeText,
				Label: "Sponsorship Amount", Hint: "VND, optional",
				InitialValue: amountValue(f.Accommodation.SponsorshipAmount),
			},
			{
				Key: "accommodation.bankNote", Type: stepform.FieldTypeText,
				Label: "Bank Note", Hint: "optional",
				InitialValue: f.Accommodation.BankNote,
			},
		}

	case steps.Review:
		// No fields; the review pane renders from the store directly.
	}

	return stepform.New(cfg)
}

// applyStep writes the form's values back into the store. Returns an
// error when a value cannot be converted (bad date, unreadable receipt).
func applyStep(id steps.ID, values map[string]any, st *store.Store) error {
	switch id {
	case steps.PersonalInfo:
		st.Update(func(f *registration.FormData) {
			f.PersonalInfo.FullName = asString(values["personalInfo.fullName"])
			f.PersonalInfo.Gender = registration.Gender(asString(values["personalInfo.gender"]))
			f.PersonalInfo.PhoneNumber = asString(values["personalInfo.phoneNumber"])
			f.PersonalInfo.Email = asString(values["personalInfo.email"])
			f.PersonalInfo.Church = asString(values["personalInfo.church"])
			f.PersonalInfo.MaritalStatus = registration.MaritalStatus(asString(values["personalInfo.maritalStatus"]))
		})

	case steps.Family:
		st.Update(func(f *registration.FormData) {
			f.FamilyParticipation.AttendingWithSpouse = asString(values["familyParticipation.attendingWithSpouse"]) == "yes"
			f.FamilyParticipation.SpouseName = asString(values["familyParticipation.spouseName"])
			f.FamilyParticipation.SpousePhone = asString(values["familyParticipation.spousePhone"])
		})
		st.SetBracketCounts(registration.BracketCounts{
			registration.BracketAbove11: asInt(values["children.above11"]),
			registration.Bracket6To11:   asInt(values["children.6to11"]),
			registration.BracketUnder6:  asInt(values["children.under6"]),
		})

	case steps.Package:
		st.Update(func(f *registration.FormData) {
			for _, p := range registration.AdultPackageCatalog {
				f.PackageSelection.SetAdultPackage(p.ID, asInt(values["package."+p.ID]))
			}
			for _, p := range registration.ChildPackageCatalog {
				f.PackageSelection.SetChildPackage(p.ID, asInt(values["package."+p.ID]))
			}

			f.PackageSelection.Shirts = nil
			for _, size := range registration.ShirtSizes {
				f.PackageSelection.AddShirt(size, asInt(values["shirt."+string(size)]))
			}

			qty := asInt(values["magazine"])
			f.PackageSelection.MagazineQuantity = qty
			f.PackageSelection.WantMagazine = qty > 0
		})

	case steps.Travel:
		// Sharing details later exempts every other travel field, so a
		// leftover unparseable date is discarded instead of blocking.
		noInfo := asString(values["travelSchedule.noTravelInfo"]) == "yes"
		arrival, err := parseDate(asString(values["travelSchedule.arrivalDate"]))
		if err != nil {
			if !noInfo {
				return fmt.Errorf("arrival date: %w", err)
			}
			arrival = nil
		}
		ret, err := parseDate(asString(values["travelSchedule.returnDate"]))
		if err != nil {
			if !noInfo {
				return fmt.Errorf("return date: %w", err)
			}
			ret = nil
		}
		st.Update(func(f *registration.FormData) {
			f.TravelSchedule = &registration.TravelSchedule{
				NoTravelInfo: noInfo,
				ArrivalDate:  arrival,
				ReturnDate:   ret,
				Transport:    registration.Transport(asString(values["travelSchedule.transport"])),
				FlightCode:   asString(values["travelSchedule.flightCode"]),
			}
		})

	case steps.Payment:
		// Paying later needs only the status; unconvertible transfer-date
		// or receipt leftovers are discarded instead of blocking.
		paid := asString(values["payment.status"]) == string(registration.PaymentPaid)
		transfer, err := parseDate(asString(values["payment.transferDate"]))
		if err != nil {
			if paid {
				return fmt.Errorf("transfer date: %w", err)
			}
			transfer = nil
		}
		receipt, err := resolveReceipt(asString(values["payment.receiptImage"]))
		if err != nil {
			if paid {
				return err
			}
			receipt = nil
		}
		st.Update(func(f *registration.FormData) {
			f.Payment.Status = registration.PaymentStatus(asString(values["payment.status"]))
			f.Payment.TransferDate = transfer
			f.Payment.Receipt = receipt
		})

	case steps.Accommodation:
		amount, err := parseAmount(asString(values["accommodation.sponsorshipAmount"]))
		if err != nil {
			return fmt.Errorf("sponsorship amount: %w", err)
		}
		st.Update(func(f *registration.FormData) {
			f.Accommodation.AssistanceDetails = asString(values["accommodation.assistanceDetails"])
			f.Accommodation.ParticipateBigGame = registration.Participation(asString(values["accommodation.participateBigGame"]))
			f.Accommodation.ParticipateSports = registration.Participation(asString(values["accommodation.participateSports"]))
			f.Accommodation.ParticipateVolleyball = registration.Participation(asString(values["accommodation.participateVolleyball"]))
			f.Accommodation.SponsorshipAmount = amount
			f.Accommodation.BankNote = asString(values["accommodation.bankNote"])
		})

	case steps.Review:
		// Nothing to write back.
	}

	return nil
}

// splitErrors partitions validation failures into messages attached to a
// form field key and step-level messages shown as a banner.
func splitErrors(form stepform.Model, result validate.Result) (map[string]string, []string) {
	keys := map[string]bool{}
	for key := range form.Values() {
		keys[key] = true
	}

	fieldErrs := map[string]string{}
	var banner []string
	for _, e := range result.Errors {
		if keys[e.Field] {
			if _, dup := fieldErrs[e.Field]; !dup {
				fieldErrs[e.Field] = e.Message
			}
			continue
		}
		banner = append(banner, e.Message)
	}
	return fieldErrs, banner
}

func participationField(key, label string, current registration.Participation) stepform.FieldConfig {
	return stepform.FieldConfig{
		Key: key, Type: stepform.FieldTypeSelect,
		Label: label,
		Options: []stepform.Option{
			{Label: "Yes", Value: string(registration.ParticipationYes), Selected: current == registration.ParticipationYes},
			{Label: "No", Value: string(registration.ParticipationNo), Selected: current == registration.ParticipationNo},
			{Label: "Considering", Value: string(registration.ParticipationConsidering), Selected: current == registration.ParticipationConsidering},
		},
	}
}

func churchOptions(current string) []stepform.Option {
	opts := make([]stepform.Option, len(registration.Churches))
	for i, c := range registration.Churches {
		opts[i] = stepform.Option{Label: c, Value: c, Selected: c == current}
	}
	return opts
}

func packageQty(list []registration.PackageQuantity, id string) int {
	for _, pq := range list {
		if pq.PackageID == id {
			return pq.Quantity
		}
	}
	return 0
}

func shirtQty(list []registration.ShirtOrder, size registration.ShirtSize) int {
	for _, so := range list {
		if so.Size == size {
			return so.Quantity
		}
	}
	return 0
}

func toggleIndex(second bool) int {
	if second {
		return 1
	}
	return 0
}

func receiptPath(r *registration.Receipt) string {
	if r == nil {
		return ""
	}
	return r.Path
}

// resolveReceipt loads and validates the receipt at path. An empty path
// clears the receipt.
func resolveReceipt(path string) (*registration.Receipt, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	return registration.LoadReceipt(path)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("expected YYYY-MM-DD, got %q", s)
	}
	t = t.UTC()
	return &t, nil
}

func amountValue(v int64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatInt(v, 10)
}

func parseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("expected a whole number, got %q", s)
	}
	return v, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	n, _ := v.(int)
	return n
}
