// Package validate implements the per-step field validation rules.
//
// Validation is step-scoped: advancing past a step checks only that
// step's fields. Failure is a normal control-flow outcome carried in the
// Result value; nothing here panics or returns an error.
package validate

import (
	"fmt"
	"net/mail"
	"strings"

	"regwiz/internal/registration"
	"regwiz/internal/registration/steps"
)

// Canonical field error messages. The payment messages are deliberately
// separate: when only one of the two paid-status fields is missing, only
// that field's message is raised.
const (
	MsgFullNameRequired      = "full name is required"
	MsgPhoneRequired         = "phone number is required"
	MsgPhoneTooShort         = "phone number must be at least 10 characters"
	MsgPhoneInvalid          = "phone number contains invalid characters"
	MsgEmailRequired         = "email is required"
	MsgEmailInvalid          = "invalid email address"
	MsgChurchRequired        = "church is required"
	MsgChurchUnknown         = "church is not in the list"
	MsgMaritalStatusRequired = "marital status is required"
	MsgSpouseNameRequired    = "spouse name is required"
	MsgChildNameRequired     = "child name is required"
	MsgChildAgeRange         = "child age must be between 0 and 18"
	MsgPackageRequired       = "select at least one package"
	MsgTransferDateRequired  = "transfer date is required"
	MsgReceiptRequired       = "receipt image is required"
)

// FieldError is one failed constraint on one field.
type FieldError struct {
	Field   string
	Message string
}

// Result is the outcome of validating a step or the whole form.
type Result struct {
	Errors []FieldError
}

// Valid reports whether no constraint failed.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Has reports whether some field carries the given message.
func (r Result) Has(message string) bool {
	for _, e := range r.Errors {
		if e.Message == message {
			return true
		}
	}
	return false
}

func (r *Result) add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Step validates only the fields belonging to the given step.
// The review step introduces no fields and always validates clean.
func Step(id steps.ID, f registration.FormData) Result {
	var r Result
	switch id {
	case steps.PersonalInfo:
		validatePersonal(&r, f.PersonalInfo)
	case steps.Family:
		validateFamily(&r, f.FamilyParticipation)
	case steps.Package:
		validatePackage(&r, f.PackageSelection)
	case steps.Travel:
		validateTravel(&r, f.TravelSchedule)
	case steps.Payment:
		validatePayment(&r, f.Payment)
	case steps.Accommodation:
		validateAccommodation(&r, f.Accommodation)
	case steps.Review:
		// No fields of its own.
	}
	return r
}

// All validates every effective step, used as the final submission gate.
func All(f registration.FormData) Result {
	var r Result
	for _, id := range steps.EffectiveSequence(f) {
		step := Step(id, f)
		r.Errors = append(r.Errors, step.Errors...)
	}
	return r
}

func validatePersonal(r *Result, p registration.PersonalInfo) {
	if strings.TrimSpace(p.FullName) == "" {
		r.add("personalInfo.fullName", MsgFullNameRequired)
	}

	phone := strings.TrimSpace(p.PhoneNumber)
	switch {
	case phone == "":
		r.add("personalInfo.phoneNumber", MsgPhoneRequired)
	case len(phone) < 10:
		r.add("personalInfo.phoneNumber", MsgPhoneTooShort)
	case !validPhoneCharset(phone):
		r.add("personalInfo.phoneNumber", MsgPhoneInvalid)
	}

	email := strings.TrimSpace(p.Email)
	switch {
	case email == "":
		r.add("personalInfo.email", MsgEmailRequired)
	case !validEmail(email):
		r.add("personalInfo.email", MsgEmailInvalid)
	}

	switch {
	case p.Church == "":
		r.add("personalInfo.church", MsgChurchRequired)
	case !registration.KnownChurch(p.Church):
		r.add("personalInfo.church", MsgChurchUnknown)
	}

	switch p.MaritalStatus {
	case registration.MaritalSingle, registration.MaritalMarried:
	default:
		r.add("personalInfo.maritalStatus", MsgMaritalStatusRequired)
	}
}

func validateFamily(r *Result, fam registration.FamilyParticipation) {
	if fam.AttendingWithSpouse && strings.TrimSpace(fam.SpouseName) == "" {
		r.add("familyParticipation.spouseName", MsgSpouseNameRequired)
	}
	for i, ch := range fam.Children {
		if strings.TrimSpace(ch.Name) == "" {
			r.add(fmt.Sprintf("familyParticipation.children.%d.name", i), MsgChildNameRequired)
		}
		if ch.Age < 0 || ch.Age > 18 {
			r.add(fmt.Sprintf("familyParticipation.children.%d.age", i), MsgChildAgeRange)
		}
	}
}

func validatePackage(r *Result, p registration.PackageSelection) {
	if p.TotalPackageQuantity() <= 0 {
		r.add("packageSelection", MsgPackageRequired)
	}
}

// validateTravel: when the registrant has no travel information yet, every
// other travel field is exempt regardless of its own rules. The step is
// optional in its entirety, so a nil schedule is also clean.
func validateTravel(r *Result, t *registration.TravelSchedule) {
	if t == nil || t.NoTravelInfo {
		return
	}
	if t.ArrivalDate != nil && t.ReturnDate != nil && t.ReturnDate.Before(*t.ArrivalDate) {
		r.add("travelSchedule.returnDate", "return date must not be before arrival date")
	}
}

// validatePayment: willPayLater needs nothing beyond the status itself.
// paid requires both transfer date and receipt, each reported with its own
// message only, never a combined one.
func validatePayment(r *Result, p registration.Payment) {
	if p.Status != registration.PaymentPaid {
		return
	}
	if p.TransferDate == nil {
		r.add("payment.transferDate", MsgTransferDateRequired)
	}
	if p.Receipt == nil {
		r.add("payment.receiptImage", MsgReceiptRequired)
	}
}

func validateAccommodation(r *Result, a registration.Accommodation) {
	if a.SponsorshipAmount < 0 {
		r.add("accommodation.sponsorshipAmount", "sponsorship amount must not be negative")
	}
}

// validPhoneCharset accepts digits, '+', '-', spaces and parentheses.
func validPhoneCharset(phone string) bool {
	for _, c := range phone {
		switch {
		case c >= '0' && c <= '9':
		case c == '+' || c == '-' || c == ' ' || c == '(' || c == ')':
		default:
			return false
		}
	}
	return true
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// mail.ParseAddress accepts display names; the form wants a bare address.
	return addr.Address == email && strings.Contains(email, ".")
}
