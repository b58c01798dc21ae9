package app

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"regwiz/internal/registration"
	"regwiz/internal/registration/steps"
	"regwiz/internal/ui/styles"
)

// renderReview builds the final summary pane: every effective step's
// answers plus the running total, wrapped to the viewport width.
func renderReview(f registration.FormData, width int) string {
	if width < 30 {
		width = 30
	}

	var b strings.Builder

	section := func(title string, lines ...string) {
		b.WriteString(styles.ReviewHeadingStyle.Render(title))
		b.WriteString("\n")
		for _, line := range lines {
			if line == "" {
				continue
			}
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("\n")
	}

	section("Personal",
		fmt.Sprintf("%s (%s)", f.PersonalInfo.FullName, f.PersonalInfo.Gender),
		f.PersonalInfo.PhoneNumber+"  ·  "+f.PersonalInfo.Email,
		fmt.Sprintf("%s, %s", f.PersonalInfo.Church, f.PersonalInfo.MaritalStatus),
	)

	effective := map[steps.ID]bool{}
	for _, id := range steps.EffectiveSequence(f) {
		effective[id] = true
	}

	if effective[steps.Family] {
		lines := []string{}
		if f.FamilyParticipation.AttendingWithSpouse {
			lines = append(lines, "With spouse: "+f.FamilyParticipation.SpouseName)
		}
		for _, ch := range f.FamilyParticipation.Children {
			lines = append(lines, fmt.Sprintf("Child: %s, age %d", ch.Name, ch.Age))
		}
		if len(lines) == 0 {
			lines = append(lines, "Attending alone")
		}
		section("Family", lines...)
	}

	section("Packages", packageLines(f.PackageSelection)...)

	if effective[steps.Travel] && f.TravelSchedule != nil {
		t := f.TravelSchedule
		if t.NoTravelInfo {
			section("Travel", "Details to be shared later")
		} else {
			lines := []string{}
			if t.ArrivalDate != nil {
				lines = append(lines, "Arrive "+t.ArrivalDate.Format(dateLayout))
			}
			if t.ReturnDate != nil {
				lines = append(lines, "Return "+t.ReturnDate.Format(dateLayout))
			}
			if t.Transport != "" {
				line := "By " + string(t.Transport)
				if t.FlightCode != "" {
					line += " (" + t.FlightCode + ")"
				}
				lines = append(lines, line)
			}
			section("Travel", lines...)
		}
	}

	payLines := []string{string(f.Payment.Status)}
	if f.Payment.TransferDate != nil {
		payLines = append(payLines, "Transferred "+f.Payment.TransferDate.Format(dateLayout))
	}
	if f.Payment.Receipt != nil {
		payLines = append(payLines, "Receipt: "+f.Payment.Receipt.FileName)
	}
	section("Payment", payLines...)

	accLines := []string{}
	if f.Accommodation.AssistanceDetails != "" {
		accLines = append(accLines, "Assistance: "+f.Accommodation.AssistanceDetails)
	}
	if f.Accommodation.SponsorshipAmount > 0 {
		accLines = append(accLines, "Sponsorship: "+formatVND(f.Accommodation.SponsorshipAmount))
	}
	if len(accLines) > 0 {
		section("Accommodation & Sponsorship", accLines...)
	}

	b.WriteString(styles.ReviewHeadingStyle.Render("Total"))
	b.WriteString("  ")
	b.WriteString(styles.ReviewAmountStyle.Render(formatVND(registration.Total(f))))
	b.WriteString("\n")

	return wordwrap.String(b.String(), width)
}

// packageLines lists each selected package and souvenir with its subtotal.
func packageLines(p registration.PackageSelection) []string {
	var lines []string

	quantityLine := func(id string, qty int) {
		if qty <= 0 {
			return
		}
		pkg, ok := registration.PackageByID(id)
		if !ok {
			return
		}
		lines = append(lines, fmt.Sprintf("%d× %s — %s", qty, pkg.Name, formatVND(int64(qty)*pkg.Price)))
	}
	for _, pq := range p.AdultPackages {
		quantityLine(pq.PackageID, pq.Quantity)
	}
	for _, pq := range p.ChildPackages {
		quantityLine(pq.PackageID, pq.Quantity)
	}

	for _, so := range p.Shirts {
		if so.Quantity > 0 {
			lines = append(lines, fmt.Sprintf("%d× Shirt %s — %s", so.Quantity, so.Size, formatVND(int64(so.Quantity)*registration.ShirtPrice)))
		}
	}
	if p.MagazineQuantity > 0 {
		lines = append(lines, fmt.Sprintf("%d× Magazine — %s", p.MagazineQuantity, formatVND(int64(p.MagazineQuantity)*registration.MagazinePrice)))
	}

	if len(lines) == 0 {
		lines = append(lines, "No packages selected")
	}
	return lines
}

// formatVND renders a VND amount with dot thousand separators.
func formatVND(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := fmt.Sprintf("%d", amount)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := strings.Join(groups, ".") + " ₫"
	if neg {
		out = "-" + out
	}
	return out
}
