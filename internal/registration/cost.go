package registration

// Total computes the running cost of the current selection in VND:
// packages by catalog price, souvenir shirts, and magazines. Unknown
// package ids contribute nothing rather than failing; validation catches
// them before submission.
func Total(f FormData) int64 {
	var total int64

	for _, pq := range f.PackageSelection.AdultPackages {
		if p, ok := PackageByID(pq.PackageID); ok {
			total += p.Price * int64(pq.Quantity)
		}
	}
	for _, pq := range f.PackageSelection.ChildPackages {
		if p, ok := PackageByID(pq.PackageID); ok {
			total += p.Price * int64(pq.Quantity)
		}
	}
	for _, s := range f.PackageSelection.Shirts {
		total += ShirtPrice * int64(s.Quantity)
	}
	if f.PackageSelection.WantMagazine {
		total += MagazinePrice * int64(f.PackageSelection.MagazineQuantity)
	}

	return total
}
