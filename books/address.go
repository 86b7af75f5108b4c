package books

import "strings"

// AddressLines returns the non-empty address parts, or "-" when none remain.
func AddressLines(addr *Address) []string {
	if addr == nil {
		return []string{"-"}
	}
	parts := make([]string, 0, 5)
	for _, part := range []string{addr.Street, addr.City, addr.State, addr.Country, addr.Pincode} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return []string{"-"}
	}
	return parts
}

// CityLine renders "City, State PostalCode" for a letterhead.
func (o Organization) CityLine() string {
	if o.City == "" {
		return ""
	}
	return strings.TrimSpace(o.City + ", " + o.State + " " + o.PostalCode)
}

// Letterhead returns the organization lines printed under its name.
func (o Organization) Letterhead() []string {
	lines := make([]string, 0, 5)
	if o.Street1 != "" {
		lines = append(lines, o.Street1)
	}
	if o.Street2 != "" {
		lines = append(lines, o.Street2)
	}
	if city := o.CityLine(); city != "" {
		lines = append(lines, city)
	}
	if o.Email != "" {
		lines = append(lines, o.Email)
	}
	if o.GSTIN != "" {
		lines = append(lines, "GSTIN: "+o.GSTIN)
	}
	return lines
}
