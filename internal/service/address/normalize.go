package address

import (
	"strings"

	"clubsignup/internal/domain"
)

// DefaultCountryCode applies when an address carries no country.
const DefaultCountryCode = "US"

// Normalize maps a submitted address onto the upstream schema. Owner name
// and phone fill in whatever the address leaves blank. It fails with a
// ValidationError naming every required field still missing.
func Normalize(in domain.AddressInput, owner domain.CustomerInfo) (domain.Address, error) {
	addr := domain.Address{
		FirstName:   firstNonEmpty(in.FirstName, owner.FirstName),
		LastName:    firstNonEmpty(in.LastName, owner.LastName),
		Address:     strings.TrimSpace(in.Address),
		Address2:    strings.TrimSpace(in.Address2),
		City:        strings.TrimSpace(in.City),
		StateCode:   strings.TrimSpace(in.StateCode),
		ZipCode:     strings.TrimSpace(in.ZipCode),
		CountryCode: firstNonEmpty(in.CountryCode, DefaultCountryCode),
		Phone:       firstNonEmpty(in.Phone, owner.Phone),
	}

	missing, invalid, err := domain.CheckFields(addr)
	if err != nil {
		return domain.Address{}, err
	}
	if len(missing) > 0 || len(invalid) > 0 {
		return domain.Address{}, domain.NewValidationError(missing, invalid)
	}
	return addr, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
