package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// AddressInput is an address as submitted by the signup UI. Older clients
// send legacy field names or wrap the fields in a nested "address" object;
// UnmarshalJSON folds every accepted shape into these canonical fields.
type AddressInput struct {
	Address     string `json:"address"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city"`
	StateCode   string `json:"stateCode"`
	ZipCode     string `json:"zipCode"`
	CountryCode string `json:"countryCode,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// UnknownFieldsError reports address keys outside the accepted alias table.
type UnknownFieldsError struct {
	Fields []string
}

func (e *UnknownFieldsError) Error() string {
	return fmt.Sprintf("unknown address fields: %s", strings.Join(e.Fields, ", "))
}

// ignoredAddressKeys are sent by some clients but decided server side.
var ignoredAddressKeys = map[string]struct{}{
	"isDefault": {},
	"type":      {},
}

func (a *AddressInput) target(key string) *string {
	switch key {
	case "address", "streetAddress", "streetLine1", "address1":
		return &a.Address
	case "address2", "streetAddress2", "streetLine2":
		return &a.Address2
	case "city":
		return &a.City
	case "stateCode", "state":
		return &a.StateCode
	case "zipCode", "zip":
		return &a.ZipCode
	case "countryCode", "country":
		return &a.CountryCode
	case "firstName":
		return &a.FirstName
	case "lastName":
		return &a.LastName
	case "phone":
		return &a.Phone
	}
	return nil
}

// UnmarshalJSON accepts flat canonical fields, legacy aliases and a nested
// "address" object. Flat fields win over nested ones.
func (a *AddressInput) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var (
		out     AddressInput
		nested  json.RawMessage
		unknown []string
	)
	for key, val := range raw {
		if key == "address" && bytes.HasPrefix(bytes.TrimSpace(val), []byte("{")) {
			nested = val
			continue
		}
		if _, ok := ignoredAddressKeys[key]; ok {
			continue
		}
		dst := out.target(key)
		if dst == nil {
			unknown = append(unknown, key)
			continue
		}
		s, err := decodeText(val)
		if err != nil {
			return fmt.Errorf("address field %q: %w", key, err)
		}
		if s != "" {
			*dst = s
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &UnknownFieldsError{Fields: unknown}
	}

	if nested != nil {
		var inner AddressInput
		if err := json.Unmarshal(nested, &inner); err != nil {
			return err
		}
		out.fillFrom(inner)
	}

	*a = out
	return nil
}

func (a *AddressInput) fillFrom(other AddressInput) {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&a.Address, other.Address)
	fill(&a.Address2, other.Address2)
	fill(&a.City, other.City)
	fill(&a.StateCode, other.StateCode)
	fill(&a.ZipCode, other.ZipCode)
	fill(&a.CountryCode, other.CountryCode)
	fill(&a.FirstName, other.FirstName)
	fill(&a.LastName, other.LastName)
	fill(&a.Phone, other.Phone)
}

// decodeText reads a JSON string, number or null as text. Zip codes in
// particular arrive as numbers from some forms.
func decodeText(val json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(val, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(val, &n); err != nil {
		return "", fmt.Errorf("expected string, got %s", string(val))
	}
	return n.String(), nil
}
