package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestAddressInput_UnmarshalFlat(t *testing.T) {
	var a AddressInput
	body := `{"address":"1 Main St","address2":"Apt 2","city":"Poughkeepsie","stateCode":"NY","zipCode":"12601","countryCode":"US","isDefault":true}`
	if err := json.Unmarshal([]byte(body), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if a.Address != "1 Main St" || a.Address2 != "Apt 2" || a.City != "Poughkeepsie" || a.StateCode != "NY" || a.ZipCode != "12601" {
		t.Fatalf("unexpected address %+v", a)
	}
}

func TestAddressInput_UnmarshalLegacyAliases(t *testing.T) {
	var a AddressInput
	body := `{"address1":"9 Vine Rd","streetAddress2":"Unit B","city":"Napa","state":"CA","zip":94558,"country":"US"}`
	if err := json.Unmarshal([]byte(body), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if a.Address != "9 Vine Rd" || a.Address2 != "Unit B" || a.StateCode != "CA" || a.ZipCode != "94558" || a.CountryCode != "US" {
		t.Fatalf("aliases not folded: %+v", a)
	}
}

func TestAddressInput_UnmarshalNestedObject(t *testing.T) {
	var a AddressInput
	body := `{"firstName":"Jane","address":{"streetAddress":"1 Main St","city":"Poughkeepsie","stateCode":"NY","zipCode":"12601","firstName":"Ignored"}}`
	if err := json.Unmarshal([]byte(body), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if a.Address != "1 Main St" || a.City != "Poughkeepsie" || a.ZipCode != "12601" {
		t.Fatalf("nested fields not merged: %+v", a)
	}
	if a.FirstName != "Jane" {
		t.Fatalf("expected flat firstName to win, got %q", a.FirstName)
	}
}

func TestAddressInput_UnmarshalRejectsUnknownFields(t *testing.T) {
	var a AddressInput
	err := json.Unmarshal([]byte(`{"address":"1 Main St","province":"ON","postcode":"K1A"}`), &a)
	var unknown *UnknownFieldsError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownFieldsError, got %v", err)
	}
	if len(unknown.Fields) != 2 || unknown.Fields[0] != "postcode" || unknown.Fields[1] != "province" {
		t.Fatalf("unexpected unknown fields %v", unknown.Fields)
	}
}

func TestAddressInput_NullFieldsStayEmpty(t *testing.T) {
	var a AddressInput
	if err := json.Unmarshal([]byte(`{"address":"1 Main St","address2":null}`), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if a.Address2 != "" {
		t.Fatalf("expected empty address2, got %q", a.Address2)
	}
}

func TestParseDeliveryMethod(t *testing.T) {
	cases := []struct {
		in   string
		want DeliveryMethod
		ok   bool
	}{
		{"", DeliveryPickup, true},
		{"Pickup", DeliveryPickup, true},
		{"ship", DeliveryShip, true},
		{"Ship to address", DeliveryShip, true},
		{"Courier", "", false},
	}
	for _, tc := range cases {
		got, err := ParseDeliveryMethod(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("ParseDeliveryMethod(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("expected error for %q", tc.in)
		}
	}
}

func TestCheckFields_ReportsWirePaths(t *testing.T) {
	req := SignupRequest{
		CustomerInfo: CustomerInfo{FirstName: "Jane", Email: "not-an-email"},
	}
	missing, invalid, err := CheckFields(req)
	if err != nil {
		t.Fatalf("check fields: %v", err)
	}
	want := map[string]bool{"customerInfo.lastName": true, "billingAddress": true, "clubId": true}
	if len(missing) != len(want) {
		t.Fatalf("unexpected missing fields %v", missing)
	}
	for _, f := range missing {
		if !want[f] {
			t.Fatalf("unexpected missing field %q", f)
		}
	}
	if len(invalid) != 1 || invalid[0] != "customerInfo.email" {
		t.Fatalf("unexpected invalid fields %v", invalid)
	}
}

func TestUpstreamFailure_ClassifiesMalformedPayloads(t *testing.T) {
	err := UpstreamFailure("create customer", errors.Join(ErrMalformedResponse, errors.New("unexpected EOF")))
	if err.Kind != KindUnexpected {
		t.Fatalf("expected UnexpectedError, got %s", err.Kind)
	}
	err = UpstreamFailure("create customer", errors.New("timeout"))
	if err.Kind != KindUpstream {
		t.Fatalf("expected UpstreamError, got %s", err.Kind)
	}
	if KindOf(err.WithStep(StepResolvingCustomer)) != KindUpstream {
		t.Fatalf("expected kind to survive WithStep")
	}
}
