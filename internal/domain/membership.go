package domain

import (
	"fmt"
	"strings"
	"time"
)

// DeliveryMethod decides whether club allocations are picked up or shipped.
type DeliveryMethod string

const (
	DeliveryPickup DeliveryMethod = "Pickup"
	DeliveryShip   DeliveryMethod = "Ship"
)

// legacyShipLabel is what the first wizard release sent for shipping.
const legacyShipLabel = "Ship to address"

// ParseDeliveryMethod maps a client value onto a DeliveryMethod. An empty
// value means Pickup.
func ParseDeliveryMethod(s string) (DeliveryMethod, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return DeliveryPickup, nil
	case strings.EqualFold(s, string(DeliveryPickup)):
		return DeliveryPickup, nil
	case strings.EqualFold(s, string(DeliveryShip)), strings.EqualFold(s, legacyShipLabel):
		return DeliveryShip, nil
	}
	return "", fmt.Errorf("unsupported delivery method %q", s)
}

// Attribution tag attached to every membership created by this funnel.
// Downstream reporting matches on the exact key and value.
const (
	AttributionKey   = "club-calculator-sign-up"
	AttributionValue = "true"
)

// AttributionTag returns a fresh metadata map carrying the attribution tag.
func AttributionTag() map[string]string {
	return map[string]string{AttributionKey: AttributionValue}
}

// ClubMembership is the upstream club membership record. Exactly one of
// ShipToAddressID and PickupLocationID is set.
type ClubMembership struct {
	ID                  string            `json:"id"`
	CustomerID          string            `json:"customerId"`
	ClubID              string            `json:"clubId"`
	BillToAddressID     string            `json:"billToCustomerAddressId"`
	ShipToAddressID     string            `json:"shipToCustomerAddressId,omitempty"`
	PickupLocationID    string            `json:"pickupInventoryLocationId,omitempty"`
	OrderDeliveryMethod DeliveryMethod    `json:"orderDeliveryMethod"`
	SignupDate          time.Time         `json:"signupDate"`
	MetaData            map[string]string `json:"metaData,omitempty"`
}
