package domain

// SignupRequest is the single payload posted by the signup wizard.
type SignupRequest struct {
	CustomerInfo        CustomerInfo  `json:"customerInfo"`
	BillingAddress      *AddressInput `json:"billingAddress" validate:"required"`
	ShippingAddress     *AddressInput `json:"shippingAddress"`
	SameAsBilling       bool          `json:"sameAsBilling"`
	ClubID              string        `json:"clubId" validate:"required"`
	OrderDeliveryMethod string        `json:"orderDeliveryMethod"`
}

// SignupResult describes a completed signup.
type SignupResult struct {
	CustomerID        string
	MembershipID      string
	BillingAddressID  string
	ShippingAddressID string
	Customer          *Customer
	Membership        *ClubMembership
}
