package commerce7

import (
	"fmt"
	"time"

	"clubsignup/internal/domain"
)

// signupDateLayout matches the millisecond ISO-8601 form Commerce7 emits.
const signupDateLayout = "2006-01-02T15:04:05.000Z07:00"

type emailEntry struct {
	Email string `json:"email"`
}

type phoneEntry struct {
	Phone string `json:"phone"`
}

type customerPayload struct {
	FirstName string       `json:"firstName,omitempty"`
	LastName  string       `json:"lastName,omitempty"`
	BirthDate string       `json:"birthDate,omitempty"`
	Emails    []emailEntry `json:"emails,omitempty"`
	Phones    []phoneEntry `json:"phones,omitempty"`
}

type customerRecord struct {
	ID        string       `json:"id"`
	FirstName string       `json:"firstName"`
	LastName  string       `json:"lastName"`
	BirthDate string       `json:"birthDate"`
	Emails    []emailEntry `json:"emails"`
	Phones    []phoneEntry `json:"phones"`
}

type customerList struct {
	Customers []customerRecord `json:"customers"`
	Total     int              `json:"total"`
}

func (r customerRecord) toDomain() domain.Customer {
	c := domain.Customer{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		BirthDate: r.BirthDate,
	}
	if len(r.Emails) > 0 {
		c.Email = r.Emails[0].Email
	}
	if len(r.Phones) > 0 {
		c.Phone = r.Phones[0].Phone
	}
	return c
}

type membershipPayload struct {
	CustomerID          string            `json:"customerId"`
	ClubID              string            `json:"clubId"`
	BillToAddressID     string            `json:"billToCustomerAddressId"`
	ShipToAddressID     string            `json:"shipToCustomerAddressId,omitempty"`
	PickupLocationID    string            `json:"pickupInventoryLocationId,omitempty"`
	SignupDate          string            `json:"signupDate"`
	OrderDeliveryMethod string            `json:"orderDeliveryMethod"`
	MetaData            map[string]string `json:"metaData,omitempty"`
}

type membershipRecord struct {
	ID                  string         `json:"id"`
	CustomerID          string         `json:"customerId"`
	ClubID              string         `json:"clubId"`
	BillToAddressID     string         `json:"billToCustomerAddressId"`
	ShipToAddressID     string         `json:"shipToCustomerAddressId"`
	PickupLocationID    string         `json:"pickupInventoryLocationId"`
	SignupDate          string         `json:"signupDate"`
	OrderDeliveryMethod string         `json:"orderDeliveryMethod"`
	MetaData            map[string]any `json:"metaData"`
}

func newMembershipPayload(m domain.ClubMembership) membershipPayload {
	return membershipPayload{
		CustomerID:          m.CustomerID,
		ClubID:              m.ClubID,
		BillToAddressID:     m.BillToAddressID,
		ShipToAddressID:     m.ShipToAddressID,
		PickupLocationID:    m.PickupLocationID,
		SignupDate:          m.SignupDate.UTC().Format(signupDateLayout),
		OrderDeliveryMethod: string(m.OrderDeliveryMethod),
		MetaData:            m.MetaData,
	}
}

func (r membershipRecord) toDomain() domain.ClubMembership {
	m := domain.ClubMembership{
		ID:                  r.ID,
		CustomerID:          r.CustomerID,
		ClubID:              r.ClubID,
		BillToAddressID:     r.BillToAddressID,
		ShipToAddressID:     r.ShipToAddressID,
		PickupLocationID:    r.PickupLocationID,
		OrderDeliveryMethod: domain.DeliveryMethod(r.OrderDeliveryMethod),
	}
	if ts, err := time.Parse(time.RFC3339, r.SignupDate); err == nil {
		m.SignupDate = ts
	}
	if len(r.MetaData) > 0 {
		m.MetaData = make(map[string]string, len(r.MetaData))
		for k, v := range r.MetaData {
			m.MetaData[k] = fmt.Sprint(v)
		}
	}
	return m
}
