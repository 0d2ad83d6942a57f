package membership

import (
	"context"
	"time"

	"clubsignup/internal/domain"
	"go.uber.org/zap"
)

// Upstream creates club memberships.
type Upstream interface {
	CreateClubMembership(ctx context.Context, m domain.ClubMembership) (*domain.ClubMembership, error)
}

// Input carries the ids produced by the earlier signup steps.
type Input struct {
	CustomerID      string
	ClubID          string
	BillToAddressID string
	DeliveryMethod  domain.DeliveryMethod
	// ShipToAddressID is the registered shipping address; empty means the
	// billing address is shipped to.
	ShipToAddressID string
}

// Service creates club memberships tagged with the funnel attribution.
type Service struct {
	upstream         Upstream
	pickupLocationID string
	now              func() time.Time
	logger           *zap.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the signup date source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service that assigns pickupLocationID to Pickup memberships.
func New(upstream Upstream, pickupLocationID string, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		upstream:         upstream,
		pickupLocationID: pickupLocationID,
		now:              time.Now,
		logger:           logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build assembles the membership record without calling upstream. The
// signup date is taken from the server clock, never from the client.
func (s *Service) Build(in Input) (domain.ClubMembership, error) {
	var missing, invalid []string
	if in.CustomerID == "" {
		missing = append(missing, "customerId")
	}
	if in.ClubID == "" {
		missing = append(missing, "clubId")
	}
	if in.BillToAddressID == "" {
		missing = append(missing, "billToCustomerAddressId")
	}

	m := domain.ClubMembership{
		CustomerID:          in.CustomerID,
		ClubID:              in.ClubID,
		BillToAddressID:     in.BillToAddressID,
		OrderDeliveryMethod: in.DeliveryMethod,
		SignupDate:          s.now().UTC(),
		MetaData:            domain.AttributionTag(),
	}

	switch in.DeliveryMethod {
	case domain.DeliveryPickup:
		if s.pickupLocationID == "" {
			missing = append(missing, "pickupInventoryLocationId")
		}
		m.PickupLocationID = s.pickupLocationID
	case domain.DeliveryShip:
		m.ShipToAddressID = in.ShipToAddressID
		if m.ShipToAddressID == "" {
			m.ShipToAddressID = in.BillToAddressID
		}
		if m.ShipToAddressID == "" {
			missing = append(missing, "shipToCustomerAddressId")
		}
	default:
		invalid = append(invalid, "orderDeliveryMethod")
	}

	if len(missing) > 0 || len(invalid) > 0 {
		return domain.ClubMembership{}, domain.NewValidationError(missing, invalid)
	}
	return m, nil
}

// Create builds and submits the membership.
func (s *Service) Create(ctx context.Context, in Input) (*domain.ClubMembership, error) {
	m, err := s.Build(in)
	if err != nil {
		return nil, err
	}

	created, err := s.upstream.CreateClubMembership(ctx, m)
	if err != nil {
		return nil, domain.UpstreamFailure("failed to create club membership", err)
	}
	if created.ID == "" {
		return nil, &domain.Error{Kind: domain.KindUnexpected, Message: "club membership created without an id"}
	}
	s.logger.Info("club membership created",
		zap.String("membershipId", created.ID),
		zap.String("customerId", in.CustomerID),
		zap.String("clubId", in.ClubID),
		zap.String("deliveryMethod", string(in.DeliveryMethod)))
	return created, nil
}
