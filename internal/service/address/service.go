package address

import (
	"context"

	"clubsignup/internal/domain"
	"go.uber.org/zap"
)

// Upstream creates addresses under a customer.
type Upstream interface {
	CreateAddress(ctx context.Context, customerID string, addr domain.Address) (*domain.Address, error)
}

// Service registers signup addresses. Every call creates a new upstream
// record; nothing is deduplicated and nothing is rolled back.
type Service struct {
	upstream Upstream
	logger   *zap.Logger
}

// New creates a Service.
func New(upstream Upstream, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{upstream: upstream, logger: logger}
}

// NeedsShippingAddress reports whether a separate shipping address must be
// registered. Pickup memberships and same-as-billing shipments reuse the
// billing address.
func NeedsShippingAddress(method domain.DeliveryMethod, sameAsBilling bool) bool {
	return method == domain.DeliveryShip && !sameAsBilling
}

// RegisterBilling creates the billing address as the customer's default.
func (s *Service) RegisterBilling(ctx context.Context, customerID string, addr domain.Address) (*domain.Address, error) {
	addr.IsDefault = true
	return s.register(ctx, customerID, addr, "billing")
}

// RegisterShipping creates a non-default shipping address.
func (s *Service) RegisterShipping(ctx context.Context, customerID string, addr domain.Address) (*domain.Address, error) {
	addr.IsDefault = false
	return s.register(ctx, customerID, addr, "shipping")
}

func (s *Service) register(ctx context.Context, customerID string, addr domain.Address, kind string) (*domain.Address, error) {
	created, err := s.upstream.CreateAddress(ctx, customerID, addr)
	if err != nil {
		return nil, domain.UpstreamFailure("failed to add "+kind+" address", err)
	}
	if created.ID == "" {
		return nil, &domain.Error{Kind: domain.KindUnexpected, Message: kind + " address created without an id"}
	}
	s.logger.Info("address added",
		zap.String("type", kind),
		zap.String("customerId", customerID),
		zap.String("addressId", created.ID))
	return created, nil
}
