package customer

import (
	"context"

	"clubsignup/internal/domain"
	"clubsignup/internal/logging"
	"go.uber.org/zap"
)

// Upstream is the subset of the commerce platform used to resolve customers.
type Upstream interface {
	FindCustomers(ctx context.Context, q string) ([]domain.Customer, error)
	CreateCustomer(ctx context.Context, in domain.CustomerInfo) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id string, in domain.CustomerInfo) (*domain.Customer, error)
}

// Service finds or creates the customer behind a signup.
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

// Resolve looks the customer up by email. A match is refreshed with the
// submitted name and birth date; no match creates a new customer.
//
// The refresh is best effort: if the update call fails the matched record
// is returned unchanged.
func (s *Service) Resolve(ctx context.Context, in domain.CustomerInfo) (*domain.Customer, error) {
	log := s.logger.With(logging.Email("email", in.Email))

	// Upstream search semantics decide what matches; the first hit wins.
	matches, err := s.upstream.FindCustomers(ctx, in.Email)
	if err != nil {
		return nil, domain.UpstreamFailure("failed to look up customer", err)
	}

	if len(matches) == 0 {
		created, err := s.upstream.CreateCustomer(ctx, in)
		if err != nil {
			return nil, domain.UpstreamFailure("failed to create customer", err)
		}
		if created.ID == "" {
			return nil, &domain.Error{Kind: domain.KindUnexpected, Message: "customer created without an id"}
		}
		log.Info("customer created", zap.String("customerId", created.ID))
		return created, nil
	}

	found := matches[0]
	if found.ID == "" {
		return nil, &domain.Error{Kind: domain.KindUnexpected, Message: "customer search returned a record without an id"}
	}
	log = log.With(zap.String("customerId", found.ID))

	updated, err := s.upstream.UpdateCustomer(ctx, found.ID, in)
	if err != nil {
		log.Warn("customer update failed, continuing with existing record", zap.Error(err))
		return &found, nil
	}
	if updated.ID == "" {
		updated.ID = found.ID
	}
	if updated.Email == "" {
		updated.Email = found.Email
	}
	log.Info("existing customer updated")
	return updated, nil
}
