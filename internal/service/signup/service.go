package signup

import (
	"context"
	"strings"

	"clubsignup/internal/domain"
	"clubsignup/internal/logging"
	"clubsignup/internal/service/address"
	"clubsignup/internal/service/membership"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type customerResolver interface {
	Resolve(ctx context.Context, in domain.CustomerInfo) (*domain.Customer, error)
}

type addressRegistrar interface {
	RegisterBilling(ctx context.Context, customerID string, addr domain.Address) (*domain.Address, error)
	RegisterShipping(ctx context.Context, customerID string, addr domain.Address) (*domain.Address, error)
}

type membershipCreator interface {
	Create(ctx context.Context, in membership.Input) (*domain.ClubMembership, error)
}

// RecordReader fetches the committed records once a signup completes.
type RecordReader interface {
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	GetClubMembership(ctx context.Context, id string) (*domain.ClubMembership, error)
}

// Service runs the signup sequence: resolve the customer, register the
// billing and optional shipping address, then create the membership.
type Service struct {
	customers   customerResolver
	addresses   addressRegistrar
	memberships membershipCreator
	records     RecordReader
	logger      *zap.Logger
}

func New(customers customerResolver, addresses addressRegistrar, memberships membershipCreator, records RecordReader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		customers:   customers,
		addresses:   addresses,
		memberships: memberships,
		records:     records,
		logger:      logger,
	}
}

// plan is a signup request that passed validation.
type plan struct {
	customer      domain.CustomerInfo
	clubID        string
	method        domain.DeliveryMethod
	billing       domain.Address
	shipping      *domain.Address
	sameAsBilling bool
}

// Validate checks req without any upstream call.
func (s *Service) Validate(req domain.SignupRequest) error {
	_, err := preparePlan(req)
	return err
}

// ProcessClubSignup runs one signup. Failures are *domain.Error tagged with
// the step that failed. Records written before a failure stay in place.
func (s *Service) ProcessClubSignup(ctx context.Context, req domain.SignupRequest) (*domain.SignupResult, error) {
	p, err := preparePlan(req)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(
		logging.Email("email", p.customer.Email),
		zap.String("clubId", p.clubID),
		zap.String("deliveryMethod", string(p.method)))
	res := &domain.SignupResult{}

	fail := func(step domain.Step, err error) error {
		e, ok := domain.AsError(err)
		if !ok {
			e = &domain.Error{Kind: domain.KindUnexpected, Message: "unexpected signup failure", Err: err}
		}
		e = e.WithStep(step)
		fields := []zap.Field{
			zap.String("step", string(step)),
			zap.String("kind", string(e.Kind)),
			zap.Error(err),
			zap.String("customerId", res.CustomerID),
			zap.String("billingAddressId", res.BillingAddressID),
			zap.String("shippingAddressId", res.ShippingAddressID),
		}
		switch {
		case e.Kind == domain.KindUnexpected:
			log.Error("signup failed unexpectedly, committed records are not rolled back", fields...)
		case step == domain.StepResolvingCustomer:
			log.Warn("signup failed", fields...)
		default:
			log.Warn("signup failed, committed records are not rolled back", fields...)
		}
		return e
	}

	cust, err := s.customers.Resolve(ctx, p.customer)
	if err != nil {
		return nil, fail(domain.StepResolvingCustomer, err)
	}
	res.CustomerID = cust.ID
	res.Customer = cust

	billing, err := s.addresses.RegisterBilling(ctx, cust.ID, p.billing)
	if err != nil {
		return nil, fail(domain.StepRegisteringBilling, err)
	}
	res.BillingAddressID = billing.ID

	if p.shipping != nil {
		shipping, err := s.addresses.RegisterShipping(ctx, cust.ID, *p.shipping)
		if err != nil {
			return nil, fail(domain.StepRegisteringShipping, err)
		}
		res.ShippingAddressID = shipping.ID
	} else if p.method == domain.DeliveryShip {
		res.ShippingAddressID = billing.ID
	}

	m, err := s.memberships.Create(ctx, membership.Input{
		CustomerID:      cust.ID,
		ClubID:          p.clubID,
		BillToAddressID: billing.ID,
		DeliveryMethod:  p.method,
		ShipToAddressID: res.ShippingAddressID,
	})
	if err != nil {
		return nil, fail(domain.StepCreatingMembership, err)
	}
	res.MembershipID = m.ID
	res.Membership = m

	s.refresh(ctx, log, res)

	log.Info("club signup completed",
		zap.String("customerId", res.CustomerID),
		zap.String("membershipId", res.MembershipID),
		zap.String("billingAddressId", res.BillingAddressID),
		zap.String("shippingAddressId", res.ShippingAddressID))
	return res, nil
}

// refresh replaces the create responses with full reads of both records.
// A failed read keeps the create response.
func (s *Service) refresh(ctx context.Context, log *zap.Logger, res *domain.SignupResult) {
	if s.records == nil {
		return
	}
	var (
		cust *domain.Customer
		mem  *domain.ClubMembership
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.records.GetCustomer(gctx, res.CustomerID)
		if err != nil {
			log.Warn("customer detail read failed", zap.String("customerId", res.CustomerID), zap.Error(err))
			return nil
		}
		cust = c
		return nil
	})
	g.Go(func() error {
		m, err := s.records.GetClubMembership(gctx, res.MembershipID)
		if err != nil {
			log.Warn("membership detail read failed", zap.String("membershipId", res.MembershipID), zap.Error(err))
			return nil
		}
		mem = m
		return nil
	})
	_ = g.Wait()

	if cust != nil && cust.ID != "" {
		res.Customer = cust
	}
	if mem != nil && mem.ID != "" {
		res.Membership = mem
	}
}

func preparePlan(req domain.SignupRequest) (plan, error) {
	info := domain.CustomerInfo{
		FirstName: strings.TrimSpace(req.CustomerInfo.FirstName),
		LastName:  strings.TrimSpace(req.CustomerInfo.LastName),
		Email:     strings.TrimSpace(req.CustomerInfo.Email),
		Phone:     strings.TrimSpace(req.CustomerInfo.Phone),
		BirthDate: strings.TrimSpace(req.CustomerInfo.BirthDate),
	}
	req.CustomerInfo = info
	req.ClubID = strings.TrimSpace(req.ClubID)

	missing, invalid, err := domain.CheckFields(req)
	if err != nil {
		return plan{}, (&domain.Error{Kind: domain.KindUnexpected, Message: "request validation failed", Err: err}).WithStep(domain.StepValidating)
	}

	method, err := domain.ParseDeliveryMethod(req.OrderDeliveryMethod)
	if err != nil {
		invalid = append(invalid, "orderDeliveryMethod")
	}

	p := plan{
		customer:      info,
		clubID:        req.ClubID,
		method:        method,
		sameAsBilling: req.SameAsBilling,
	}

	if req.BillingAddress != nil {
		addr, m, i, err := normalize("billingAddress", *req.BillingAddress, info)
		if err != nil {
			return plan{}, err
		}
		p.billing = addr
		missing = append(missing, m...)
		invalid = append(invalid, i...)
	}

	if method != "" && address.NeedsShippingAddress(method, req.SameAsBilling) {
		if req.ShippingAddress == nil {
			missing = append(missing, "shippingAddress")
		} else {
			addr, m, i, err := normalize("shippingAddress", *req.ShippingAddress, info)
			if err != nil {
				return plan{}, err
			}
			p.shipping = &addr
			missing = append(missing, m...)
			invalid = append(invalid, i...)
		}
	}

	if len(missing) > 0 || len(invalid) > 0 {
		return plan{}, domain.NewValidationError(missing, invalid).WithStep(domain.StepValidating)
	}
	return p, nil
}

// normalize runs the address normalizer and prefixes its field errors.
func normalize(prefix string, in domain.AddressInput, owner domain.CustomerInfo) (domain.Address, []string, []string, error) {
	addr, err := address.Normalize(in, owner)
	if err == nil {
		return addr, nil, nil, nil
	}
	e, ok := domain.AsError(err)
	if !ok || e.Kind != domain.KindValidation {
		return domain.Address{}, nil, nil, (&domain.Error{Kind: domain.KindUnexpected, Message: "address validation failed", Err: err}).WithStep(domain.StepValidating)
	}
	return domain.Address{}, prefixed(prefix, e.MissingFields), prefixed(prefix, e.InvalidFields), nil
}

func prefixed(prefix string, fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, prefix+"."+f)
	}
	return out
}
