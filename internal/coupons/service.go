package coupons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aukawellness/studio-api/internal/i18n"
	"github.com/aukawellness/studio-api/pkg/logging"
)

// Reason tags why a coupon was rejected.
type Reason string

const (
	ReasonNotFound      Reason = "not_found"
	ReasonInactive      Reason = "inactive"
	ReasonOutsideWindow Reason = "outside_window"
	ReasonUsageCap      Reason = "usage_cap"
	ReasonNotApplicable Reason = "not_applicable"
	ReasonMinAmount     Reason = "min_amount"
)

var reasonMessages = map[Reason]map[i18n.Locale]string{
	ReasonNotFound:      {i18n.LocaleES: "El cupón no existe", i18n.LocaleEN: "Coupon not found"},
	ReasonInactive:      {i18n.LocaleES: "El cupón ya no está activo", i18n.LocaleEN: "Coupon is no longer active"},
	ReasonOutsideWindow: {i18n.LocaleES: "El cupón no es válido en esta fecha", i18n.LocaleEN: "Coupon is not valid on this date"},
	ReasonUsageCap:      {i18n.LocaleES: "El cupón alcanzó su límite de usos", i18n.LocaleEN: "Coupon has reached its usage limit"},
	ReasonNotApplicable: {i18n.LocaleES: "El cupón no aplica a este producto", i18n.LocaleEN: "Coupon does not apply to this product"},
	ReasonMinAmount:     {i18n.LocaleES: "La compra no alcanza el monto mínimo del cupón", i18n.LocaleEN: "Purchase is below the coupon minimum amount"},
}

// ValidateRequest is one coupon check against an optional product and
// purchase amount.
type ValidateRequest struct {
	Code           string  `json:"code"`
	PackageID      string  `json:"package_id,omitempty"`
	ServiceID      string  `json:"service_id,omitempty"`
	PurchaseAmount float64 `json:"purchase_amount,omitempty"`
}

// Result reports whether the coupon applies. Error carries the localized
// rejection message when it does not.
type Result struct {
	Valid  bool    `json:"valid"`
	Coupon *Coupon `json:"coupon,omitempty"`
	Reason Reason  `json:"-"`
	Error  string  `json:"error,omitempty"`
}

// Service validates coupon codes against their redemption rules.
type Service struct {
	repo   Repository
	logger *logging.Logger
	now    func() time.Time
}

// NewService creates a coupon validation service.
func NewService(repo Repository, logger *logging.Logger) *Service {
	if repo == nil {
		panic("coupons: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// WithNow overrides the clock, used in tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Validate checks a coupon in a fixed order, returning on the first failing
// rule: active flag, validity window, usage cap, applicable products,
// minimum purchase amount.
func (s *Service) Validate(ctx context.Context, req ValidateRequest) (*Result, error) {
	code := NormalizeCode(req.Code)
	if code == "" {
		return s.reject(ctx, ReasonNotFound), nil
	}

	coupon, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrCouponNotFound) {
			return s.reject(ctx, ReasonNotFound), nil
		}
		return nil, fmt.Errorf("coupons: lookup %q: %w", code, err)
	}

	if !coupon.Active {
		return s.reject(ctx, ReasonInactive), nil
	}

	now := s.now()
	if now.Before(coupon.ValidFrom) || now.After(coupon.ValidUntil) {
		return s.reject(ctx, ReasonOutsideWindow), nil
	}

	if coupon.MaxUses > 0 && coupon.Uses >= coupon.MaxUses {
		return s.reject(ctx, ReasonUsageCap), nil
	}

	if !coupon.appliesTo(req.PackageID, req.ServiceID) {
		return s.reject(ctx, ReasonNotApplicable), nil
	}

	if coupon.MinPurchaseAmount > 0 && req.PurchaseAmount < coupon.MinPurchaseAmount {
		return s.reject(ctx, ReasonMinAmount), nil
	}

	return &Result{Valid: true, Coupon: coupon}, nil
}

func (s *Service) reject(ctx context.Context, reason Reason) *Result {
	loc := i18n.FromContext(ctx)
	return &Result{Valid: false, Reason: reason, Error: reasonMessages[reason][loc]}
}
