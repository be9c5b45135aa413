package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/aukawellness/studio-api/internal/i18n"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func validCoupon() *Coupon {
	return &Coupon{
		Code:          "YIN10",
		DiscountType:  DiscountPercent,
		DiscountValue: 10,
		Active:        true,
		ValidFrom:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:    time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC),
		MaxUses:       100,
		Uses:          5,
	}
}

func newTestService(coupons ...*Coupon) *Service {
	repo := NewInMemoryRepository()
	repo.Seed(coupons...)
	return NewService(repo, nil).WithNow(fixedNow)
}

func TestValidate_NormalizesCode(t *testing.T) {
	svc := newTestService(validCoupon())

	for _, code := range []string{"YIN10", "yin10", "  yin10  ", "Yin10"} {
		result, err := svc.Validate(context.Background(), ValidateRequest{Code: code})
		if err != nil {
			t.Fatalf("code %q: unexpected error: %v", code, err)
		}
		if !result.Valid {
			t.Errorf("code %q should validate, got reason %s", code, result.Reason)
		}
	}
}

func TestValidate_OrderedChecksFirstFailureWins(t *testing.T) {
	// Build a coupon that fails every rule at once; the reported reason
	// must follow the fixed check order.
	base := func() *Coupon {
		c := validCoupon()
		c.Active = false
		c.ValidUntil = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
		c.MaxUses = 5
		c.Uses = 5
		c.PackageIDs = []string{"pack-other"}
		c.MinPurchaseAmount = 50000
		return c
	}

	req := ValidateRequest{Code: "YIN10", PackageID: "pack-1", PurchaseAmount: 10000}

	steps := []struct {
		fix    func(*Coupon)
		expect Reason
	}{
		{func(c *Coupon) {}, ReasonInactive},
		{func(c *Coupon) { c.Active = true }, ReasonOutsideWindow},
		{func(c *Coupon) { c.ValidUntil = validCoupon().ValidUntil }, ReasonUsageCap},
		{func(c *Coupon) { c.Uses = 0 }, ReasonNotApplicable},
		{func(c *Coupon) { c.PackageIDs = []string{"pack-1"} }, ReasonMinAmount},
		{func(c *Coupon) { c.MinPurchaseAmount = 0 }, Reason("")},
	}

	coupon := base()
	for _, step := range steps {
		step.fix(coupon)
		svc := newTestService(coupon)
		result, err := svc.Validate(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if step.expect == "" {
			if !result.Valid {
				t.Fatalf("expected valid after all fixes, got %s", result.Reason)
			}
			continue
		}
		if result.Valid || result.Reason != step.expect {
			t.Fatalf("expected reason %s, got valid=%v reason=%s", step.expect, result.Valid, result.Reason)
		}
	}
}

func TestValidate_UnknownCode(t *testing.T) {
	svc := newTestService()

	result, err := svc.Validate(context.Background(), ValidateRequest{Code: "NOPE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Valid || result.Reason != ReasonNotFound {
		t.Fatalf("expected not_found, got %+v", result)
	}
	if result.Error == "" {
		t.Error("rejection must carry a message")
	}
}

func TestValidate_EmptyProductListAppliesToAll(t *testing.T) {
	svc := newTestService(validCoupon())

	result, err := svc.Validate(context.Background(), ValidateRequest{Code: "YIN10", PackageID: "anything"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Valid {
		t.Fatalf("coupon without product list should apply to any product, got %s", result.Reason)
	}
}

func TestValidate_ServiceIDMatch(t *testing.T) {
	c := validCoupon()
	c.ServiceIDs = []string{"svc-yoga"}
	svc := newTestService(c)

	result, _ := svc.Validate(context.Background(), ValidateRequest{Code: "YIN10", ServiceID: "svc-yoga"})
	if !result.Valid {
		t.Fatalf("expected valid for matching service, got %s", result.Reason)
	}

	result, _ = svc.Validate(context.Background(), ValidateRequest{Code: "YIN10", ServiceID: "svc-pilates"})
	if result.Valid || result.Reason != ReasonNotApplicable {
		t.Fatalf("expected not_applicable, got %+v", result)
	}
}

func TestValidate_LocalizedMessages(t *testing.T) {
	svc := newTestService()

	es, _ := svc.Validate(context.Background(), ValidateRequest{Code: "NOPE"})
	if es.Error != "El cupón no existe" {
		t.Errorf("default locale should be Spanish, got %q", es.Error)
	}

	ctx := i18n.WithLocale(context.Background(), i18n.LocaleEN)
	en, _ := svc.Validate(ctx, ValidateRequest{Code: "NOPE"})
	if en.Error != "Coupon not found" {
		t.Errorf("expected English message, got %q", en.Error)
	}
}

func TestValidate_UnlimitedUses(t *testing.T) {
	c := validCoupon()
	c.MaxUses = 0
	c.Uses = 10000
	svc := newTestService(c)

	result, _ := svc.Validate(context.Background(), ValidateRequest{Code: "YIN10"})
	if !result.Valid {
		t.Fatalf("MaxUses=0 means no cap, got %s", result.Reason)
	}
}
