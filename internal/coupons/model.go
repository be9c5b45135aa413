package coupons

import (
	"strings"
	"time"
)

// DiscountType distinguishes percentage coupons from fixed-amount ones.
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountAmount  DiscountType = "amount"
)

// Coupon is one discount code with its redemption rules.
type Coupon struct {
	Code              string       `json:"code"`
	Description       string       `json:"description,omitempty"`
	DiscountType      DiscountType `json:"discount_type"`
	DiscountValue     float64      `json:"discount_value"`
	Active            bool         `json:"active"`
	ValidFrom         time.Time    `json:"valid_from"`
	ValidUntil        time.Time    `json:"valid_until"`
	MaxUses           int          `json:"max_uses"`
	Uses              int          `json:"uses"`
	PackageIDs        []string     `json:"package_ids,omitempty"`
	ServiceIDs        []string     `json:"service_ids,omitempty"`
	MinPurchaseAmount float64      `json:"min_purchase_amount"`
}

// NormalizeCode strips surrounding whitespace and upper-cases a coupon code
// before lookup, so "  yin10 " and "YIN10" resolve to the same coupon.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// appliesTo reports whether the coupon covers the given package or service.
// A coupon with no product list applies to everything.
func (c *Coupon) appliesTo(packageID, serviceID string) bool {
	if len(c.PackageIDs) == 0 && len(c.ServiceIDs) == 0 {
		return true
	}
	for _, id := range c.PackageIDs {
		if packageID != "" && id == packageID {
			return true
		}
	}
	for _, id := range c.ServiceIDs {
		if serviceID != "" && id == serviceID {
			return true
		}
	}
	return false
}
