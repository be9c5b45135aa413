package coupons

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidateHandler(t *testing.T) {
	h := NewHandler(newTestService(validCoupon()), nil)

	body, _ := json.Marshal(ValidateRequest{Code: " yin10 "})
	req := httptest.NewRequest(http.MethodPost, "/coupons/validate", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Validate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var result Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.Valid || result.Coupon == nil || result.Coupon.Code != "YIN10" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestValidateHandler_RejectionIs200WithError(t *testing.T) {
	h := NewHandler(newTestService(), nil)

	body, _ := json.Marshal(ValidateRequest{Code: "NOPE"})
	req := httptest.NewRequest(http.MethodPost, "/coupons/validate", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Validate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("a rejected coupon is still a 200, got %d", w.Code)
	}
	var result Result
	json.Unmarshal(w.Body.Bytes(), &result)
	if result.Valid || result.Error == "" {
		t.Fatalf("expected invalid result with message, got %+v", result)
	}
}

func TestValidateHandler_BadJSON(t *testing.T) {
	h := NewHandler(newTestService(), nil)

	req := httptest.NewRequest(http.MethodPost, "/coupons/validate", bytes.NewReader([]byte("{")))
	w := httptest.NewRecorder()
	h.Validate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
