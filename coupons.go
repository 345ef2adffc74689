package paystream

import (
	"context"
	"net/http"
	"net/url"
)

const couponsPath = "/coupons"

// Coupon is a reusable discount, applied to customers at creation or
// update time. Coupons cannot be changed once created, only deleted.
type Coupon struct {
	ID               string  `json:"id"`
	Object           string  `json:"object"`
	PercentOff       int64   `json:"percentOff"`
	AmountOff        *int64  `json:"amountOff"`
	Currency         *string `json:"currency"`
	Duration         string  `json:"duration"`
	DurationInMonths *int64  `json:"durationInMonths"`
	MaxRedemptions   *int64  `json:"maxRedemptions"`
	RedeemBy         *int64  `json:"redeemBy"`
	TimesRedeemed    int64   `json:"timesRedeemed"`
	Livemode         bool    `json:"livemode"`
}

func (c *Coupon) missingField() string {
	if c.ID == "" {
		return "id"
	}
	return ""
}

// CouponList is one page of coupons.
type CouponList struct {
	Object string   `json:"object"`
	Count  int      `json:"count"`
	Data   []Coupon `json:"data"`
	URL    string   `json:"url"`
}

// Create makes a new coupon. params carries percent_off or amount_off
// plus duration; an id is optional and generated when absent.
func (s CouponsService) Create(ctx context.Context, params Params) (*Coupon, error) {
	return createCoupon(ctx, s, params)
}

func createCoupon(ctx context.Context, b backend, params Params) (*Coupon, error) {
	var coupon Coupon
	if err := b.call(ctx, http.MethodPost, couponsPath, params, &coupon); err != nil {
		return nil, err
	}
	return &coupon, nil
}

// Retrieve fetches a coupon by ID.
func (s CouponsService) Retrieve(ctx context.Context, id string) (*Coupon, error) {
	return retrieveCoupon(ctx, s, id)
}

func retrieveCoupon(ctx context.Context, b backend, id string) (*Coupon, error) {
	var coupon Coupon
	if err := b.call(ctx, http.MethodGet, couponsPath+"/"+url.PathEscape(id), nil, &coupon); err != nil {
		return nil, err
	}
	return &coupon, nil
}

// Delete removes a coupon. Customers already discounted keep their
// discount until it runs out.
func (s CouponsService) Delete(ctx context.Context, id string) (*Deleted, error) {
	return deleteCoupon(ctx, s, id)
}

func deleteCoupon(ctx context.Context, b backend, id string) (*Deleted, error) {
	var deleted Deleted
	if err := b.call(ctx, http.MethodDelete, couponsPath+"/"+url.PathEscape(id), nil, &deleted); err != nil {
		return nil, err
	}
	return &deleted, nil
}

// List pages through coupons. params may carry count and offset; nil
// lists with the API defaults.
func (s CouponsService) List(ctx context.Context, params Params) (*CouponList, error) {
	return listCoupons(ctx, s, params)
}

func listCoupons(ctx context.Context, b backend, params Params) (*CouponList, error) {
	var list CouponList
	if err := b.call(ctx, http.MethodGet, couponsPath, params, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
