// Package paystream provides a typed client for the Paystream payment
// API.
//
// Construct a Client with New and reach the API through its service
// accessors:
//
//	client := paystream.New("sk_test_...")
//	charge, err := client.Charges().Create(ctx, paystream.Params{
//		"amount":   2000,
//		"currency": "usd",
//		"card": paystream.Params{
//			"number":    "4242424242424242",
//			"exp_month": 12,
//			"exp_year":  2027,
//		},
//	})
//
// Parameters are free-form maps encoded into the API's bracketed form
// keys; responses decode into typed records such as Charge and
// Customer. Failures come back as typed errors, so callers branch with
// errors.As or the Is helpers:
//
//	var cardErr *paystream.CardError
//	if errors.As(err, &cardErr) {
//		// declined; cardErr.Code says why
//	}
//
// Each Client carries one credential. Programs acting for several
// accounts construct one Client per key and may use them all
// concurrently.
package paystream
