package paystreamtest

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// DeclinedCardNumber is a test card number that tokenizes fine but is
// declined whenever a charge is attempted against it.
const DeclinedCardNumber = "4000000000000002"

// cardFromFields builds a card record from bracketed card[...] form
// fields, or reports the card error code and message it fails with.
// Callers hold mu.
func (s *Server) cardFromFields(fields map[string]string) (card *wireCard, code, message string) {
	number := strings.ReplaceAll(fields["number"], " ", "")
	if len(number) < 13 {
		return nil, "incorrect_number", "Your card number is incorrect."
	}
	expMonth, _ := strconv.Atoi(fields["exp_month"])
	expYear, _ := strconv.Atoi(fields["exp_year"])
	if expMonth < 1 || expMonth > 12 {
		return nil, "invalid_expiry_month", "Your card's expiration month is invalid."
	}
	now := time.Now()
	if expYear < now.Year() || (expYear == now.Year() && expMonth < int(now.Month())) {
		return nil, "expired_card", "Your card has expired."
	}

	return &wireCard{
		ID:          s.nextID("card"),
		Object:      "card",
		Last4:       number[len(number)-4:],
		Type:        cardType(number),
		ExpMonth:    expMonth,
		ExpYear:     expYear,
		Fingerprint: fingerprint(number),
		Country:     "US",
		Name:        fields["name"],
		number:      number,
	}, "", ""
}

func cardType(number string) string {
	switch {
	case strings.HasPrefix(number, "4"):
		return "Visa"
	case strings.HasPrefix(number, "5"):
		return "MasterCard"
	case strings.HasPrefix(number, "3"):
		return "American Express"
	default:
		return "Unknown"
	}
}

// fingerprint derives a stable identifier from a card number so the
// same card tokenized twice is recognizable.
func fingerprint(number string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(number))
	return fmt.Sprintf("fp_%08x", h.Sum32())
}

// resolveCard turns the request's card input into a card record: a
// card=tok_... reference, bracketed card[...] fields, or nothing.
// Card problems come back as a 402-style code and message. Callers
// hold mu.
func (s *Server) resolveCard(r *http.Request) (card *wireCard, code, message string) {
	if ref := r.FormValue("card"); strings.HasPrefix(ref, "tok_") {
		tok, ok := s.tokens[ref]
		if !ok {
			return nil, "invalid_request", "No such token: '" + ref + "'"
		}
		if tok.Used {
			return nil, "invalid_request", "You cannot use a token more than once: '" + ref + "'"
		}
		tok.Used = true
		return tok.Card, "", ""
	}
	fields := submap(r, "card")
	if fields == nil {
		return nil, "", ""
	}
	return s.cardFromFields(fields)
}

func (s *Server) createCharge(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "", "", err.Error())
		return
	}
	amount, ok := formInt(r, "amount")
	if !ok || amount <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "parameter_missing", "amount",
			"Amount must be a positive integer.")
		return
	}
	currency := r.FormValue("currency")
	if currency == "" {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "parameter_missing", "currency",
			"Missing required param: currency.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var card *wireCard
	customerID := r.FormValue("customer")
	if customerID != "" {
		cus, found := s.customers[customerID]
		if !found {
			writeError(w, http.StatusNotFound, "invalid_request_error", "resource_missing", "customer",
				"No such customer: '"+customerID+"'")
			return
		}
		if cus.ActiveCard == nil {
			writeError(w, http.StatusPaymentRequired, "card_error", "missing", "card",
				"Cannot charge a customer that has no active card.")
			return
		}
		card = cus.ActiveCard
	} else {
		var code, message string
		card, code, message = s.resolveCard(r)
		if code != "" {
			status := http.StatusPaymentRequired
			if code == "invalid_request" {
				writeError(w, http.StatusBadRequest, "invalid_request_error", "", "card", message)
				return
			}
			writeError(w, status, "card_error", code, "card", message)
			return
		}
		if card == nil {
			writeError(w, http.StatusBadRequest, "invalid_request_error", "parameter_missing", "card",
				"Must provide a card or customer to charge.")
			return
		}
	}

	if card.number == DeclinedCardNumber {
		writeError(w, http.StatusPaymentRequired, "card_error", "card_declined", "",
			"Your card was declined.")
		return
	}

	ch := &wireCharge{
		ID:          s.nextID("ch"),
		Object:      "charge",
		Amount:      amount,
		Currency:    currency,
		Created:     time.Now().Unix(),
		Paid:        true,
		Captured:    true,
		Card:        card,
		Customer:    customerID,
		Description: r.FormValue("description"),
		Metadata:    submap(r, "metadata"),
	}
	s.charges[ch.ID] = ch
	s.chargeOrder = append(s.chargeOrder, ch.ID)
	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) getCharge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.charges[id]
	if !ok {
		writeError(w, http.StatusNotFound, "invalid_request_error", "resource_missing", "charge",
			"No such charge: '"+id+"'")
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) listCharges(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	count, offset := pageParams(r)
	customer := r.FormValue("customer")

	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]*wireCharge, 0, len(s.chargeOrder))
	// newest first
	for i := len(s.chargeOrder) - 1; i >= 0; i-- {
		ch := s.charges[s.chargeOrder[i]]
		if customer != "" && ch.Customer != customer {
			continue
		}
		matches = append(matches, ch)
	}
	writeJSON(w, http.StatusOK, wireList{
		Object: "list",
		Count:  len(matches),
		Data:   page(matches, count, offset),
		URL:    "/v1/charges",
	})
}

func (s *Server) refundCharge(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "", "", err.Error())
		return
	}
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.charges[id]
	if !ok {
		writeError(w, http.StatusNotFound, "invalid_request_error", "resource_missing", "charge",
			"No such charge: '"+id+"'")
		return
	}
	remaining := ch.Amount - ch.AmountRefunded
	if remaining <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "charge_already_refunded", "",
			"Charge "+id+" has already been refunded.")
		return
	}
	amount := remaining
	if n, found := formInt(r, "amount"); found {
		amount = n
	}
	if amount <= 0 || amount > remaining {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "", "amount",
			"Refund amount exceeds the refundable amount of the charge.")
		return
	}

	ch.AmountRefunded += amount
	if ch.AmountRefunded == ch.Amount {
		ch.Refunded = true
	}
	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "", "", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	card, code, message := s.resolveCard(r)
	if code != "" {
		if code == "invalid_request" {
			writeError(w, http.StatusBadRequest, "invalid_request_error", "", "card", message)
			return
		}
		writeError(w, http.StatusPaymentRequired, "card_error", code, "card", message)
		return
	}

	cus := &wireCustomer{
		ID:          s.nextID("cus"),
		Object:      "customer",
		Created:     time.Now().Unix(),
		Description: r.FormValue("description"),
		Email:       r.FormValue("email"),
		ActiveCard:  card,
		Metadata:    submap(r, "metadata"),
	}

	if planID := r.FormValue("plan"); planID != "" {
		plan, found := s.plans[planID]
		if !found {
			writeError(w, http.StatusBadRequest, "invalid_request_error", "resource_missing", "plan",
				"No such plan: '"+planID+"'")
			return
		}
		cus.Subscription = newSubscription(cus.ID, plan, 1)
	}

	s.customers[cus.ID] = cus
	s.customerOrder = append(s.customerOrder, cus.ID)
	writeJSON(w, http.StatusOK, cus)
}

func (s *Server) getCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	cus, ok := s.customers[id]
	if !ok {
		writeError(w, http.StatusNotFound, "invalid_request_error", "resource_missing", "customer",
			"No such customer: '"+id+"'")
		return
	}
	writeJSON(w, http.StatusOK, cus)
}

func (s *Server) updateCustomer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "", "", err.Error())
		return
	}
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	cus, ok := s.customers[id]
	if !ok {
		writeError(w, http.StatusNotFound, "invalid_request_error", "resource_missing", "customer",
			"No such customer: '"+id+"'")
		return
	}

	if v := r.FormValue("description"); v != "" {
		cus.Description = v
	}
	if v := r.FormValue("email"); v != "" {
		cus.Email = v
	}
	if meta := submap(r, "metadata"); meta != nil {
		cus.Metadata = meta
	}
	card, code, message := s.resolveCard(r)
	if code != "" {
		if code == "invalid_request" {
			writeError(w, http.StatusBadRequest, "invalid_request_error", "", "card", message)
			return
		}
		writeError(w, http.StatusPaymentRequired, "card_error", code, "card", message)
		return
	}
	if card != nil {
		cus.ActiveCard = card
	}

	writeJSON(w, http.StatusOK, cus)
}

func (s *Server) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[id]; !ok {
		writeError(w, http.StatusNotFound, "invalid_request_error", "resource_missing", "customer",
			"No such customer: '"+id+"'")
		return
	}
	delete(s.customers, id)
	s.customerOrder = remove(s.customerOrder, id)
	writeJSON(w, http.StatusOK, wireDeleted{ID: id, Object: "customer", Deleted: true})
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	count, offset := pageParams(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]*wireCustomer, 0, len(s.customerOrder))
	for i := len(s.customerOrder) - 1; i >= 0; i-- {
		matches = append(matches, s.customers[s.customerOrder[i]])
	}
	writeJSON(w, http.StatusOK, wireList{
		Object: "list",
		Count:  len(matches),
		Data:   page(matches, count, offset),
		URL:    "/v1/customers",
	})
}

func (s *Server) updateSubscription(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "", "", err.Error())
		return
	}
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	cus, ok := s.customers[id]
	if !ok {
		writeError(w, http.StatusNotFound, "invalid_request_error", "resource_missing", "customer",
			"No such customer: '"+id+"'")
		return
	}
	planID := r.FormValue("plan")
	if planID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "parameter_missing", "plan",
			"Missing required param: plan.")
		return
	}
	plan, found := s.plans[planID]
	if !found {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "resource_missing", "plan",
			"No such plan: '"+planID+"'")
		return
	}
	quantity := int64(1)
	if n, has := formInt(r, "quantity"); has && n > 0 {
		quantity = n
	}

	cus.Subscription = newSubscription(cus.ID, plan, quantity)
	writeJSON(w, http.StatusOK, cus.Subscription)
}

func (s *Server) cancelSubscription(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	cus, ok := s.customers[id]
	if !ok {
		writeError(w, http.StatusNotFound, "invalid_request_error", "resource_missing", "customer",
			"No such customer: '"+id+"'")
		return
	}
	sub := cus.Subscription
	if sub == nil {
		writeError(w, http.StatusNotFound, "invalid_request_error", "resource_missing", "subscription",
			"No active subscription for customer: '"+id+"'")
		return
	}

	now := time.Now().Unix()
	sub.Status = "canceled"
	sub.CanceledAt = now
	sub.EndedAt = now
	cus.Subscription = nil
	writeJSON(w, http.StatusOK, sub)
}

func newSubscription(customerID string, plan *wirePlan, quantity int64) *wireSubscription {
	now := time.Now()
	return &wireSubscription{
		Object:             "subscription",
		Customer:           customerID,
		Status:             "active",
		Plan:               plan,
		Start:              now.Unix(),
		CurrentPeriodStart: now.Unix(),
		CurrentPeriodEnd:   periodEnd(now, plan).Unix(),
		Quantity:           quantity,
	}
}

func periodEnd(start time.Time, plan *wirePlan) time.Time {
	n := int(plan.IntervalCount)
	if n <= 0 {
		n = 1
	}
	switch plan.Interval {
	case "week":
		return start.AddDate(0, 0, 7*n)
	case "year":
		return start.AddDate(n, 0, 0)
	default:
		return start.AddDate(0, n, 0)
	}
}

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "", "", err.Error())
		return
	}
	id := r.FormValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "parameter_missing", "id",
			"Missing required param: id.")
		return
	}
	amount, ok := formInt(r, "amount")
	if !ok || amount < 0 {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "parameter_missing", "amount",
			"Amount must be a non-negative integer.")
		return
	}
	currency := r.FormValue("currency")
	if currency == "" {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "parameter_missing", "currency",
			"Missing required param: currency.")
		return
	}
	interval := r.FormValue("interval")
	if interval != "week" && interval != "month" && interval != "year" {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "", "interval",
			"Invalid interval: must be one of week, month, or year.")
		return
	}
	name := r.FormValue("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "parameter_missing", "name",
			"Missing required param: name.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.plans[id]; exists {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "resource_already_exists", "id",
			"Plan already exists.")
		return
	}

	plan := &wirePlan{
		ID:            id,
		Object:        "plan",
		Amount:        amount,
		Currency:      currency,
		Interval:      interval,
		IntervalCount: 1,
		Name:          name,
	}
	if n, has := formInt(r, "interval_count"); has && n > 0 {
		plan.IntervalCount = n
	}

	s.plans[id] = plan
	s.planOrder = append(s.planOrder, id)
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	plan, ok := s.plans[id]
	if !ok {
		writeError(w, http.StatusNotFound, "invalid_request_error", "resource_missing", "plan",
			"No such plan: '"+id+"'")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) deletePlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[id]; !ok {
		writeError(w, http.StatusNotFound, "invalid_request_error", "resource_missing", "plan",
			"No such plan: '"+id+"'")
		return
	}
	delete(s.plans, id)
	s.planOrder = remove(s.planOrder, id)
	writeJSON(w, http.StatusOK, wireDeleted{ID: id, Object: "plan", Deleted: true})
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	count, offset := pageParams(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]*wirePlan, 0, len(s.planOrder))
	for i := len(s.planOrder) - 1; i >= 0; i-- {
		matches = append(matches, s.plans[s.planOrder[i]])
	}
	writeJSON(w, http.StatusOK, wireList{
		Object: "list",
		Count:  len(matches),
		Data:   page(matches, count, offset),
		URL:    "/v1/plans",
	})
}

func (s *Server) createToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "", "", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fields := submap(r, "card")
	if fields == nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "parameter_missing", "card",
			"Missing required param: card.")
		return
	}
	card, code, message := s.cardFromFields(fields)
	if code != "" {
		writeError(w, http.StatusPaymentRequired, "card_error", code, "card", message)
		return
	}

	tok := &wireToken{
		ID:      s.nextID("tok"),
		Object:  "token",
		Created: time.Now().Unix(),
		Card:    card,
	}
	s.tokens[tok.ID] = tok
	writeJSON(w, http.StatusOK, tok)
}

func (s *Server) getToken(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	tok, ok := s.tokens[id]
	if !ok {
		writeError(w, http.StatusNotFound, "invalid_request_error", "resource_missing", "token",
			"No such token: '"+id+"'")
		return
	}
	writeJSON(w, http.StatusOK, tok)
}

func (s *Server) getAccount(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, wireAccount{
		ID:                  "acct_1",
		Object:              "account",
		Email:               "owner@example.com",
		StatementDescriptor: "PAYSTREAM TEST",
		DetailsSubmitted:    true,
		ChargeEnabled:       true,
		TransferEnabled:     false,
		CurrenciesSupported: []string{"usd", "eur"},
	})
}

func (s *Server) getBalance(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := make(map[string]int64)
	for _, id := range s.chargeOrder {
		ch := s.charges[id]
		if ch.Paid {
			totals[ch.Currency] += ch.Amount - ch.AmountRefunded
		}
	}

	available := make([]wireBalanceAmount, 0, len(totals))
	for _, currency := range sortedCurrencies(totals) {
		available = append(available, wireBalanceAmount{Amount: totals[currency], Currency: currency})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"object":    "balance",
		"livemode":  false,
		"available": available,
		"pending":   []wireBalanceAmount{},
	})
}

func (s *Server) getBalanceHistory(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	count, offset := pageParams(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	var txns []*wireBalanceTransaction
	for i := len(s.chargeOrder) - 1; i >= 0; i-- {
		ch := s.charges[s.chargeOrder[i]]
		suffix := strings.TrimPrefix(ch.ID, "ch_")
		if ch.AmountRefunded > 0 {
			txns = append(txns, &wireBalanceTransaction{
				ID:          "txn_r" + suffix,
				Object:      "balance_transaction",
				Amount:      -ch.AmountRefunded,
				Currency:    ch.Currency,
				Net:         -ch.AmountRefunded,
				Type:        "refund",
				Status:      "available",
				Created:     ch.Created,
				AvailableOn: ch.Created,
				Source:      ch.ID,
			})
		}
		txns = append(txns, &wireBalanceTransaction{
			ID:          "txn_" + suffix,
			Object:      "balance_transaction",
			Amount:      ch.Amount,
			Currency:    ch.Currency,
			Net:         ch.Amount,
			Type:        "charge",
			Status:      "available",
			Created:     ch.Created,
			AvailableOn: ch.Created,
			Source:      ch.ID,
		})
	}
	writeJSON(w, http.StatusOK, wireList{
		Object: "list",
		Count:  len(txns),
		Data:   page(txns, count, offset),
		URL:    "/v1/balance/history",
	})
}

func sortedCurrencies(totals map[string]int64) []string {
	currencies := make([]string, 0, len(totals))
	for c := range totals {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)
	return currencies
}

// page slices matches to the requested window. The result is never
// nil, so lists serialize as [] rather than null.
func page[T any](matches []T, count, offset int) []T {
	if offset >= len(matches) {
		return []T{}
	}
	end := offset + count
	if end > len(matches) {
		end = len(matches)
	}
	return matches[offset:end]
}

func remove(order []string, id string) []string {
	out := order[:0]
	for _, v := range order {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
