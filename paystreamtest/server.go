// Package paystreamtest provides an in-memory fake of the Paystream
// API for exercising clients without a network.
//
// The fake speaks the real wire format: bracketed form-encoded
// requests in, snake_case JSON out, failures in the {"error": {...}}
// envelope. State lives in memory and IDs are counter-based (ch_1,
// cus_2, ...), so scenarios are deterministic.
package paystreamtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Server is a fake Paystream API backed by in-memory state. Create one
// with New, point a client at URL, and Close it when done.
type Server struct {
	// APIKey is the only credential the server accepts.
	APIKey string

	httpServer *httptest.Server

	mu            sync.Mutex
	seq           int
	requestCount  int
	failNext      *injectedFailure
	charges       map[string]*wireCharge
	chargeOrder   []string
	customers     map[string]*wireCustomer
	customerOrder []string
	plans         map[string]*wirePlan
	planOrder     []string
	tokens        map[string]*wireToken
}

type injectedFailure struct {
	status  int
	errType string
	code    string
	message string
}

// New starts a fake API that accepts key as its Bearer credential.
func New(key string) *Server {
	s := &Server{
		APIKey:    key,
		charges:   make(map[string]*wireCharge),
		customers: make(map[string]*wireCustomer),
		plans:     make(map[string]*wirePlan),
		tokens:    make(map[string]*wireToken),
	}

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Use(s.faultInjection)

		r.Post("/charges", s.createCharge)
		r.Get("/charges", s.listCharges)
		r.Get("/charges/{id}", s.getCharge)
		r.Post("/charges/{id}/refund", s.refundCharge)

		r.Post("/customers", s.createCustomer)
		r.Get("/customers", s.listCustomers)
		r.Get("/customers/{id}", s.getCustomer)
		r.Post("/customers/{id}", s.updateCustomer)
		r.Delete("/customers/{id}", s.deleteCustomer)
		r.Post("/customers/{id}/subscription", s.updateSubscription)
		r.Delete("/customers/{id}/subscription", s.cancelSubscription)

		r.Post("/plans", s.createPlan)
		r.Get("/plans", s.listPlans)
		r.Get("/plans/{id}", s.getPlan)
		r.Delete("/plans/{id}", s.deletePlan)

		r.Post("/tokens", s.createToken)
		r.Get("/tokens/{id}", s.getToken)

		r.Get("/account", s.getAccount)
		r.Get("/balance", s.getBalance)
		r.Get("/balance/history", s.getBalanceHistory)
	})
	s.httpServer = httptest.NewServer(r)
	return s
}

// URL returns the base URL clients should use, version prefix
// included.
func (s *Server) URL() string {
	return s.httpServer.URL + "/v1"
}

// Close shuts the server down.
func (s *Server) Close() {
	s.httpServer.Close()
}

// Requests returns how many requests have reached the server,
// including ones rejected by authentication.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requestCount
}

// FailNext makes the next request fail with the given status and error
// envelope, after which normal handling resumes.
func (s *Server) FailNext(status int, errType, code, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = &injectedFailure{status: status, errType: errType, code: code, message: message}
}

// authMiddleware validates Bearer credentials and stamps each response
// with a Request-Id.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requestCount++
		n := s.requestCount
		s.mu.Unlock()
		w.Header().Set("Request-Id", fmt.Sprintf("req_%d", n))

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "invalid_request_error", "api_key_required", "",
				"You did not provide an API key.")
			return
		}
		key, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || key != s.APIKey {
			writeError(w, http.StatusUnauthorized, "invalid_request_error", "api_key_invalid", "",
				"Invalid API key provided.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) faultInjection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f := s.failNext
		s.failNext = nil
		s.mu.Unlock()
		if f != nil {
			writeError(w, f.status, f.errType, f.code, "", f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// nextID mints a counter-based ID like ch_3. Callers hold mu.
func (s *Server) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s_%d", prefix, s.seq)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errType, code, param, message string) {
	body := map[string]any{
		"type":    errType,
		"message": message,
	}
	if code != "" {
		body["code"] = code
	}
	if param != "" {
		body["param"] = param
	}
	writeJSON(w, status, map[string]any{"error": body})
}

// submap collects bracketed form fields like card[number] into a map
// keyed by the inner name. Returns nil when no field matches.
func submap(r *http.Request, prefix string) map[string]string {
	out := make(map[string]string)
	for key, values := range r.Form {
		if strings.HasPrefix(key, prefix+"[") && strings.HasSuffix(key, "]") && len(values) > 0 {
			field := strings.TrimPrefix(key, prefix+"[")
			field = strings.TrimSuffix(field, "]")
			out[field] = values[0]
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// formInt parses an integer form value. ok is false when the value is
// absent or not an integer.
func formInt(r *http.Request, key string) (n int64, ok bool) {
	v := r.FormValue(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// pageParams reads the count and offset list parameters, defaulting to
// ten items and capping at one hundred.
func pageParams(r *http.Request) (count, offset int) {
	count = 10
	if n, ok := formInt(r, "count"); ok && n > 0 {
		count = int(n)
	}
	if count > 100 {
		count = 100
	}
	if n, ok := formInt(r, "offset"); ok && n > 0 {
		offset = int(n)
	}
	return count, offset
}
