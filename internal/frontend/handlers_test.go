// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package frontend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/FMSAccount/ecommerceapp/internal/auth"
	"github.com/FMSAccount/ecommerceapp/internal/backend"
	"github.com/FMSAccount/ecommerceapp/internal/cart"
	"github.com/FMSAccount/ecommerceapp/internal/kvstore"
	"github.com/FMSAccount/ecommerceapp/internal/model"
	"github.com/FMSAccount/ecommerceapp/internal/payment"
)

type testEnv struct {
	srv     *Server
	handler http.Handler
	cart    *cart.Store
	auth    *auth.Store
}

func newTestEnv(t *testing.T, backendHandler http.Handler) *testEnv {
	t.Helper()

	be := httptest.NewServer(backendHandler)
	t.Cleanup(be.Close)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	client := backend.New(strings.TrimPrefix(be.URL, "http://"))
	cartStore := cart.New()
	authStore := auth.New(kvstore.NewFile(filepath.Join(t.TempDir(), "session.json")), log)
	poller := payment.NewPoller(client, time.Millisecond, 3, log)

	srv := New(client, cartStore, authStore, poller)
	return &testEnv{
		srv:     srv,
		handler: NewLogHandler(log, EnsureDeviceID(srv.Routes())),
		cart:    cartStore,
		auth:    authStore,
	}
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func catalogBackend(products map[string]model.Product) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/products/")
		p, ok := products[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Product not found"})
			return
		}
		json.NewEncoder(w).Encode(p)
	})
	return mux
}

func TestAddToCartFlow(t *testing.T) {
	env := newTestEnv(t, catalogBackend(map[string]model.Product{
		"p1": {ID: "p1", Name: "Phone case", Price: 9.99, Inventory: 3},
	}))

	rr := env.request(t, http.MethodPost, "/api/cart/items", map[string]string{"product_id": "p1"})
	if rr.Code != http.StatusOK {
		t.Fatalf("add status = %d, body %s", rr.Code, rr.Body.String())
	}
	rr = env.request(t, http.MethodPost, "/api/cart/items", map[string]string{"product_id": "p1"})
	if rr.Code != http.StatusOK {
		t.Fatalf("second add status = %d", rr.Code)
	}

	var view cartView
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.ItemCount != 2 {
		t.Fatalf("item_count = %d, want 2", view.ItemCount)
	}
	if view.Total < 19.979 || view.Total > 19.981 {
		t.Fatalf("total = %v, want 19.98", view.Total)
	}
}

func TestAddToCartOutOfStock(t *testing.T) {
	env := newTestEnv(t, catalogBackend(map[string]model.Product{
		"p1": {ID: "p1", Name: "Gone", Price: 5, Inventory: 0},
	}))

	rr := env.request(t, http.MethodPost, "/api/cart/items", map[string]string{"product_id": "p1"})
	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "out of stock") {
		t.Fatalf("body = %s, want out-of-stock reason", rr.Body.String())
	}
}

func TestUpdateCartItem(t *testing.T) {
	env := newTestEnv(t, catalogBackend(map[string]model.Product{
		"p1": {ID: "p1", Name: "Phone case", Price: 9.99, Inventory: 3},
	}))
	env.request(t, http.MethodPost, "/api/cart/items", map[string]string{"product_id": "p1"})

	rr := env.request(t, http.MethodPut, "/api/cart/items/p1", map[string]int{"quantity": 5})
	if rr.Code != http.StatusConflict {
		t.Fatalf("over-inventory update status = %d, want 409", rr.Code)
	}

	rr = env.request(t, http.MethodPut, "/api/cart/items/p1", map[string]int{"quantity": 0})
	if rr.Code != http.StatusOK {
		t.Fatalf("zero update status = %d, want 200", rr.Code)
	}
	if got := env.cart.ItemCount(); got != 0 {
		t.Fatalf("ItemCount = %d, want 0", got)
	}

	rr = env.request(t, http.MethodPut, "/api/cart/items/missing", map[string]int{"quantity": 1})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("absent update status = %d, want 404", rr.Code)
	}
}

func TestCheckoutRequiresLogin(t *testing.T) {
	env := newTestEnv(t, catalogBackend(nil))
	rr := env.request(t, http.MethodPost, "/api/checkout", checkoutRequest{})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestCheckoutFlow(t *testing.T) {
	products := map[string]model.Product{
		"p1": {ID: "p1", Name: "Phone case", Price: 9.99, Inventory: 3},
	}
	mux := http.NewServeMux()
	mux.Handle("/api/products/", catalogBackend(products))
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		var in model.OrderCreate
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || len(in.Items) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(model.Order{ID: "o1", TotalAmount: 19.98, OrderStatus: "processing"})
	})
	mux.HandleFunc("/api/payments/checkout", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.CheckoutSession{CheckoutURL: "https://pay.example.com/cs_1", SessionID: "cs_1"})
	})

	env := newTestEnv(t, mux)
	if err := env.auth.LoginUser(context.Background(), "tok-1", model.User{ID: "u1", Name: "Jo", Phone: "+15550001111"}); err != nil {
		t.Fatal(err)
	}
	env.request(t, http.MethodPost, "/api/cart/items", map[string]string{"product_id": "p1"})
	env.request(t, http.MethodPost, "/api/cart/items", map[string]string{"product_id": "p1"})

	rr := env.request(t, http.MethodPost, "/api/checkout", checkoutRequest{
		Name:      "Jo",
		Email:     "jo@example.com",
		Phone:     "+15550001111",
		Street:    "1 Main St",
		City:      "Springfield",
		State:     "CA",
		ZipCode:   "90210",
		Country:   "US",
		OriginURL: "https://app.example.com",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("checkout status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp checkoutResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.SessionID != "cs_1" || resp.Order == nil || resp.Order.ID != "o1" {
		t.Fatalf("response = %+v", resp)
	}
	if got := env.cart.ItemCount(); got != 0 {
		t.Fatalf("cart not cleared after checkout, ItemCount = %d", got)
	}
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	env := newTestEnv(t, catalogBackend(nil))
	if err := env.auth.LoginUser(context.Background(), "tok-1", model.User{ID: "u1"}); err != nil {
		t.Fatal(err)
	}
	rr := env.request(t, http.MethodPost, "/api/checkout", checkoutRequest{
		Name:      "Jo",
		Email:     "jo@example.com",
		Phone:     "+15550001111",
		Street:    "1 Main St",
		City:      "Springfield",
		State:     "CA",
		ZipCode:   "90210",
		Country:   "US",
		OriginURL: "https://app.example.com",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestVerifyOTPEstablishesSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/verify-otp", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.CustomerLogin{
			AccessToken: "tok-1",
			User:        model.User{ID: "u1", Name: "Jo", Phone: "+15550001111"},
		})
	})

	env := newTestEnv(t, mux)
	rr := env.request(t, http.MethodPost, "/api/auth/otp/verify", map[string]string{
		"phone": "+15550001111",
		"otp":   "123456",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if !env.auth.IsCustomer() {
		t.Fatal("customer session not established")
	}

	var view sessionView
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if !view.IsCustomer || view.IsAdmin {
		t.Fatalf("session view = %+v", view)
	}
}

func TestAdminGate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/dashboard", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(model.Dashboard{ProductsCount: 2, OrdersCount: 1})
	})

	env := newTestEnv(t, mux)

	rr := env.request(t, http.MethodGet, "/api/admin/dashboard", nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("anonymous dashboard status = %d, want 403", rr.Code)
	}

	if err := env.auth.LoginAdmin(context.Background(), "tok-2", model.Admin{ID: "a1", Username: "owner"}); err != nil {
		t.Fatal(err)
	}
	rr = env.request(t, http.MethodGet, "/api/admin/dashboard", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("admin dashboard status = %d, body %s", rr.Code, rr.Body.String())
	}

	var dash model.Dashboard
	if err := json.Unmarshal(rr.Body.Bytes(), &dash); err != nil {
		t.Fatal(err)
	}
	if dash.ProductsCount != 2 {
		t.Fatalf("dashboard = %+v", dash)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t, catalogBackend(nil))
	if err := env.auth.LoginUser(context.Background(), "tok-1", model.User{ID: "u1"}); err != nil {
		t.Fatal(err)
	}
	rr := env.request(t, http.MethodPost, "/api/auth/logout", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rr.Code)
	}
	if env.auth.IsCustomer() || env.auth.IsAdmin() {
		t.Fatal("session not cleared")
	}
}
