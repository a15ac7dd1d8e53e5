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

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FMSAccount/ecommerceapp/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(strings.TrimPrefix(srv.URL, "http://"))
}

func TestGetProducts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/products" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode([]model.Product{
			{ID: "p1", Name: "Phone case", Price: 9.99, Inventory: 3},
		})
	})

	products, err := c.GetProducts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 1 || products[0].ID != "p1" || products[0].Inventory != 3 {
		t.Fatalf("products = %+v", products)
	}
}

func TestErrorDetailSurfaced(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Insufficient inventory for product Phone case"})
	})

	_, err := c.CreateOrder(context.Background(), model.OrderCreate{})
	if err == nil || !strings.Contains(err.Error(), "Insufficient inventory") {
		t.Fatalf("err = %v, want backend detail message", err)
	}
}

func TestErrorWithoutDetailIncludesStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.GetProduct(context.Background(), "p1")
	if err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("err = %v, want status in message", err)
	}
}

func TestAdminCallsCarryBearerToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-2" {
			t.Errorf("Authorization = %q, want Bearer tok-2", got)
		}
		json.NewEncoder(w).Encode(model.Dashboard{ProductsCount: 4})
	})

	dash, err := c.GetDashboard(context.Background(), "tok-2")
	if err != nil {
		t.Fatal(err)
	}
	if dash.ProductsCount != 4 {
		t.Fatalf("dashboard = %+v", dash)
	}
}

func TestVerifyOTP(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/verify-otp" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var in map[string]string
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Error(err)
		}
		if in["phone"] != "+15550001111" || in["otp"] != "123456" {
			t.Errorf("payload = %v", in)
		}
		json.NewEncoder(w).Encode(model.CustomerLogin{
			AccessToken: "tok-1",
			User:        model.User{ID: "u1", Name: "Jo", Phone: in["phone"]},
		})
	})

	login, err := c.VerifyOTP(context.Background(), "+15550001111", "123456")
	if err != nil {
		t.Fatal(err)
	}
	if login.AccessToken != "tok-1" || login.User.ID != "u1" {
		t.Fatalf("login = %+v", login)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/orders/o1/status" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var in map[string]string
		json.NewDecoder(r.Body).Decode(&in)
		if in["order_status"] != "shipped" {
			t.Errorf("payload = %v", in)
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "Order status updated successfully"})
	})

	if err := c.UpdateOrderStatus(context.Background(), "tok-2", "o1", "shipped"); err != nil {
		t.Fatal(err)
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/payments/checkout" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(model.CheckoutSession{
			CheckoutURL: "https://pay.example.com/cs_123",
			SessionID:   "cs_123",
		})
	})

	session, err := c.CreateCheckoutSession(context.Background(), "o1", "https://app.example.com")
	if err != nil {
		t.Fatal(err)
	}
	if session.SessionID != "cs_123" {
		t.Fatalf("session = %+v", session)
	}
}
