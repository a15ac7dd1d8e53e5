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

// Package frontend exposes the storefront flows to the device UI over a
// local JSON API: catalog reads, cart mutations, the OTP login flow, the
// admin panel operations and the checkout/payment handoff.
package frontend

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/FMSAccount/ecommerceapp/internal/auth"
	"github.com/FMSAccount/ecommerceapp/internal/backend"
	"github.com/FMSAccount/ecommerceapp/internal/cart"
	"github.com/FMSAccount/ecommerceapp/internal/payment"
)

// Server wires the state stores and the backend client into HTTP handlers.
// One instance per application lifecycle; stores are injected, never
// ambient.
type Server struct {
	backend *backend.Client
	cart    *cart.Store
	auth    *auth.Store
	poller  *payment.Poller
}

// New returns a server using the given collaborators.
func New(client *backend.Client, cartStore *cart.Store, authStore *auth.Store, poller *payment.Poller) *Server {
	return &Server{backend: client, cart: cartStore, auth: authStore, poller: poller}
}

// Routes returns the gateway router.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/products", s.listProductsHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/products/{id}", s.getProductHandler).Methods(http.MethodGet)

	r.HandleFunc("/api/cart", s.viewCartHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/cart/items", s.addToCartHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/cart/items/{id}", s.updateCartItemHandler).Methods(http.MethodPut)
	r.HandleFunc("/api/cart/items/{id}", s.removeCartItemHandler).Methods(http.MethodDelete)
	r.HandleFunc("/api/cart/empty", s.emptyCartHandler).Methods(http.MethodPost)

	r.HandleFunc("/api/checkout", s.checkoutHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/payments/status/{sessionID}", s.paymentStatusHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/payments/{sessionID}/wait", s.paymentWaitHandler).Methods(http.MethodPost)

	r.HandleFunc("/api/auth/otp/send", s.sendOTPHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/otp/verify", s.verifyOTPHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/register", s.registerCustomerHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", s.logoutHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/session", s.sessionHandler).Methods(http.MethodGet)

	r.HandleFunc("/api/admin/login", s.adminLoginHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/admin/register", s.adminRegisterHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/admin/dashboard", s.requireAdmin(s.dashboardHandler)).Methods(http.MethodGet)
	r.HandleFunc("/api/admin/products", s.requireAdmin(s.createProductHandler)).Methods(http.MethodPost)
	r.HandleFunc("/api/admin/products/{id}", s.requireAdmin(s.updateProductHandler)).Methods(http.MethodPut)
	r.HandleFunc("/api/admin/products/{id}", s.requireAdmin(s.deleteProductHandler)).Methods(http.MethodDelete)
	r.HandleFunc("/api/admin/orders", s.requireAdmin(s.listOrdersHandler)).Methods(http.MethodGet)
	r.HandleFunc("/api/admin/orders/{id}", s.requireAdmin(s.getOrderHandler)).Methods(http.MethodGet)
	r.HandleFunc("/api/admin/orders/{id}/status", s.requireAdmin(s.updateOrderStatusHandler)).Methods(http.MethodPut)

	r.HandleFunc("/_healthz", func(w http.ResponseWriter, _ *http.Request) { fmt.Fprint(w, "ok") })

	return r
}
