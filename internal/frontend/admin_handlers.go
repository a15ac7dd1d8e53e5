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
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/FMSAccount/ecommerceapp/internal/model"
	"github.com/FMSAccount/ecommerceapp/internal/validator"
)

// requireAdmin gates the admin panel operations on the admin role
// predicate. Token expiry is enforced by the backend on the proxied call.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.auth.IsAdmin() {
			renderError(logFrom(r), w, errors.New("admin access required"), http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

// adminLoginHandler authenticates the store owner and establishes an admin
// session (POST /api/admin/login).
func (s *Server) adminLoginHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderError(log, w, errors.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	if err := (validator.AdminLoginPayload{Username: body.Username, Password: body.Password}).Validate(); err != nil {
		renderError(log, w, validator.ValidationErrorResponse(err), http.StatusUnprocessableEntity)
		return
	}

	login, err := s.backend.LoginAdmin(r.Context(), body.Username, body.Password)
	if err != nil {
		log.WithField("error", err).Warn("admin login failed")
		renderError(log, w, err, http.StatusUnauthorized)
		return
	}
	if err := s.auth.LoginAdmin(r.Context(), login.AccessToken, login.Admin); err != nil {
		renderError(log, w, errors.Wrap(err, "failed to establish session"), http.StatusInternalServerError)
		return
	}
	log.WithField("admin", login.Admin.Username).Info("admin logged in")
	s.renderSession(log, w)
}

// adminRegisterHandler creates a store owner account
// (POST /api/admin/register). It does not log the admin in; the panel
// redirects to login afterwards.
func (s *Server) adminRegisterHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderError(log, w, errors.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	payload := validator.AdminRegisterPayload{
		Username: body.Username,
		Password: body.Password,
		FullName: body.FullName,
	}
	if err := payload.Validate(); err != nil {
		renderError(log, w, validator.ValidationErrorResponse(err), http.StatusUnprocessableEntity)
		return
	}

	if err := s.backend.RegisterAdmin(r.Context(), body.Username, body.Password, body.FullName); err != nil {
		log.WithField("error", err).Warn("admin registration failed")
		renderError(log, w, err, http.StatusBadRequest)
		return
	}
	log.WithField("admin", body.Username).Info("admin registered")
	renderJSON(log, w, http.StatusCreated, map[string]string{"message": "admin registered", "username": body.Username})
}

func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)
	dashboard, err := s.backend.GetDashboard(r.Context(), s.auth.Token())
	if err != nil {
		renderError(log, w, errors.Wrap(err, "could not retrieve dashboard"), http.StatusBadGateway)
		return
	}
	renderJSON(log, w, http.StatusOK, dashboard)
}

func (s *Server) createProductHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)
	var body model.ProductCreate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderError(log, w, errors.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	if body.Name == "" || body.Price <= 0 || body.Inventory < 0 {
		renderError(log, w, errors.New("name, a positive price and a non-negative inventory are required"), http.StatusUnprocessableEntity)
		return
	}

	product, err := s.backend.CreateProduct(r.Context(), s.auth.Token(), body)
	if err != nil {
		renderError(log, w, errors.Wrap(err, "failed to create product"), http.StatusBadGateway)
		return
	}
	log.WithField("product", product.ID).Info("product created")
	renderJSON(log, w, http.StatusCreated, product)
}

func (s *Server) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)
	id := mux.Vars(r)["id"]
	var body model.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderError(log, w, errors.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	product, err := s.backend.UpdateProduct(r.Context(), s.auth.Token(), id, body)
	if err != nil {
		renderError(log, w, errors.Wrap(err, "failed to update product"), http.StatusBadGateway)
		return
	}
	log.WithField("product", id).Info("product updated")
	renderJSON(log, w, http.StatusOK, product)
}

func (s *Server) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)
	id := mux.Vars(r)["id"]
	if err := s.backend.DeleteProduct(r.Context(), s.auth.Token(), id); err != nil {
		renderError(log, w, errors.Wrap(err, "failed to delete product"), http.StatusBadGateway)
		return
	}
	log.WithField("product", id).Info("product deleted")
	renderJSON(log, w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (s *Server) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)
	orders, err := s.backend.GetOrders(r.Context(), s.auth.Token())
	if err != nil {
		renderError(log, w, errors.Wrap(err, "could not retrieve orders"), http.StatusBadGateway)
		return
	}
	renderJSON(log, w, http.StatusOK, orders)
}

func (s *Server) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)
	id := mux.Vars(r)["id"]
	order, err := s.backend.GetOrder(r.Context(), id)
	if err != nil {
		renderError(log, w, errors.Wrap(err, "could not retrieve order"), http.StatusBadGateway)
		return
	}
	renderJSON(log, w, http.StatusOK, order)
}

func (s *Server) updateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)
	id := mux.Vars(r)["id"]
	var body struct {
		OrderStatus string `json:"order_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderError(log, w, errors.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	if body.OrderStatus == "" {
		renderError(log, w, errors.New("order_status is required"), http.StatusUnprocessableEntity)
		return
	}

	if err := s.backend.UpdateOrderStatus(r.Context(), s.auth.Token(), id, body.OrderStatus); err != nil {
		renderError(log, w, errors.Wrap(err, "failed to update order status"), http.StatusBadGateway)
		return
	}
	log.WithField("order", id).WithField("status", body.OrderStatus).Info("order status updated")
	renderJSON(log, w, http.StatusOK, map[string]string{"message": "order status updated"})
}
