// Copyright 2018 Google LLC
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
	"github.com/sirupsen/logrus"

	"github.com/FMSAccount/ecommerceapp/internal/cart"
	"github.com/FMSAccount/ecommerceapp/internal/model"
	"github.com/FMSAccount/ecommerceapp/internal/payment"
	"github.com/FMSAccount/ecommerceapp/internal/validator"
)

func (s *Server) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)
	products, err := s.backend.GetProducts(r.Context())
	if err != nil {
		renderError(log, w, errors.Wrap(err, "could not retrieve products"), http.StatusBadGateway)
		return
	}
	renderJSON(log, w, http.StatusOK, products)
}

func (s *Server) getProductHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)
	id := mux.Vars(r)["id"]
	product, err := s.backend.GetProduct(r.Context(), id)
	if err != nil {
		renderError(log, w, errors.Wrap(err, "could not retrieve product"), http.StatusBadGateway)
		return
	}
	renderJSON(log, w, http.StatusOK, product)
}

type cartLineView struct {
	Product   model.Product `json:"product"`
	Quantity  int           `json:"quantity"`
	LineTotal float64       `json:"line_total"`
}

type cartView struct {
	Items     []cartLineView `json:"items"`
	ItemCount int            `json:"item_count"`
	Total     float64        `json:"total"`
	Currency  string         `json:"currency"`
}

func (s *Server) renderCart(log logrus.FieldLogger, w http.ResponseWriter, code int) {
	items := s.cart.Items()
	view := cartView{Items: make([]cartLineView, len(items)), Currency: "USD"}
	for i, it := range items {
		view.Items[i] = cartLineView{
			Product:   it.Product,
			Quantity:  it.Quantity,
			LineTotal: it.Product.Price * float64(it.Quantity),
		}
	}
	view.ItemCount = s.cart.ItemCount()
	view.Total = s.cart.Total().Float()
	renderJSON(log, w, code, view)
}

func (s *Server) viewCartHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)
	log.WithField("device", deviceID(r)).Debug("view cart")
	s.renderCart(log, w, http.StatusOK)
}

func (s *Server) addToCartHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)
	var body struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderError(log, w, errors.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	payload := validator.AddToCartPayload{ProductID: body.ProductID}
	if err := payload.Validate(); err != nil {
		renderError(log, w, validator.ValidationErrorResponse(err), http.StatusUnprocessableEntity)
		return
	}
	log.WithField("product", payload.ProductID).Debug("adding to cart")

	p, err := s.backend.GetProduct(r.Context(), payload.ProductID)
	if err != nil {
		renderError(log, w, errors.Wrap(err, "could not retrieve product"), http.StatusBadGateway)
		return
	}
	s.renderCartResult(log, w, s.cart.Add(*p))
}

func (s *Server) updateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)
	productID := mux.Vars(r)["id"]
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderError(log, w, errors.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	payload := validator.UpdateQuantityPayload{ProductID: productID, Quantity: body.Quantity}
	if err := payload.Validate(); err != nil {
		renderError(log, w, validator.ValidationErrorResponse(err), http.StatusUnprocessableEntity)
		return
	}
	log.WithField("product", productID).WithField("quantity", body.Quantity).Debug("updating cart item quantity")

	s.renderCartResult(log, w, s.cart.UpdateQuantity(productID, body.Quantity))
}

func (s *Server) removeCartItemHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)
	productID := mux.Vars(r)["id"]
	log.WithField("product", productID).Debug("removing cart item")
	s.renderCartResult(log, w, s.cart.Remove(productID))
}

func (s *Server) emptyCartHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)
	log.Debug("emptying cart")
	s.cart.Clear()
	s.renderCart(log, w, http.StatusOK)
}

// renderCartResult maps a store result onto an HTTP response: the refreshed
// cart on success, a typed rejection otherwise.
func (s *Server) renderCartResult(log logrus.FieldLogger, w http.ResponseWriter, res cart.Result) {
	switch res {
	case cart.OK:
		s.renderCart(log, w, http.StatusOK)
	case cart.NotInCart:
		renderError(log, w, errors.New(res.String()), http.StatusNotFound)
	case cart.InvalidQuantity:
		renderError(log, w, errors.New(res.String()), http.StatusUnprocessableEntity)
	default: // OutOfStock, StockLimitReached
		renderError(log, w, errors.New(res.String()), http.StatusConflict)
	}
}

type checkoutRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country"`
	OriginURL string `json:"origin_url"`
}

type checkoutResponse struct {
	Order       *model.Order `json:"order"`
	CheckoutURL string       `json:"checkout_url"`
	SessionID   string       `json:"session_id"`
}

// checkoutHandler hands the cart off to the backend: create the order from
// the cart snapshot, open a payment session for it, then clear the cart.
// Inventory is re-validated server-side at order creation.
func (s *Server) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)

	if !s.auth.IsCustomer() {
		renderError(log, w, errors.New("login required to place an order"), http.StatusUnauthorized)
		return
	}

	var body checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderError(log, w, errors.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	payload := validator.CheckoutPayload{
		Name:      body.Name,
		Email:     body.Email,
		Phone:     body.Phone,
		Street:    body.Street,
		City:      body.City,
		State:     body.State,
		ZipCode:   body.ZipCode,
		Country:   body.Country,
		OriginURL: body.OriginURL,
	}
	if err := payload.Validate(); err != nil {
		renderError(log, w, validator.ValidationErrorResponse(err), http.StatusUnprocessableEntity)
		return
	}

	items := s.cart.Snapshot()
	if len(items) == 0 {
		renderError(log, w, errors.New("cart is empty"), http.StatusBadRequest)
		return
	}

	order, err := s.backend.CreateOrder(r.Context(), model.OrderCreate{
		Items: items,
		CustomerInfo: model.CustomerInfo{
			Name:  body.Name,
			Email: body.Email,
			Phone: body.Phone,
		},
		ShippingAddress: model.ShippingAddress{
			Street:  body.Street,
			City:    body.City,
			State:   body.State,
			ZipCode: body.ZipCode,
			Country: body.Country,
		},
	})
	if err != nil {
		renderError(log, w, errors.Wrap(err, "failed to create order"), http.StatusBadGateway)
		return
	}

	session, err := s.backend.CreateCheckoutSession(r.Context(), order.ID, body.OriginURL)
	if err != nil {
		// order exists but has no payment session; the cart is kept so the
		// customer can retry
		renderError(log, w, errors.Wrap(err, "failed to create checkout session"), http.StatusBadGateway)
		return
	}

	s.cart.Clear()
	log.WithField("order", order.ID).WithField("session", session.SessionID).Info("order placed")

	renderJSON(log, w, http.StatusOK, checkoutResponse{
		Order:       order,
		CheckoutURL: session.CheckoutURL,
		SessionID:   session.SessionID,
	})
}

func (s *Server) paymentStatusHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)
	sessionID := mux.Vars(r)["sessionID"]
	status, err := s.backend.GetPaymentStatus(r.Context(), sessionID)
	if err != nil {
		renderError(log, w, errors.Wrap(err, "failed to check payment status"), http.StatusBadGateway)
		return
	}
	renderJSON(log, w, http.StatusOK, status)
}

// paymentWaitHandler blocks until the checkout session reaches a terminal
// state or the polling budget runs out (202 with the last observed status).
func (s *Server) paymentWaitHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)
	sessionID := mux.Vars(r)["sessionID"]

	status, err := s.poller.Wait(r.Context(), sessionID)
	if errors.Is(err, payment.ErrNotCompleted) {
		renderJSON(log, w, http.StatusAccepted, status)
		return
	}
	if err != nil {
		renderError(log, w, errors.Wrap(err, "failed to poll payment status"), http.StatusBadGateway)
		return
	}
	renderJSON(log, w, http.StatusOK, status)
}
