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

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/FMSAccount/ecommerceapp/internal/auth"
	"github.com/FMSAccount/ecommerceapp/internal/validator"
)

// sendOTPHandler asks the backend to deliver a one-time code to the given
// phone number (POST /api/auth/otp/send).
func (s *Server) sendOTPHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)
	var body struct {
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderError(log, w, errors.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	if err := (validator.SendOTPPayload{Phone: body.Phone}).Validate(); err != nil {
		renderError(log, w, validator.ValidationErrorResponse(err), http.StatusUnprocessableEntity)
		return
	}
	if err := s.backend.SendOTP(r.Context(), body.Phone); err != nil {
		renderError(log, w, errors.Wrap(err, "failed to send OTP"), http.StatusBadGateway)
		return
	}
	log.WithField("phone", body.Phone).Info("OTP requested")
	renderJSON(log, w, http.StatusOK, map[string]string{"message": "OTP sent"})
}

// verifyOTPHandler exchanges a delivered code for a customer session
// (POST /api/auth/otp/verify). This is the customer login.
func (s *Server) verifyOTPHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)
	var body struct {
		Phone string `json:"phone"`
		Code  string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderError(log, w, errors.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	if err := (validator.VerifyOTPPayload{Phone: body.Phone, Code: body.Code}).Validate(); err != nil {
		renderError(log, w, validator.ValidationErrorResponse(err), http.StatusUnprocessableEntity)
		return
	}

	login, err := s.backend.VerifyOTP(r.Context(), body.Phone, body.Code)
	if err != nil {
		log.WithField("error", err).Warn("OTP verification failed")
		renderError(log, w, err, http.StatusUnauthorized)
		return
	}
	if err := s.auth.LoginUser(r.Context(), login.AccessToken, login.User); err != nil {
		renderError(log, w, errors.Wrap(err, "failed to establish session"), http.StatusInternalServerError)
		return
	}
	log.WithField("user", login.User.ID).Info("customer logged in")
	s.renderSession(log, w)
}

// registerCustomerHandler creates a customer account from a verified phone
// and logs it in (POST /api/auth/register).
func (s *Server) registerCustomerHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)
	var body struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Code  string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderError(log, w, errors.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	if err := (validator.RegisterCustomerPayload{Name: body.Name, Phone: body.Phone, Code: body.Code}).Validate(); err != nil {
		renderError(log, w, validator.ValidationErrorResponse(err), http.StatusUnprocessableEntity)
		return
	}

	login, err := s.backend.RegisterCustomer(r.Context(), body.Name, body.Phone, body.Code)
	if err != nil {
		log.WithField("error", err).Warn("registration failed")
		renderError(log, w, err, http.StatusBadRequest)
		return
	}
	if err := s.auth.LoginUser(r.Context(), login.AccessToken, login.User); err != nil {
		renderError(log, w, errors.Wrap(err, "failed to establish session"), http.StatusInternalServerError)
		return
	}
	log.WithField("user", login.User.ID).Info("customer registered")
	s.renderSession(log, w)
}

// logoutHandler clears the session regardless of prior role
// (POST /api/auth/logout).
func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r)
	if err := s.auth.Logout(r.Context()); err != nil {
		renderError(log, w, errors.Wrap(err, "failed to log out"), http.StatusInternalServerError)
		return
	}
	log.Info("logged out")
	s.renderSession(log, w)
}

// sessionHandler reports the current session and role predicates
// (GET /api/auth/session).
func (s *Server) sessionHandler(w http.ResponseWriter, r *http.Request) {
	s.renderSession(logFrom(r), w)
}

type sessionView struct {
	Role       auth.Role   `json:"role,omitempty"`
	IsCustomer bool        `json:"is_customer"`
	IsAdmin    bool        `json:"is_admin"`
	User       interface{} `json:"user,omitempty"`
	Admin      interface{} `json:"admin,omitempty"`
}

func (s *Server) renderSession(log logrus.FieldLogger, w http.ResponseWriter) {
	sess := s.auth.Session()
	view := sessionView{
		Role:       sess.Role,
		IsCustomer: s.auth.IsCustomer(),
		IsAdmin:    s.auth.IsAdmin(),
	}
	if sess.User != nil {
		view.User = sess.User
	}
	if sess.Admin != nil {
		view.Admin = sess.Admin
	}
	renderJSON(log, w, http.StatusOK, view)
}
