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

// Package validator validates request payloads before any backend call is
// made.
package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// AddToCartPayload is the payload for adding a product to the cart.
type AddToCartPayload struct {
	ProductID string `validate:"required"`
}

func (p AddToCartPayload) Validate() error { return validate.Struct(p) }

// UpdateQuantityPayload sets a cart line's quantity; zero removes the line.
type UpdateQuantityPayload struct {
	ProductID string `validate:"required"`
	Quantity  int    `validate:"gte=0"`
}

func (p UpdateQuantityPayload) Validate() error { return validate.Struct(p) }

// SendOTPPayload requests a one-time code for a phone number.
type SendOTPPayload struct {
	Phone string `validate:"required,e164"`
}

func (p SendOTPPayload) Validate() error { return validate.Struct(p) }

// VerifyOTPPayload exchanges a delivered code for a customer session.
type VerifyOTPPayload struct {
	Phone string `validate:"required,e164"`
	Code  string `validate:"required,numeric,len=6"`
}

func (p VerifyOTPPayload) Validate() error { return validate.Struct(p) }

// RegisterCustomerPayload creates a customer account from a verified phone.
type RegisterCustomerPayload struct {
	Name  string `validate:"required"`
	Phone string `validate:"required,e164"`
	Code  string `validate:"required,numeric,len=6"`
}

func (p RegisterCustomerPayload) Validate() error { return validate.Struct(p) }

// AdminLoginPayload carries store owner credentials.
type AdminLoginPayload struct {
	Username string `validate:"required"`
	Password string `validate:"required,min=6"`
}

func (p AdminLoginPayload) Validate() error { return validate.Struct(p) }

// AdminRegisterPayload creates a store owner account.
type AdminRegisterPayload struct {
	Username string `validate:"required,alphanum"`
	Password string `validate:"required,min=6"`
	FullName string `validate:"required"`
}

func (p AdminRegisterPayload) Validate() error { return validate.Struct(p) }

// CheckoutPayload is the customer info, shipping address and payment return
// URL submitted at checkout.
type CheckoutPayload struct {
	Name      string `validate:"required"`
	Email     string `validate:"required,email"`
	Phone     string `validate:"required,e164"`
	Street    string `validate:"required"`
	City      string `validate:"required"`
	State     string `validate:"required"`
	ZipCode   string `validate:"required"`
	Country   string `validate:"required"`
	OriginURL string `validate:"required,url"`
}

func (p CheckoutPayload) Validate() error { return validate.Struct(p) }

// ValidationErrorResponse flattens a validator error into a single
// user-facing message listing each failing field.
func ValidationErrorResponse(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("field %s failed validation (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid request: %s", strings.Join(msgs, "; "))
}
