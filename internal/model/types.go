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

// Package model defines the wire types shared between the gateway and the
// store backend.
package model

// Product represents a product in the catalog. Inventory is the available
// count at the time the record was fetched; the backend re-validates it at
// order creation.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageBase64 string  `json:"image_base64"`
	Inventory   int     `json:"inventory"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

// ProductCreate is the payload for creating a product (admin only).
type ProductCreate struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageBase64 string  `json:"image_base64"`
	Inventory   int     `json:"inventory"`
}

// ProductUpdate carries the fields to change on an existing product; nil
// fields are left untouched by the backend.
type ProductUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	ImageBase64 *string  `json:"image_base64,omitempty"`
	Inventory   *int     `json:"inventory,omitempty"`
}

// CartItem is the product/quantity pair sent to the backend at order
// creation.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CustomerInfo identifies the customer placing an order.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ShippingAddress is the delivery address attached to an order.
type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// OrderItem is a priced line item inside a created order.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
}

// OrderCreate is the payload for creating an order from a cart snapshot.
type OrderCreate struct {
	Items           []CartItem      `json:"items"`
	CustomerInfo    CustomerInfo    `json:"customer_info"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
}

// Order represents an order record as returned by the backend.
type Order struct {
	ID              string          `json:"id"`
	Items           []OrderItem     `json:"items"`
	CustomerInfo    CustomerInfo    `json:"customer_info"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	TotalAmount     float64         `json:"total_amount"`
	PaymentStatus   string          `json:"payment_status"`
	OrderStatus     string          `json:"order_status"`
	StripeSessionID string          `json:"stripe_session_id,omitempty"`
	CreatedAt       string          `json:"created_at,omitempty"`
}

// CheckoutSession is the payment provider handle returned when a checkout
// session is created for an order.
type CheckoutSession struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}

// PaymentStatus is the provider-side state of a checkout session.
type PaymentStatus struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
}

// User is a customer identity established through the phone OTP flow.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Admin is a store owner identity.
type Admin struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// CustomerLogin is the backend response to a successful OTP verification or
// customer registration.
type CustomerLogin struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// AdminLogin is the backend response to a successful admin login or
// registration.
type AdminLogin struct {
	AccessToken string `json:"access_token"`
	Admin       Admin  `json:"admin"`
}

// Dashboard is the admin dashboard aggregate.
type Dashboard struct {
	ProductsCount int     `json:"products_count"`
	OrdersCount   int     `json:"orders_count"`
	PendingOrders int     `json:"pending_orders"`
	TotalRevenue  float64 `json:"total_revenue"`
	RecentOrders  []Order `json:"recent_orders"`
}
