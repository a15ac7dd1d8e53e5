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

// Package backend is the typed REST client for the store backend. It only
// consumes the backend's documented surface; all business validation
// (inventory, payment state) stays server-side.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/FMSAccount/ecommerceapp/internal/model"
)

// Client calls the store backend at a fixed host:port address.
type Client struct {
	addr       string
	httpClient *http.Client
}

// New returns a client for the backend at addr ("host:port").
func New(addr string) *Client {
	return &Client{
		addr:       addr,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// do issues a JSON request against the backend API. A non-2xx response is
// turned into an error carrying the backend's "detail" message when present.
// token, in and out may be empty/nil.
func (c *Client) do(ctx context.Context, method, path, token string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("http://%s/api%s", c.addr, path), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend unavailable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(respBody, &detail) == nil && detail.Detail != "" {
			return fmt.Errorf("backend: %s %s: %s", method, path, detail.Detail)
		}
		return fmt.Errorf("backend: %s %s: status %d: %s", method, path, resp.StatusCode, respBody)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("backend: %s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}

// --- Product catalog ---

func (c *Client) GetProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/products", "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), "", nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) CreateProduct(ctx context.Context, token string, in model.ProductCreate) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodPost, "/products", token, in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, token, id string, in model.ProductUpdate) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), token, in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), token, nil, nil)
}

// --- Orders ---

func (c *Client) CreateOrder(ctx context.Context, in model.OrderCreate) (*model.Order, error) {
	var order model.Order
	if err := c.do(ctx, http.MethodPost, "/orders", "", in, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) GetOrders(ctx context.Context, token string) ([]model.Order, error) {
	var orders []model.Order
	if err := c.do(ctx, http.MethodGet, "/orders", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), "", nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, token, id, status string) error {
	in := map[string]string{"order_status": status}
	return c.do(ctx, http.MethodPut, "/orders/"+url.PathEscape(id)+"/status", token, in, nil)
}

// --- Payments ---

func (c *Client) CreateCheckoutSession(ctx context.Context, orderID, originURL string) (*model.CheckoutSession, error) {
	in := map[string]string{"order_id": orderID, "origin_url": originURL}
	var session model.CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/payments/checkout", "", in, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) GetPaymentStatus(ctx context.Context, sessionID string) (*model.PaymentStatus, error) {
	var status model.PaymentStatus
	if err := c.do(ctx, http.MethodGet, "/payments/status/"+url.PathEscape(sessionID), "", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// --- Customer auth (phone OTP) ---

func (c *Client) SendOTP(ctx context.Context, phone string) error {
	in := map[string]string{"phone": phone}
	return c.do(ctx, http.MethodPost, "/auth/send-otp", "", in, nil)
}

// VerifyOTP exchanges a delivered one-time code for an access token; this is
// the customer login call.
func (c *Client) VerifyOTP(ctx context.Context, phone, code string) (*model.CustomerLogin, error) {
	in := map[string]string{"phone": phone, "otp": code}
	var login model.CustomerLogin
	if err := c.do(ctx, http.MethodPost, "/auth/verify-otp", "", in, &login); err != nil {
		return nil, err
	}
	return &login, nil
}

func (c *Client) RegisterCustomer(ctx context.Context, name, phone, code string) (*model.CustomerLogin, error) {
	in := map[string]string{"name": name, "phone": phone, "otp": code}
	var login model.CustomerLogin
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", in, &login); err != nil {
		return nil, err
	}
	return &login, nil
}

// --- Admin auth ---

func (c *Client) RegisterAdmin(ctx context.Context, username, password, fullName string) error {
	in := map[string]string{"username": username, "password": password, "full_name": fullName}
	return c.do(ctx, http.MethodPost, "/auth/admin/register", "", in, nil)
}

func (c *Client) LoginAdmin(ctx context.Context, username, password string) (*model.AdminLogin, error) {
	in := map[string]string{"username": username, "password": password}
	var login model.AdminLogin
	if err := c.do(ctx, http.MethodPost, "/auth/admin/login", "", in, &login); err != nil {
		return nil, err
	}
	return &login, nil
}

// --- Admin dashboard ---

func (c *Client) GetDashboard(ctx context.Context, token string) (*model.Dashboard, error) {
	var dashboard model.Dashboard
	if err := c.do(ctx, http.MethodGet, "/admin/dashboard", token, nil, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}
