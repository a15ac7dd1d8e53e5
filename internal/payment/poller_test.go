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

package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/FMSAccount/ecommerceapp/internal/model"
)

type scriptedClient struct {
	statuses []model.PaymentStatus
	errs     []error
	calls    int
}

func (s *scriptedClient) GetPaymentStatus(ctx context.Context, sessionID string) (*model.PaymentStatus, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i >= len(s.statuses) {
		i = len(s.statuses) - 1
	}
	st := s.statuses[i]
	return &st, nil
}

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestWaitUntilPaid(t *testing.T) {
	client := &scriptedClient{statuses: []model.PaymentStatus{
		{Status: "open", PaymentStatus: "pending"},
		{Status: "open", PaymentStatus: "pending"},
		{Status: "complete", PaymentStatus: "paid", AmountTotal: 1998, Currency: "usd"},
	}}
	p := NewPoller(client, time.Millisecond, 10, testLogger())

	st, err := p.Wait(context.Background(), "cs_123")
	if err != nil {
		t.Fatal(err)
	}
	if st.PaymentStatus != "paid" || st.AmountTotal != 1998 {
		t.Fatalf("status = %+v", st)
	}
	if client.calls != 3 {
		t.Fatalf("calls = %d, want 3", client.calls)
	}
}

func TestWaitExpiredSessionIsTerminal(t *testing.T) {
	client := &scriptedClient{statuses: []model.PaymentStatus{
		{Status: "expired", PaymentStatus: "unpaid"},
	}}
	p := NewPoller(client, time.Millisecond, 10, testLogger())

	st, err := p.Wait(context.Background(), "cs_123")
	if err != nil {
		t.Fatal(err)
	}
	if st.Status != "expired" {
		t.Fatalf("status = %+v", st)
	}
}

func TestWaitAttemptBudgetExhausted(t *testing.T) {
	client := &scriptedClient{statuses: []model.PaymentStatus{
		{Status: "open", PaymentStatus: "pending"},
	}}
	p := NewPoller(client, time.Millisecond, 3, testLogger())

	st, err := p.Wait(context.Background(), "cs_123")
	if !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("err = %v, want ErrNotCompleted", err)
	}
	if st == nil || st.PaymentStatus != "pending" {
		t.Fatalf("last status = %+v, want pending", st)
	}
	if client.calls != 3 {
		t.Fatalf("calls = %d, want 3", client.calls)
	}
}

func TestWaitTransientErrorRetried(t *testing.T) {
	client := &scriptedClient{
		statuses: []model.PaymentStatus{
			{Status: "complete", PaymentStatus: "paid"},
		},
		errs: []error{errors.New("connection refused")},
	}
	p := NewPoller(client, time.Millisecond, 5, testLogger())

	st, err := p.Wait(context.Background(), "cs_123")
	if err != nil {
		t.Fatal(err)
	}
	if st.PaymentStatus != "paid" {
		t.Fatalf("status = %+v", st)
	}
}

func TestWaitHonorsContext(t *testing.T) {
	client := &scriptedClient{statuses: []model.PaymentStatus{
		{Status: "open", PaymentStatus: "pending"},
	}}
	p := NewPoller(client, time.Hour, 10, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	if _, err := p.Wait(ctx, "cs_123"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
