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

// Package payment polls the payment provider's checkout session state
// through the backend. The provider owns the session lifecycle; this is a
// fixed-interval read-only poll, not a protocol.
package payment

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/FMSAccount/ecommerceapp/internal/model"
)

// ErrNotCompleted is returned when the session did not reach a terminal
// state within the attempt budget. Callers resubmit by user action ("Check
// Again"), never automatically.
var ErrNotCompleted = errors.New("payment: not completed within polling budget")

// StatusClient reads a checkout session's state by session ID.
type StatusClient interface {
	GetPaymentStatus(ctx context.Context, sessionID string) (*model.PaymentStatus, error)
}

// Poller waits for a checkout session to reach a terminal state.
type Poller struct {
	client      StatusClient
	interval    time.Duration
	maxAttempts int
	log         logrus.FieldLogger
}

// NewPoller returns a poller checking every interval, up to maxAttempts
// times.
func NewPoller(client StatusClient, interval time.Duration, maxAttempts int, log logrus.FieldLogger) *Poller {
	return &Poller{client: client, interval: interval, maxAttempts: maxAttempts, log: log}
}

// Terminal reports whether st needs no further polling: the payment settled
// or failed, or the provider expired the session.
func Terminal(st *model.PaymentStatus) bool {
	return st.PaymentStatus == "paid" || st.PaymentStatus == "failed" || st.Status == "expired"
}

// Wait polls the session until it is terminal, the attempt budget runs out
// (ErrNotCompleted, with the last observed status attached), or ctx is
// cancelled. Transient fetch errors consume an attempt and are retried.
func (p *Poller) Wait(ctx context.Context, sessionID string) (*model.PaymentStatus, error) {
	var last *model.PaymentStatus
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		st, err := p.client.GetPaymentStatus(ctx, sessionID)
		if err != nil {
			if ctx.Err() != nil {
				return last, ctx.Err()
			}
			p.log.WithError(err).WithField("attempt", attempt).Warn("payment status check failed")
		} else {
			last = st
			if Terminal(st) {
				return st, nil
			}
			p.log.WithFields(logrus.Fields{
				"session": sessionID,
				"status":  st.PaymentStatus,
				"attempt": attempt,
			}).Debug("payment still pending")
		}

		if attempt == p.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-time.After(p.interval):
		}
	}
	return last, ErrNotCompleted
}
