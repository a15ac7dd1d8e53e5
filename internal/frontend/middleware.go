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
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	cookiePrefix   = "shop_"
	cookieDeviceID = cookiePrefix + "device-id"
	cookieMaxAge   = 60 * 60 * 48
)

type ctxKeyLog struct{}
type ctxKeyRequestID struct{}
type ctxKeyDeviceID struct{}

type logHandler struct {
	log  *logrus.Logger
	next http.Handler
}

type responseRecorder struct {
	b      int
	status int
	w      http.ResponseWriter
}

func (r *responseRecorder) Header() http.Header { return r.w.Header() }

func (r *responseRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.w.Write(p)
	r.b += n
	return n, err
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
	r.w.WriteHeader(statusCode)
}

func (lh *logHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID, _ := uuid.NewRandom()
	ctx := context.WithValue(r.Context(), ctxKeyRequestID{}, requestID.String())

	start := time.Now()
	rr := &responseRecorder{w: w}
	log := lh.log.WithFields(logrus.Fields{
		"http.req.path":   r.URL.Path,
		"http.req.method": r.Method,
		"http.req.id":     requestID.String(),
	})
	log.Debug("request started")
	defer func() {
		log.WithFields(logrus.Fields{
			"http.resp.took_ms": int64(time.Since(start) / time.Millisecond),
			"http.resp.status":  rr.status,
			"http.resp.bytes":   rr.b,
		}).Debugf("request complete")
	}()
	ctx = context.WithValue(ctx, ctxKeyLog{}, logrus.FieldLogger(log))
	r = r.WithContext(ctx)
	lh.next.ServeHTTP(rr, r)
}

// NewLogHandler attaches a per-request logger (with a request ID) to the
// context and logs request completion.
func NewLogHandler(log *logrus.Logger, next http.Handler) http.Handler {
	return &logHandler{log: log, next: next}
}

// EnsureDeviceID issues a stable device identifier cookie so anonymous
// interactions can be correlated across requests.
func EnsureDeviceID(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var deviceID string
		c, err := r.Cookie(cookieDeviceID)
		if err == http.ErrNoCookie {
			u, _ := uuid.NewRandom()
			deviceID = u.String()
			http.SetCookie(w, &http.Cookie{
				Name:   cookieDeviceID,
				Value:  deviceID,
				MaxAge: cookieMaxAge,
			})
		} else if err != nil {
			return
		} else {
			deviceID = c.Value
		}
		ctx := context.WithValue(r.Context(), ctxKeyDeviceID{}, deviceID)
		r = r.WithContext(ctx)
		next.ServeHTTP(w, r)
	}
}

func logFrom(r *http.Request) logrus.FieldLogger {
	if v := r.Context().Value(ctxKeyLog{}); v != nil {
		return v.(logrus.FieldLogger)
	}
	return logrus.StandardLogger()
}

func deviceID(r *http.Request) string {
	if v := r.Context().Value(ctxKeyDeviceID{}); v != nil {
		return v.(string)
	}
	return ""
}
