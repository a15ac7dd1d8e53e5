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

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"cloud.google.com/go/profiler"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/FMSAccount/ecommerceapp/internal/auth"
	"github.com/FMSAccount/ecommerceapp/internal/backend"
	"github.com/FMSAccount/ecommerceapp/internal/cart"
	"github.com/FMSAccount/ecommerceapp/internal/config"
	"github.com/FMSAccount/ecommerceapp/internal/frontend"
	"github.com/FMSAccount/ecommerceapp/internal/kvstore"
	"github.com/FMSAccount/ecommerceapp/internal/payment"
)

func main() {
	ctx := context.Background()
	log := logrus.New()
	log.Level = logrus.DebugLevel
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	log.Out = os.Stdout

	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, propagation.Baggage{}))

	if os.Getenv("ENABLE_TRACING") == "1" {
		log.Info("Tracing enabled.")
		initTracing(log, ctx)
	} else {
		log.Info("Tracing disabled.")
	}

	if os.Getenv("ENABLE_PROFILER") == "1" {
		log.Info("Profiling enabled.")
		go initProfiling(log, "storefront", "1.0.0")
	} else {
		log.Info("Profiling disabled.")
	}

	cfg := config.Load()

	var backendAddr string
	mustMapEnv(&backendAddr, "BACKEND_ADDR")

	storage := kvstore.NewFile(cfg.StoragePath)
	authStore := auth.New(storage, log)
	if err := authStore.Load(ctx); err != nil {
		log.WithField("error", err).Warn("could not restore session, starting anonymous")
	}

	client := backend.New(backendAddr)
	poller := payment.NewPoller(client, cfg.PollInterval, cfg.PollMaxAttempts, log)
	svc := frontend.New(client, cart.New(), authStore, poller)

	var handler http.Handler = svc.Routes()
	handler = frontend.NewLogHandler(log, handler)       // add logging
	handler = frontend.EnsureDeviceID(handler)           // add device ID
	handler = otelhttp.NewHandler(handler, "storefront") // add OTel tracing

	log.Infof("starting server on %s:%s", cfg.ListenAddr, cfg.Port)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr+":"+cfg.Port, handler))
}

func initTracing(log logrus.FieldLogger, ctx context.Context) (*sdktrace.TracerProvider, error) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()))
	otel.SetTracerProvider(tp)
	log.Info("Tracing provider initialized (no exporter configured)")
	return tp, nil
}

func initProfiling(log logrus.FieldLogger, service, version string) {
	for i := 1; i <= 3; i++ {
		log = log.WithField("retry", i)
		if err := profiler.Start(profiler.Config{
			Service:        service,
			ServiceVersion: version,
			// ProjectID must be set if not running on GCP.
			// ProjectID: "my-project",
		}); err != nil {
			log.Warnf("warn: failed to start profiler: %+v", err)
		} else {
			log.Info("started Stackdriver profiler")
			return
		}
		d := time.Second * 10 * time.Duration(i)
		log.Debugf("sleeping %v to retry initializing Stackdriver profiler", d)
		time.Sleep(d)
	}
	log.Warn("warning: could not initialize Stackdriver profiler after retrying, giving up")
}

func mustMapEnv(target *string, envKey string) {
	v := os.Getenv(envKey)
	if v == "" {
		panic(fmt.Sprintf("environment variable %q not set", envKey))
	}
	*target = v
}
