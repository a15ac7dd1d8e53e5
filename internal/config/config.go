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

// Package config provides runtime configuration values for the gateway.
// BACKEND_ADDR is required and mapped separately in main; everything here
// has a default.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds configuration knobs for the gateway process.
type Config struct {
	ListenAddr      string
	Port            string
	StoragePath     string
	PollInterval    time.Duration
	PollMaxAttempts int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		ListenAddr:      getenv("LISTEN_ADDR", ""),
		Port:            getenv("PORT", "8080"),
		StoragePath:     getenv("STORAGE_PATH", filepath.Join(defaultStateDir(), "session.json")),
		PollInterval:    durenvs("PAYMENT_POLL_INTERVAL", 3),
		PollMaxAttempts: atoienv("PAYMENT_POLL_MAX_ATTEMPTS", 20),
	}
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "storefront")
	}
	return "."
}
