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

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.PollInterval != 3*time.Second {
		t.Fatalf("PollInterval = %v, want 3s", cfg.PollInterval)
	}
	if cfg.PollMaxAttempts != 20 {
		t.Fatalf("PollMaxAttempts = %d, want 20", cfg.PollMaxAttempts)
	}
	if cfg.StoragePath == "" {
		t.Fatal("StoragePath must have a default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PAYMENT_POLL_INTERVAL", "1")
	t.Setenv("PAYMENT_POLL_MAX_ATTEMPTS", "5")
	t.Setenv("STORAGE_PATH", "/tmp/session.json")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.PollInterval != time.Second {
		t.Fatalf("PollInterval = %v, want 1s", cfg.PollInterval)
	}
	if cfg.PollMaxAttempts != 5 {
		t.Fatalf("PollMaxAttempts = %d, want 5", cfg.PollMaxAttempts)
	}
	if cfg.StoragePath != "/tmp/session.json" {
		t.Fatalf("StoragePath = %q", cfg.StoragePath)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("PAYMENT_POLL_MAX_ATTEMPTS", "lots")
	cfg := Load()
	if cfg.PollMaxAttempts != 20 {
		t.Fatalf("PollMaxAttempts = %d, want default 20", cfg.PollMaxAttempts)
	}
}
