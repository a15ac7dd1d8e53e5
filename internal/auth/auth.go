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

// Package auth holds the current session: exactly one of anonymous, customer
// or admin. The in-memory session is mirrored to durable storage on every
// transition so it survives process restarts; storage is a passive mirror
// that Load reconciles at startup.
package auth

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/FMSAccount/ecommerceapp/internal/model"
)

// Role tags the kind of identity held by a session.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Durable key layout: four string keys written and cleared as a unit.
const (
	keyToken = "auth_token"
	keyUser  = "auth_user"
	keyAdmin = "auth_admin"
	keyRole  = "auth_role"
)

// ErrSuperseded is returned when a later session transition completed before
// this one's durable write; the stale write's effect is discarded.
var ErrSuperseded = errors.New("auth: transition superseded")

// Storage is the durable mirror for session state. WriteAll replaces the
// whole key set atomically; Clear removes every key.
type Storage interface {
	ReadAll(ctx context.Context) (map[string]string, error)
	WriteAll(ctx context.Context, kv map[string]string) error
	Clear(ctx context.Context) error
}

// Session is the currently authenticated identity. The zero value is
// anonymous: no role, no token, and both identity pointers nil. User and
// Admin are never populated simultaneously.
type Session struct {
	Role  Role
	Token string
	User  *model.User
	Admin *model.Admin
}

// Store owns the in-memory session and keeps durable storage in sync.
// Construct one per application lifecycle and pass it to consumers.
type Store struct {
	storage Storage
	log     logrus.FieldLogger

	mu      sync.Mutex
	seq     uint64
	session Session
	// mirror is the key set last applied to durable storage, nil when
	// storage is clear. Used to repair storage after a superseded write.
	mirror map[string]string
}

// New returns a store in the anonymous state. Call Load before trusting the
// role predicates.
func New(storage Storage, log logrus.FieldLogger) *Store {
	return &Store{storage: storage, log: log}
}

// LoginUser persists the customer identity and, once the durable write
// succeeds, transitions the in-memory session to Customer. Any admin
// identity is cleared. On write failure the in-memory state is left
// unchanged so memory and storage cannot diverge.
func (s *Store) LoginUser(ctx context.Context, token string, user model.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "marshal user")
	}
	return s.transition(ctx, Session{Role: RoleCustomer, Token: token, User: &user}, map[string]string{
		keyToken: token,
		keyUser:  string(payload),
		keyRole:  string(RoleCustomer),
	})
}

// LoginAdmin is the admin counterpart of LoginUser; any customer identity is
// cleared.
func (s *Store) LoginAdmin(ctx context.Context, token string, admin model.Admin) error {
	payload, err := json.Marshal(admin)
	if err != nil {
		return errors.Wrap(err, "marshal admin")
	}
	return s.transition(ctx, Session{Role: RoleAdmin, Token: token, Admin: &admin}, map[string]string{
		keyToken: token,
		keyAdmin: string(payload),
		keyRole:  string(RoleAdmin),
	})
}

// Logout removes all persisted keys and transitions to anonymous regardless
// of the prior role.
func (s *Store) Logout(ctx context.Context) error {
	return s.transition(ctx, Session{}, nil)
}

// transition allocates a sequence number, performs the durable write (a nil
// key set clears storage), then applies next in memory unless a later
// transition already won the race or the write failed. A superseded write
// may have left its keys in storage; the winner's key set is rewritten so
// the mirror cannot drift from memory.
func (s *Store) transition(ctx context.Context, next Session, kv map[string]string) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	err := s.writeMirror(ctx, kv)

	s.mu.Lock()
	if seq != s.seq {
		repair := s.mirror
		s.mu.Unlock()
		s.log.WithField("seq", seq).Warn("discarding superseded session transition")
		if rerr := s.writeMirror(ctx, repair); rerr != nil {
			s.log.WithError(rerr).Error("failed to repair session storage after superseded write")
		}
		return ErrSuperseded
	}
	defer s.mu.Unlock()
	if err != nil {
		s.log.WithError(err).Error("session persistence failed, state unchanged")
		return errors.Wrap(err, "persist session")
	}
	s.session = next
	s.mirror = kv
	return nil
}

func (s *Store) writeMirror(ctx context.Context, kv map[string]string) error {
	if kv == nil {
		return s.storage.Clear(ctx)
	}
	return s.storage.WriteAll(ctx, kv)
}

// Load restores the session from durable storage. It is the sole startup
// synchronization point: run it to completion before trusting the role
// predicates. Missing or unparsable keys leave the store anonymous.
func (s *Store) Load(ctx context.Context) error {
	kv, err := s.storage.ReadAll(ctx)
	if err != nil {
		return errors.Wrap(err, "read stored session")
	}

	token, role := kv[keyToken], Role(kv[keyRole])
	restored := Session{}
	switch {
	case token == "":
		// stays anonymous
	case role == RoleCustomer:
		var user model.User
		if err := json.Unmarshal([]byte(kv[keyUser]), &user); err != nil {
			s.log.WithError(err).Warn("stored user record unparsable, staying anonymous")
			break
		}
		restored = Session{Role: RoleCustomer, Token: token, User: &user}
	case role == RoleAdmin:
		var admin model.Admin
		if err := json.Unmarshal([]byte(kv[keyAdmin]), &admin); err != nil {
			s.log.WithError(err).Warn("stored admin record unparsable, staying anonymous")
			break
		}
		restored = Session{Role: RoleAdmin, Token: token, Admin: &admin}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = restored
	if restored.Role == "" {
		s.mirror = nil
	} else {
		s.mirror = kv
	}
	return nil
}

// Session returns a copy of the current session.
func (s *Store) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Token returns the current access token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Token
}

// IsCustomer reports whether a customer session with a token is present.
// Token expiry is enforced by the backend on each authenticated call.
func (s *Store) IsCustomer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Role == RoleCustomer && s.session.Token != "" && s.session.User != nil
}

// IsAdmin reports whether an admin session with a token is present.
func (s *Store) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Role == RoleAdmin && s.session.Token != "" && s.session.Admin != nil
}
