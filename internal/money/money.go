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

// Package money provides exact currency arithmetic. Amounts are stored as
// whole units plus nano-units so that cart totals never accumulate binary
// floating point error, even though the backend transports prices as JSON
// numbers.
package money

import (
	"errors"
	"fmt"
	"math"
)

const (
	nanosMin = -999999999
	nanosMax = +999999999
	nanosMod = 1000000000
)

var (
	ErrInvalidValue        = errors.New("one of the specified money values is invalid")
	ErrMismatchingCurrency = errors.New("mismatching currency codes")
)

// Money represents an amount of money along with its currency code.
type Money struct {
	// CurrencyCode is the three-letter currency code defined in ISO 4217.
	CurrencyCode string `json:"currency_code"`

	// Units is the whole units of the amount. For example if CurrencyCode
	// is "USD", then 1 unit is one US dollar.
	Units int64 `json:"units"`

	// Nanos is the number of nano units of the amount. The value must be
	// between -999,999,999 and +999,999,999 inclusive. If Units is
	// positive, Nanos must be positive or zero; if Units is negative,
	// Nanos must be negative or zero.
	Nanos int32 `json:"nanos"`
}

// IsValid checks if specified value has a valid units/nanos signs and ranges.
func IsValid(m Money) bool {
	return signMatches(m) && validNanos(m.Nanos)
}

func signMatches(m Money) bool {
	return m.Nanos == 0 || m.Units == 0 || (m.Nanos < 0) == (m.Units < 0)
}

func validNanos(nanos int32) bool { return nanosMin <= nanos && nanos <= nanosMax }

// IsZero returns true if the specified money value is equal to zero.
func IsZero(m Money) bool { return m.Units == 0 && m.Nanos == 0 }

// IsPositive returns true if the specified money value is valid and is
// positive.
func IsPositive(m Money) bool {
	return IsValid(m) && m.Units > 0 || (m.Units == 0 && m.Nanos > 0)
}

// AreSameCurrency returns true if values l and r have a currency code and
// they are the same values.
func AreSameCurrency(l, r Money) bool {
	return l.CurrencyCode == r.CurrencyCode && l.CurrencyCode != ""
}

// AreEquals returns true if values l and r are the equal, including the
// currency. This does not check validity of the provided values.
func AreEquals(l, r Money) bool {
	return l.CurrencyCode == r.CurrencyCode &&
		l.Units == r.Units && l.Nanos == r.Nanos
}

// Must panics if the given error is not nil. This can be used with other
// functions like: "m := Must(Sum(a,b))".
func Must(v Money, err error) Money {
	if err != nil {
		panic(err)
	}
	return v
}

// Sum combines two values. Returns an error if one of the values are
// invalid or currency codes are not matching (unless currency code is
// unspecified for both).
func Sum(l, r Money) (Money, error) {
	if !IsValid(l) || !IsValid(r) {
		return Money{}, ErrInvalidValue
	}
	if l.CurrencyCode != r.CurrencyCode {
		return Money{}, ErrMismatchingCurrency
	}
	units := l.Units + r.Units
	nanos := l.Nanos + r.Nanos

	if (units == 0 && nanos == 0) || (units > 0 && nanos >= 0) || (units < 0 && nanos <= 0) {
		// same sign <units, nanos>
		units += int64(nanos / nanosMod)
		nanos = nanos % nanosMod
	} else {
		// different sign. nanos guaranteed to not to go over the limit
		if units > 0 {
			units--
			nanos += nanosMod
		} else {
			units++
			nanos -= nanosMod
		}
	}

	return Money{
		CurrencyCode: l.CurrencyCode,
		Units:        units,
		Nanos:        nanos}, nil
}

// MultiplySlow is a slow multiplication operation done through adding the
// value to itself n-1 times.
func MultiplySlow(m Money, n uint32) Money {
	out := m
	for n > 1 {
		out = Must(Sum(out, m))
		n--
	}
	return out
}

// FromFloat converts a decimal amount as transported by the backend (e.g. a
// product price of 9.99) into an exact Money value, rounding to the nearest
// nano unit.
func FromFloat(currencyCode string, amount float64) Money {
	neg := amount < 0
	abs := math.Abs(amount)
	units := int64(abs)
	nanos := int64(math.Round((abs - float64(units)) * nanosMod))
	if nanos >= nanosMod {
		units += nanos / nanosMod
		nanos = nanos % nanosMod
	}
	if neg {
		units, nanos = -units, -nanos
	}
	return Money{CurrencyCode: currencyCode, Units: units, Nanos: int32(nanos)}
}

// Float converts m back to a decimal amount. Only for display and wire
// compatibility; arithmetic must stay on Money values.
func (m Money) Float() float64 {
	return float64(m.Units) + float64(m.Nanos)/nanosMod
}

// String formats m as "$9.99"-style text using a fixed two decimal places.
func (m Money) String() string {
	return fmt.Sprintf("%s %d.%02d", m.CurrencyCode, m.Units, abs32(m.Nanos)/10000000)
}

func abs32(n int32) int32 {
	if n < 0 {
		return -n
	}
	return n
}
