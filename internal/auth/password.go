// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrWeakPassword wraps every password policy failure.
var ErrWeakPassword = errors.New("weak password")

// bcrypt ignores input past 72 bytes.
const maxPasswordBytes = 72

// HashPassword returns the bcrypt hash of password at the default cost.
func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", fmt.Errorf("%w: longer than %d bytes", ErrWeakPassword, maxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// PasswordPolicy holds the registration rules for new passwords.
type PasswordPolicy struct {
	MinLength int

	// ForbidCommonPasswords blocks well-known breached passwords.
	ForbidCommonPasswords bool

	// ForbidUsernameSimilarity rejects passwords containing the username,
	// its reverse, or its common character substitutions.
	ForbidUsernameSimilarity bool
}

// DefaultPasswordPolicy returns the policy applied at registration.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:                8,
		ForbidCommonPasswords:    true,
		ForbidUsernameSimilarity: true,
	}
}

// Validate returns nil when password is acceptable for username, or an
// error wrapping ErrWeakPassword listing every failed rule.
func (p PasswordPolicy) Validate(password, username string) error {
	var problems []string

	if len(password) < p.MinLength {
		problems = append(problems, fmt.Sprintf("must be at least %d characters", p.MinLength))
	}
	if len(password) > maxPasswordBytes {
		problems = append(problems, fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}
	if p.ForbidCommonPasswords && isCommonPassword(password) {
		problems = append(problems, "is too common")
	}
	if p.ForbidUsernameSimilarity && username != "" && isSimilarToUsername(password, username) {
		problems = append(problems, "is too similar to the username")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: password %s", ErrWeakPassword, strings.Join(problems, "; "))
	}
	return nil
}

var commonPasswords = map[string]bool{
	"123456":      true,
	"password":    true,
	"123456789":   true,
	"12345678":    true,
	"1234567890":  true,
	"qwerty123":   true,
	"password1":   true,
	"password123": true,
	"iloveyou":    true,
	"letmein1":    true,
	"welcome1":    true,
	"sunshine":    true,
	"football":    true,
	"baseball":    true,
	"trustno1":    true,
	"campsite":    true,
	"camping1":    true,
	"outdoors":    true,
}

func isCommonPassword(password string) bool {
	return commonPasswords[strings.ToLower(password)]
}

func isSimilarToUsername(password, username string) bool {
	lowerPass := strings.ToLower(password)
	lowerUser := strings.ToLower(username)

	if strings.Contains(lowerPass, lowerUser) {
		return true
	}

	runes := []rune(lowerUser)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	if strings.Contains(lowerPass, string(runes)) {
		return true
	}

	substitutions := map[rune]rune{
		'a': '@', 'e': '3', 'i': '1', 'o': '0', 's': '$', 't': '7',
	}
	substituted := strings.Map(func(r rune) rune {
		if sub, ok := substitutions[r]; ok {
			return sub
		}
		return r
	}, lowerUser)
	return strings.Contains(lowerPass, substituted)
}
