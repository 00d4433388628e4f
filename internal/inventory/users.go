/*
 * Users - user list and registration.
 *
 * Copyright 2026 Marco Confalonieri.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package inventory

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
)

// ErrInvalidUser is returned when a registration fails validation.
var ErrInvalidUser = errors.New("invalid user")

// User is a console user.
type User struct {
	Name  string `json:"nome"`
	Email string `json:"email"`
}

// String returns the user as shown in the user list.
func (u User) String() string {
	return fmt.Sprintf("%s — %s", u.Name, u.Email)
}

// ListUsers returns the registered users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	users := []User{}
	if err := s.accounts.GetJSON(ctx, usersEndpoint, nil, &users); err != nil {
		return nil, fmt.Errorf("cannot list users: %w", err)
	}
	return users, nil
}

// RegisterUser registers a new user through the multipart registration form
// and returns the confirmation message of the backend.
func (s *Service) RegisterUser(ctx context.Context, user User) (string, error) {
	user.Name = strings.TrimSpace(user.Name)
	user.Email = strings.TrimSpace(user.Email)
	if user.Name == "" {
		return "", fmt.Errorf("%w: nome is required", ErrInvalidUser)
	}
	if _, err := mail.ParseAddress(user.Email); err != nil {
		return "", fmt.Errorf("%w: invalid email %q", ErrInvalidUser, user.Email)
	}

	fields := url.Values{
		"nome":  {user.Name},
		"email": {user.Email},
	}
	var result struct {
		Message string `json:"message"`
	}
	if err := s.accounts.PostForm(ctx, registerEndpoint, fields, &result); err != nil {
		return "", fmt.Errorf("cannot register user: %w", err)
	}
	return result.Message, nil
}
