// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnv_Produce(t *testing.T) {
	t.Run("will nest variables by separator", func(t *testing.T) {
		testCases := []struct {
			Name     string
			Opts     []EnvOption
			Environ  []string
			Expected string
		}{
			{
				Name:     "no prefix",
				Environ:  []string{"A_B_C=v"},
				Expected: `{"a":{"b":{"c":"v"}}}`,
			},
			{
				Name:     "prefix is stripped",
				Opts:     []EnvOption{Prefix("APP_")},
				Environ:  []string{"APP_DB_HOST=localhost", "DB_HOST=ignored"},
				Expected: `{"db":{"host":"localhost"}}`,
			},
			{
				Name:     "prefix matches case-insensitively",
				Opts:     []EnvOption{Prefix("app_")},
				Environ:  []string{"APP_PORT=1"},
				Expected: `{"port":"1"}`,
			},
			{
				Name:     "case sensitive prefix and keys",
				Opts:     []EnvOption{Prefix("APP_"), CaseSensitive(true)},
				Environ:  []string{"APP_Port=1", "app_HOST=ignored"},
				Expected: `{"Port":"1"}`,
			},
			{
				Name:     "custom separator",
				Opts:     []EnvOption{Separator("__")},
				Environ:  []string{"DB__MAX_CONNS=10"},
				Expected: `{"db":{"max_conns":"10"}}`,
			},
			{
				Name:     "values are kept as strings",
				Environ:  []string{"PORT=8080", "DEBUG=true", "EMPTY="},
				Expected: `{"debug":"true","empty":"","port":"8080"}`,
			},
			{
				Name:     "values may contain equal signs",
				Environ:  []string{"DSN=a=b"},
				Expected: `{"dsn":"a=b"}`,
			},
			{
				Name:     "malformed pairs are ignored",
				Environ:  []string{"hello=world", "good bye", "=C:=C:\\"},
				Expected: `{"hello":"world"}`,
			},
			{
				Name:     "siblings are merged",
				Environ:  []string{"DB_PORT=1", "DB_HOST=h"},
				Expected: `{"db":{"host":"h","port":"1"}}`,
			},
			{
				Name:     "conflicting shapes resolve in name order",
				Environ:  []string{"A_B=2", "A=1"},
				Expected: `{"a":{"b":"2"}}`,
			},
			{
				Name:     "nothing set",
				Expected: `{}`,
			},
		}

		for _, testCase := range testCases {
			t.Run(testCase.Name, func(t *testing.T) {
				opts := append([]EnvOption{environ(testCase.Environ...)}, testCase.Opts...)
				v, err := FromEnv(opts...).Produce()
				if !assert.Nil(t, err) {
					return
				}
				if !assert.Equal(t, testCase.Expected, v.String()) {
					return
				}
			})
		}
	})

	t.Run("will read the process environment", func(t *testing.T) {
		t.Setenv("STRATA_TEST_DB_NAME", "app")

		v, err := FromEnv(Prefix("STRATA_TEST_")).Produce()
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, `{"db":{"name":"app"}}`, v.String()) {
			return
		}
	})

	t.Run("will return an EnvAccessError", func(t *testing.T) {
		t.Run("if the environment can not be listed", func(t *testing.T) {
			environErr := errors.New("no environment")
			_, err := FromEnv(Environ(func() ([]string, error) {
				return nil, environErr
			})).Produce()

			var eerr EnvAccessError
			if !assert.ErrorAs(t, err, &eerr) {
				return
			}
			if !assert.NotEmpty(t, eerr.Error()) {
				return
			}
			if !assert.ErrorIs(t, err, environErr) {
				return
			}
		})
	})

	t.Run("will describe itself", func(t *testing.T) {
		if !assert.Equal(t, "env APP_*", FromEnv(Prefix("APP_")).String()) {
			return
		}
		if !assert.Equal(t, OriginEnv, FromEnv().Origin()) {
			return
		}
	})
}
