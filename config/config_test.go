// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"testing"
	"testing/fstest"
	"time"

	"github.com/z5labs/strata/config/value"

	"github.com/stretchr/testify/assert"
)

func environ(pairs ...string) EnvOption {
	return Environ(func() ([]string, error) {
		return pairs, nil
	})
}

func TestBuilder_Value(t *testing.T) {
	t.Run("will apply sources in the order they were collected", func(t *testing.T) {
		type defaults struct {
			A string `config:"a"`
			B string `config:"b"`
		}

		fsys := fstest.MapFS{
			"config.json": &fstest.MapFile{Data: []byte(`{"a": "z"}`)},
		}

		v, err := NewBuilder().
			Collect(FromSelf(defaults{A: "x", B: "y"})).
			Collect(FromFile(Json{}, "config.json", FS(fsys))).
			Collect(FromEnv(environ("B=w"))).
			Value()
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, `{"a":"z","b":"w"}`, v.String()) {
			return
		}
	})

	t.Run("will return null", func(t *testing.T) {
		t.Run("if no sources were collected", func(t *testing.T) {
			v, err := NewBuilder().Value()
			if !assert.Nil(t, err) {
				return
			}
			if !assert.True(t, v.IsNull()) {
				return
			}
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if a source fails", func(t *testing.T) {
			produceErr := errors.New("failed to produce")
			produced := 0

			_, err := NewBuilder().
				Collect(SourceFunc(func() (value.Value, error) {
					produced++
					return value.Mapping(), nil
				})).
				Collect(SourceFunc(func() (value.Value, error) {
					return value.Value{}, produceErr
				})).
				Collect(SourceFunc(func() (value.Value, error) {
					produced++
					return value.Mapping(), nil
				})).
				Value()

			var serr SourceError
			if !assert.ErrorAs(t, err, &serr) {
				return
			}
			if !assert.Equal(t, 1, serr.Index) {
				return
			}
			if !assert.Equal(t, OriginMemory, serr.Origin) {
				return
			}
			if !assert.NotEmpty(t, serr.Error()) {
				return
			}
			if !assert.ErrorIs(t, err, produceErr) {
				return
			}
			if !assert.Equal(t, 1, produced) {
				return
			}
		})

		t.Run("if a required file is missing", func(t *testing.T) {
			_, err := NewBuilder().
				Collect(FromFile(Yaml{}, "missing.yaml", FS(fstest.MapFS{}))).
				Value()

			var serr SourceError
			if !assert.ErrorAs(t, err, &serr) {
				return
			}
			if !assert.Equal(t, 0, serr.Index) {
				return
			}
			if !assert.Equal(t, OriginFile, serr.Origin) {
				return
			}
			if !assert.Equal(t, "missing.yaml", serr.Name) {
				return
			}

			var ioErr IoError
			if !assert.ErrorAs(t, err, &ioErr) {
				return
			}
			if !assert.ErrorIs(t, err, fs.ErrNotExist) {
				return
			}
		})

		t.Run("if it is built more than once", func(t *testing.T) {
			b := NewBuilder().Collect(Map{"a": 1})

			_, err := b.Value()
			if !assert.Nil(t, err) {
				return
			}

			_, err = b.Value()
			if !assert.ErrorIs(t, err, ErrAlreadyBuilt) {
				return
			}
		})
	})

	t.Run("will ignore a missing optional file", func(t *testing.T) {
		v, err := NewBuilder().
			Collect(Map{"a": "x"}).
			Collect(FromFile(Toml{}, "missing.toml", FS(fstest.MapFS{}), Optional())).
			Value()
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, `{"a":"x"}`, v.String()) {
			return
		}
	})

	t.Run("will ignore sources collected after being built", func(t *testing.T) {
		b := NewBuilder()
		_, err := b.Value()
		if !assert.Nil(t, err) {
			return
		}

		called := false
		b.Collect(SourceFunc(func() (value.Value, error) {
			called = true
			return value.Mapping(), nil
		}))
		if !assert.False(t, called) {
			return
		}
	})

	t.Run("will log every produced source", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		_, err := NewBuilder(Logger(logger)).
			Collect(Map{"a": 1}).
			Collect(FromEnv(environ())).
			Value()
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Contains(t, buf.String(), `"origin":"memory"`) {
			return
		}
		if !assert.Contains(t, buf.String(), `"origin":"env"`) {
			return
		}
	})
}

type serverConfig struct {
	Host    string        `config:"host,required"`
	Port    int           `config:"port"`
	Timeout time.Duration `config:"timeout"`
	Debug   bool          `config:"debug"`
	IP      net.IP        `config:"ip"`
	Tags    []string      `config:"tags"`
	DB      *dbConfig     `config:"db"`
}

type dbConfig struct {
	Name string `config:"name,required"`
	Pool int    `config:"pool"`
}

func TestBuild(t *testing.T) {
	t.Run("will decode the merged config", func(t *testing.T) {
		fsys := fstest.MapFS{
			"config.yaml": &fstest.MapFile{Data: []byte("host: example.com\ntimeout: 5s\ntags: [a, b]\ndb:\n  name: app\n  pool: 2\n")},
		}

		cfg, err := Build[serverConfig](
			NewBuilder().
				Collect(FromSelf(serverConfig{Port: 8080, Tags: []string{"default"}})).
				Collect(FromFile(Yaml{}, "config.yaml", FS(fsys))).
				Collect(FromEnv(
					Prefix("APP_"),
					environ("APP_DEBUG=true", "APP_PORT=9090", "APP_IP=10.0.0.1", "APP_DB_POOL=4", "OTHER=1"),
				)),
		)
		if !assert.Nil(t, err) {
			return
		}

		expected := serverConfig{
			Host:    "example.com",
			Port:    9090,
			Timeout: 5 * time.Second,
			Debug:   true,
			IP:      net.ParseIP("10.0.0.1"),
			Tags:    []string{"a", "b"},
			DB:      &dbConfig{Name: "app", Pool: 4},
		}
		if !assert.Equal(t, expected, cfg) {
			return
		}
	})

	t.Run("will succeed without any keys", func(t *testing.T) {
		t.Run("if no target field is required", func(t *testing.T) {
			type cfg struct {
				A string `config:"a"`
				B int    `config:"b"`
			}

			c, err := Build[cfg](NewBuilder().Collect(Map{}))
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Zero(t, c) {
				return
			}
		})
	})

	t.Run("will not check required fields of an absent optional parent", func(t *testing.T) {
		c, err := Build[serverConfig](NewBuilder().Collect(Map{"host": "h"}))
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Nil(t, c.DB) {
			return
		}
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if a required field is missing", func(t *testing.T) {
			_, err := Build[serverConfig](NewBuilder().Collect(Map{"port": 1}))

			var derr DecodeError
			if !assert.ErrorAs(t, err, &derr) {
				return
			}
			if !assert.NotEmpty(t, derr.Error()) {
				return
			}

			var merr MissingFieldError
			if !assert.ErrorAs(t, err, &merr) {
				return
			}
			if !assert.Equal(t, "host", merr.Path) {
				return
			}
		})

		t.Run("if a nested required field is missing", func(t *testing.T) {
			_, err := Build[serverConfig](NewBuilder().Collect(Map{
				"host": "h",
				"db":   map[string]any{"pool": 1},
			}))

			var merr MissingFieldError
			if !assert.ErrorAs(t, err, &merr) {
				return
			}
			if !assert.Equal(t, "db.name", merr.Path) {
				return
			}
		})

		t.Run("if a required field is null", func(t *testing.T) {
			_, err := Build[serverConfig](NewBuilder().Collect(FromString(Json{}, `{"host": null}`)))

			var merr MissingFieldError
			if !assert.ErrorAs(t, err, &merr) {
				return
			}
		})

		t.Run("if a value can not be coerced to the field type", func(t *testing.T) {
			_, err := Build[serverConfig](NewBuilder().Collect(Map{"host": "h", "timeout": "forever"}))

			var derr DecodeError
			if !assert.ErrorAs(t, err, &derr) {
				return
			}
		})

		t.Run("if ErrorUnused is set and there are unknown keys", func(t *testing.T) {
			_, err := Build[serverConfig](NewBuilder(ErrorUnused()).Collect(Map{"host": "h", "unknown": 1}))

			var derr DecodeError
			if !assert.ErrorAs(t, err, &derr) {
				return
			}
		})

		t.Run("if a source fails", func(t *testing.T) {
			_, err := Build[serverConfig](NewBuilder().Collect(FromString(Json{}, `{`)))

			var serr SourceError
			if !assert.ErrorAs(t, err, &serr) {
				return
			}

			var perr ParseError
			if !assert.ErrorAs(t, err, &perr) {
				return
			}
			if !assert.Equal(t, "json", perr.Format) {
				return
			}
		})
	})

	t.Run("will use a custom tag name", func(t *testing.T) {
		type cfg struct {
			Host string `yaml:"hostname"`
		}

		c, err := Build[cfg](
			NewBuilder(TagName("yaml")).
				Collect(FromSelf(cfg{Host: "default"}, SelfTagName("yaml"))).
				Collect(FromString(Yaml{}, "hostname: custom")),
		)
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, "custom", c.Host) {
			return
		}
	})

	t.Run("will squash embedded structs", func(t *testing.T) {
		type Common struct {
			Name string `config:"name,required"`
		}
		type cfg struct {
			Common
			Port int `config:"port"`
		}

		c, err := Build[cfg](NewBuilder().
			Collect(FromSelf(cfg{Common: Common{Name: "default"}, Port: 1})).
			Collect(Map{"name": "app"}))
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, cfg{Common: Common{Name: "app"}, Port: 1}, c) {
			return
		}
	})
}

func TestBuild_KeyCase(t *testing.T) {
	type cfg struct {
		A string
		B string
	}

	fsys := fstest.MapFS{
		"config.json": &fstest.MapFile{Data: []byte(`{"a": "z"}`)},
	}

	t.Run("will override untagged defaults regardless of key case", func(t *testing.T) {
		b := NewBuilder().
			Collect(FromSelf(cfg{A: "x", B: "y"})).
			Collect(FromFile(Json{}, "config.json", FS(fsys))).
			Collect(FromEnv(environ("B=w")))

		c, err := Build[cfg](b)
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, cfg{A: "z", B: "w"}, c) {
			return
		}
	})

	t.Run("will merge keys differing only in case into one", func(t *testing.T) {
		v, err := NewBuilder().
			Collect(FromSelf(cfg{A: "x", B: "y"})).
			Collect(FromFile(Json{}, "config.json", FS(fsys))).
			Collect(FromEnv(environ("B=w"))).
			Value()
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, `{"A":"z","B":"w"}`, v.String()) {
			return
		}
	})

	t.Run("will keep keys differing in case apart", func(t *testing.T) {
		t.Run("if keys are case sensitive", func(t *testing.T) {
			b := NewBuilder(CaseSensitiveKeys()).
				Collect(FromSelf(cfg{A: "x", B: "y"})).
				Collect(FromFile(Json{}, "config.json", FS(fsys)))

			v, err := b.Value()
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, `{"A":"x","B":"y","a":"z"}`, v.String()) {
				return
			}
		})

		t.Run("if decoding with case sensitive keys", func(t *testing.T) {
			c, err := Build[cfg](NewBuilder(CaseSensitiveKeys()).
				Collect(Map{"a": "z", "B": "w"}))
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, cfg{B: "w"}, c) {
				return
			}
		})
	})

	t.Run("will require exact key case", func(t *testing.T) {
		t.Run("if keys are case sensitive", func(t *testing.T) {
			_, err := Build[serverConfig](NewBuilder(CaseSensitiveKeys()).
				Collect(Map{"HOST": "h"}))

			var merr MissingFieldError
			if !assert.ErrorAs(t, err, &merr) {
				return
			}
			if !assert.Equal(t, "host", merr.Path) {
				return
			}
		})
	})
}

func TestBuild_Squash(t *testing.T) {
	type db struct {
		Host string `config:"host,required"`
		Port int    `config:"port"`
	}
	type cfg struct {
		DB   db     `config:",squash"`
		Name string `config:"name"`
	}

	t.Run("will check required fields of squashed structs", func(t *testing.T) {
		_, err := Build[cfg](NewBuilder().Collect(Map{"name": "app", "port": 1}))

		var merr MissingFieldError
		if !assert.ErrorAs(t, err, &merr) {
			return
		}
		if !assert.Equal(t, "host", merr.Path) {
			return
		}
	})

	t.Run("will decode squashed structs", func(t *testing.T) {
		c, err := Build[cfg](NewBuilder().Collect(Map{"name": "app", "host": "h", "port": 1}))
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, cfg{DB: db{Host: "h", Port: 1}, Name: "app"}, c) {
			return
		}
	})
}

func TestBuilder_BuildInto(t *testing.T) {
	t.Run("will leave the target untouched", func(t *testing.T) {
		t.Run("if a required field is missing", func(t *testing.T) {
			target := serverConfig{Port: 1, Tags: []string{"keep"}}

			err := NewBuilder().
				Collect(Map{"port": 2, "tags": []string{"a"}}).
				BuildInto(&target)

			var merr MissingFieldError
			if !assert.ErrorAs(t, err, &merr) {
				return
			}
			if !assert.Equal(t, serverConfig{Port: 1, Tags: []string{"keep"}}, target) {
				return
			}
		})
	})

	t.Run("will decode on top of the target", func(t *testing.T) {
		target := serverConfig{Port: 1}

		err := NewBuilder().Collect(Map{"host": "h"}).BuildInto(&target)
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, serverConfig{Host: "h", Port: 1}, target) {
			return
		}
	})
}
