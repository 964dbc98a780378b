/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package aicp

import (
	"fmt"
	"time"

	libval "github.com/go-playground/validator/v10"
	liberr "github.com/nabbar/golib/errors"
	liblog "github.com/nabbar/golib/logger"
	libpol "github.com/sabouaram/goaio/sockpool"
)

const (
	// DefaultObjectCount sizes the internal structures of a proactor.
	DefaultObjectCount = 4096

	// DefaultCacheMax caps the idle completion object cache.
	DefaultCacheMax = 256

	// DefaultPrecision is the slot granularity of the timeout wheel.
	DefaultPrecision = time.Second

	// DefaultExitTimeout bounds the worker drain on Exit.
	DefaultExitTimeout = 5 * time.Second
)

// Config carries the construction parameters of a Proactor.
type Config struct {
	// ObjectCount is the expected number of live handles; the completion
	// port, both posting queues, the kill list and the timer wheels are
	// sized from it. Zero means DefaultObjectCount.
	ObjectCount int `mapstructure:"object_count" json:"object_count" yaml:"object_count" toml:"object_count" validate:"gte=0"`

	// CacheMax caps the idle completion object cache. Zero means
	// DefaultCacheMax.
	CacheMax int `mapstructure:"cache_max" json:"cache_max" yaml:"cache_max" toml:"cache_max" validate:"gte=0"`

	// Precision is the slot granularity of the timeout wheel. Zero means
	// DefaultPrecision.
	Precision time.Duration `mapstructure:"precision" json:"precision" yaml:"precision" toml:"precision" validate:"gte=0"`

	// ExitTimeout bounds the worker drain on Exit. Zero means
	// DefaultExitTimeout.
	ExitTimeout time.Duration `mapstructure:"exit_timeout" json:"exit_timeout" yaml:"exit_timeout" toml:"exit_timeout" validate:"gte=0"`

	// Pool, when not nil, receives closed sockets for recycling.
	Pool libpol.Pool `mapstructure:"-" json:"-" yaml:"-" toml:"-"`

	// Logger, when not nil, receives engine diagnostics.
	Logger liblog.FuncLog `mapstructure:"-" json:"-" yaml:"-" toml:"-"`
}

// Validate checks the Config against its struct tag constraints and returns
// a golib error holding every violation, or nil when the config is valid.
func (c Config) Validate() liberr.Error {
	var e = ErrorValidatorError.Error(nil)

	if err := libval.New().Struct(c); err != nil {
		if er, ok := err.(*libval.InvalidValidationError); ok {
			e.Add(er)
		}

		for _, er := range err.(libval.ValidationErrors) {
			//nolint #goerr113
			e.Add(fmt.Errorf("config field '%s' is not validated by constraint '%s'", er.Namespace(), er.ActualTag()))
		}
	}

	if !e.HasParent() {
		e = nil
	}

	return e
}

func (c *Config) complete() {
	if c.ObjectCount <= 0 {
		c.ObjectCount = DefaultObjectCount
	}

	if c.CacheMax <= 0 {
		c.CacheMax = DefaultCacheMax
	}

	if c.Precision <= 0 {
		c.Precision = DefaultPrecision
	}

	if c.ExitTimeout <= 0 {
		c.ExitTimeout = DefaultExitTimeout
	}
}

func (c Config) queueSize() int {
	return c.ObjectCount/16 + 16
}

func (c Config) killSize() int {
	return c.ObjectCount/64 + 16
}
