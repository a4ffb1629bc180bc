// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kernels

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/gomlx/strided/internal/workerspool"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// GOMLX_STRIDED is the environment variable with the configuration of the kernels, read at start up.
//
// The format is a comma-separated list of "key=value" options, e.g. "parallelism=4,grain=16384".
// See ParseConfig for the options.
const GOMLX_STRIDED = "GOMLX_STRIDED"

// DefaultGrain is the default minimum number of elements processed by one parallel chunk.
const DefaultGrain = 32 * 1024

// Config of the reference kernels.
type Config struct {
	// Parallelism is the maximum number of extra goroutines used by one kernel call.
	// If 0, kernels run in the calling goroutine. If negative, it is unlimited.
	Parallelism int

	// Grain is the minimum number of elements per parallel chunk: kernel calls with fewer
	// elements than that are not split.
	Grain int
}

// DefaultConfig returns the configuration used if GOMLX_STRIDED is not set.
func DefaultConfig() Config {
	return Config{
		Parallelism: runtime.NumCPU(),
		Grain:       DefaultGrain,
	}
}

// ParseConfig parses a configuration in the GOMLX_STRIDED format, starting from DefaultConfig.
//
// Options:
//   - "parallelism=<n>": maximum number of extra goroutines per kernel call. 0 disables parallelism, -1 is unlimited.
//   - "grain=<n>": minimum number of elements per parallel chunk. Must be positive.
//   - "noparallelism": same as "parallelism=0".
func ParseConfig(config string) (Config, error) {
	c := DefaultConfig()
	for _, part := range strings.Split(config, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, hasValue := strings.Cut(part, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "noparallelism" && !hasValue {
			c.Parallelism = 0
			continue
		}
		if !hasValue {
			return c, errors.Errorf("invalid option %q in %s=%q: expected \"key=value\"", part, GOMLX_STRIDED, config)
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return c, errors.Wrapf(err, "invalid value for option %q in %s=%q", key, GOMLX_STRIDED, config)
		}
		switch key {
		case "parallelism":
			c.Parallelism = n
		case "grain":
			if n <= 0 {
				return c, errors.Errorf("grain must be positive, got %d in %s=%q", n, GOMLX_STRIDED, config)
			}
			c.Grain = n
		default:
			return c, errors.Errorf("unknown option %q in %s=%q", key, GOMLX_STRIDED, config)
		}
	}
	return c, nil
}

var (
	muConfig      sync.RWMutex
	currentConfig Config
	currentPool   *workerspool.Pool
)

func init() {
	config := DefaultConfig()
	if env, found := os.LookupEnv(GOMLX_STRIDED); found {
		var err error
		config, err = ParseConfig(env)
		if err != nil {
			klog.Errorf("ignoring %s: %+v", GOMLX_STRIDED, err)
			config = DefaultConfig()
		}
	}
	SetConfig(config)
}

// SetConfig changes the configuration used by the kernels.
// Kernel calls already running keep using the previous configuration.
func SetConfig(config Config) {
	if config.Grain <= 0 {
		config.Grain = DefaultGrain
	}
	muConfig.Lock()
	defer muConfig.Unlock()
	currentConfig = config
	currentPool = workerspool.NewWithParallelism(config.Parallelism)
	if klog.V(1).Enabled() {
		klog.Infof("strided kernels: parallelism=%d, grain=%d", config.Parallelism, config.Grain)
	}
}

// CurrentConfig returns the configuration currently used by the kernels.
func CurrentConfig() Config {
	muConfig.RLock()
	defer muConfig.RUnlock()
	return currentConfig
}

// split calls fn over chunks of [0, n) according to the current configuration.
func split(n int, fn func(start, end int)) {
	muConfig.RLock()
	pool, grain := currentPool, currentConfig.Grain
	muConfig.RUnlock()
	pool.Split(n, grain, fn)
}

// splitOutput is like split, but for kernels writing to one output array with outStride:
// with outStride == 0 every element is written to the same position, so fn(0, n) runs inline
// and the last element written wins, as in a sequential walk.
func splitOutput(n, outStride int, fn func(start, end int)) {
	if outStride == 0 {
		if n > 0 {
			fn(0, n)
		}
		return
	}
	split(n, fn)
}
