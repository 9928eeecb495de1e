package main

import (
	"flag"
	"log"
	"os"
	"strconv"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/mononoke-scm/testharness/config"
	"github.com/mononoke-scm/testharness/fixtures"
	"github.com/mononoke-scm/testharness/harness"
	"github.com/mononoke-scm/testharness/logging"
)

// commonParams are the options shared by every operation.
type commonParams struct {
	configPath string
	tmpRoot    string
	intervalMS int
	attempts   int
	debug      bool
}

func (c *commonParams) addFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "harness configuration file (TOML); defaults are used if omitted")
	fs.StringVar(&c.tmpRoot, "tmp", "", "root directory for run-scoped scratch state")
	fs.IntVar(&c.intervalMS, "interval-ms", 0, "readiness poll interval in milliseconds (overrides config)")
	fs.IntVar(&c.attempts, "attempts", 0, "maximum readiness poll attempts (overrides config)")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging")
}

func (c *commonParams) loadConfig() (config.HarnessConfig, error) {
	cfg := config.DefaultConfig()
	if c.configPath != "" {
		var err error
		cfg, err = config.LoadFile(c.configPath)
		if err != nil {
			return cfg, err
		}
	}
	if c.tmpRoot != "" {
		cfg.TmpRoot = c.tmpRoot
	}
	if c.intervalMS > 0 {
		cfg.Poll.IntervalMS = c.intervalMS
	}
	if c.attempts > 0 {
		cfg.Poll.Attempts = c.attempts
	}
	return cfg, nil
}

func (c *commonParams) logger() logging.Logger {
	if c.debug {
		return log.New(os.Stdout, "", log.LstdFlags)
	}
	return logging.NullLogger()
}

func (c *commonParams) newHarness() (*fixtures.Harness, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	run, err := harness.NewRunContext(cfg.TmpRoot, c.logger())
	if err != nil {
		return nil, err
	}
	return fixtures.New(cfg, run, c.logger()), nil
}

// optionalBoolFlag is a flag.Value for tri-state boolean options: leaving the
// flag off keeps the option undefined, which the config generator treats
// differently from an explicit false.
type optionalBoolFlag struct {
	value ldvalue.OptionalBool
}

func (f *optionalBoolFlag) String() string {
	if !f.value.IsDefined() {
		return ""
	}
	return strconv.FormatBool(f.value.BoolValue())
}

func (f *optionalBoolFlag) Set(s string) error {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	f.value = ldvalue.NewOptionalBool(b)
	return nil
}

func (f *optionalBoolFlag) IsBoolFlag() bool { return true }
