package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvString returns the trimmed value of key and whether it was set.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// EnvInt parses key as an integer.
func EnvInt(key string) (int, bool, error) {
	value, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, true, fmt.Errorf("%s: %w", key, err)
	}
	return n, true, nil
}

// EnvBool parses key as a boolean.
func EnvBool(key string) (bool, bool, error) {
	value, ok := EnvString(key)
	if !ok {
		return false, false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, true, fmt.Errorf("%s: %w", key, err)
	}
	return b, true, nil
}

// EnvDuration parses key as a time.Duration ("750ms", "10s").
func EnvDuration(key string) (time.Duration, bool, error) {
	value, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, true, fmt.Errorf("%s: %w", key, err)
	}
	return d, true, nil
}

// ApplyEnv overrides c with the EVDS_* variables that are set.
func (c *Config) ApplyEnv() error {
	if value, ok := EnvString("EVDS_BASE_URL"); ok {
		c.BaseURL = value
	}
	if value, ok := EnvString("EVDS_CHROME_PATH"); ok {
		c.ChromePath = value
	}
	if value, ok := EnvString("EVDS_METRICS_ADDR"); ok {
		c.MetricsAddr = value
	}
	if value, ok, err := EnvDuration("EVDS_TIMEOUT"); err != nil {
		return err
	} else if ok {
		c.Timeout = value
	}
	if value, ok, err := EnvDuration("EVDS_STEP_DELAY"); err != nil {
		return err
	} else if ok {
		c.StepDelay = value
	}
	if value, ok, err := EnvInt("EVDS_MAX_SCROLLS"); err != nil {
		return err
	} else if ok {
		c.MaxScrolls = value
	}
	if value, ok, err := EnvBool("EVDS_HEADLESS"); err != nil {
		return err
	} else if ok {
		c.Headless = value
	}
	return nil
}
