package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	var errs []error

	// App validation
	if c.App.Name == "" {
		errs = append(errs, errors.New("app.name is required"))
	}

	validModes := map[string]bool{"development": true, "production": true, "test": true}
	if !validModes[c.App.Mode] {
		errs = append(errs, fmt.Errorf("app.mode must be one of: development, production, test"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.App.LogLevel] {
		errs = append(errs, fmt.Errorf("app.log_level must be one of: debug, info, warn, error"))
	}

	// API validation
	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, errors.New("api.port must be between 1 and 65535"))
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, errors.New("api.rate_limit must not be negative"))
	}
	if c.API.RateLimit > 0 && c.API.RateBurst <= 0 {
		errs = append(errs, errors.New("api.rate_burst must be positive when rate limiting is enabled"))
	}
	if c.API.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("api.max_body_bytes must be positive"))
	}
	if c.App.Mode == "production" && containsWildcard(c.API.CORS.AllowedOrigins) && c.API.CORS.AllowCredentials {
		errs = append(errs, errors.New("api.cors cannot allow credentials with a wildcard origin in production"))
	}

	// Validation options
	if c.Validation.Lenient && c.Validation.EnforceRanges {
		errs = append(errs, errors.New("validation.lenient and validation.enforce_ranges are mutually exclusive"))
	}

	// Events validation
	if c.Events.BufferSize < 0 {
		errs = append(errs, errors.New("events.buffer_size must not be negative"))
	}

	// Probe validation
	if c.Probe.Endpoint == "" {
		errs = append(errs, errors.New("probe.endpoint is required"))
	}
	if c.Probe.Timeout <= 0 {
		errs = append(errs, errors.New("probe.timeout must be positive"))
	}
	if c.Probe.RetryAttempts <= 0 {
		errs = append(errs, errors.New("probe.retry_attempts must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
