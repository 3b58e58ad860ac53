// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate checks that required configuration is present and valid.
// Struct-tag rules cover ranges and formats; cross-field rules that tags
// cannot express are checked by hand afterwards.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields under their koanf names so messages match what
	// operators set.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s", describeFieldError(verrs[0]))
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	return c.validateFilterBounds()
}

// validateFilterBounds checks the declared filter dimension ranges.
func (c *Config) validateFilterBounds() error {
	if c.API.RecentYearFloor < c.API.YearMin || c.API.RecentYearFloor > c.API.YearMax {
		return fmt.Errorf("api.recent_year_floor %d must fall within [%d, %d]",
			c.API.RecentYearFloor, c.API.YearMin, c.API.YearMax)
	}
	return nil
}

// describeFieldError renders a single validator error with the config path
// instead of the Go struct path.
func describeFieldError(fe validator.FieldError) string {
	path := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
	path = strings.ReplaceAll(path, ".", "_")

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", path)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", path)
	case "min":
		return fmt.Sprintf("%s must be at least %s", path, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", path, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", path, fe.Param())
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s", path, strings.ToLower(fe.Param()))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", path, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", path, fe.Tag())
	}
}
