// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/eectl/eectl/internal/inventory"
	"github.com/eectl/eectl/internal/report"
	"github.com/eectl/eectl/internal/selector"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator checks flag combinations no single validator can see.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if c.IsSet("attrs") && c.String("output") != "text" && strings.Contains(c.String("attrs"), "*") {
		return fmt.Errorf("--attrs '*' transforms only apply to text output")
	}
	return nil
}

func OutputValidator(value any) error {
	return oneOf(value, []string{"text", "json", "yaml"})
}

func FormatValidator(value any) error {
	return oneOf(value, report.Formats)
}

func OrderingValidator(value any) error {
	s, _ := value.(string)
	if _, err := selector.ParseOrdering(s); err != nil {
		return fmt.Errorf("must be one of %v", selector.Orderings)
	}
	return nil
}

func EngineValidator(value any) error {
	if s, _ := value.(string); s == "" {
		return nil
	}
	return oneOf(value, []string{"podman", "docker"})
}

func PositiveValidator(value any) error {
	if n, ok := value.(int); !ok || n < 1 {
		return fmt.Errorf("must be at least 1")
	}
	return nil
}

func CategoryValidator(value any) error {
	s, _ := value.(string)
	_, err := parseCategories(s)
	return err
}

// parseCategories turns a comma separated list into categories. Empty means
// all of them.
func parseCategories(s string) ([]inventory.Category, error) {
	if strings.TrimSpace(s) == "" {
		return inventory.Categories, nil
	}

	var cats []inventory.Category
	for _, part := range strings.Split(s, ",") {
		c, ok := inventory.ParseCategory(part)
		if !ok {
			return nil, fmt.Errorf("unknown category %q, want rpm, python or collection", part)
		}
		if !slices.Contains(cats, c) {
			cats = append(cats, c)
		}
	}
	return cats, nil
}

func oneOf(value any, valid []string) error {
	s, _ := value.(string)
	if !slices.Contains(valid, strings.ToLower(s)) {
		return fmt.Errorf("must be one of %v", valid)
	}
	return nil
}
