// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commission

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("commission: invalid matcher config")

// LoadConfig reads a Matcher from a YAML file. A missing file yields the
// defaults.
func LoadConfig(path string) (*Matcher, error) {
	m := &Matcher{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Matcher) Validate() error {
	if m.StepLimit != nil && *m.StepLimit < 0 {
		return fmt.Errorf("%w: step_limit %d", ErrInvalidConfig, *m.StepLimit)
	}
	if m.MinScore != nil && (math.IsNaN(*m.MinScore) || *m.MinScore < 0) {
		return fmt.Errorf("%w: min_score %v", ErrInvalidConfig, *m.MinScore)
	}
	return nil
}
