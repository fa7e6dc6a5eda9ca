// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package commission uses stablematch to pair clients with artists.
package commission

import (
	"log/slog"

	"github.com/someonegg/stablematch"
)

type Client struct {
	ID    string   `json:"id" yaml:"id"`
	Name  string   `json:"name,omitempty" yaml:"name,omitempty"`
	Prefs []string `json:"prefs,omitempty" yaml:"prefs,omitempty"` // artist ids, best first
}

type Artist struct {
	ID    string   `json:"id" yaml:"id"`
	Name  string   `json:"name,omitempty" yaml:"name,omitempty"`
	Prefs []string `json:"prefs,omitempty" yaml:"prefs,omitempty"` // client ids, best first
}

type Pair struct {
	Client string   `json:"client"`
	Artist string   `json:"artist"`
	Score  *float64 `json:"score,omitempty"` // score mode only

	ClientInfo *Client `json:"-"`
	ArtistInfo *Artist `json:"-"`
}

const (
	DefaultStepLimit = 1000000
)

type Matcher struct {
	// Clients scoring an artist below MinScore never propose to it.
	MinScore *float64 `json:"min_score,omitempty" yaml:"min_score,omitempty"`
	// Proposal budget of one run, 0 disables it.
	StepLimit *int `json:"step_limit,omitempty" yaml:"step_limit,omitempty"`

	// When set, artists a client has no score for are still proposed to,
	// after every scored one.
	IncludeUnscored bool `json:"include_unscored" yaml:"include_unscored"`

	Verbose bool `json:"verbose" yaml:"verbose"`

	Logger *slog.Logger `json:"-" yaml:"-"`
}

type Summary struct {
	ClientsCount     int                `json:"clients"`
	ArtistsCount     int                `json:"artists"`
	MatchedCount     int                `json:"matched"`
	UnmatchedClients []string           `json:"unmatched_clients,omitempty"`
	Proposals        int                `json:"proposals"`
	Rejections       int                `json:"rejections"`
	Truncated        bool               `json:"truncated,omitempty"`
	Stable           bool               `json:"stable"`
	Report           stablematch.Report `json:"report"`
}
