// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stablematch

import (
	"log/slog"
)

type MatchOption func(*deferredMatcher)

// WithStepLimit stops the run after n proposals, n <= 0 means no limit.
func WithStepLimit(n int) MatchOption {
	return func(m *deferredMatcher) {
		m.limit = n
	}
}

func WithMatchLogger(l *slog.Logger) MatchOption {
	return func(m *deferredMatcher) {
		if l != nil {
			m.logger = l
		}
	}
}

type deferredMatcher struct {
	limit  int
	logger *slog.Logger
}

// DeferredAcceptance returns a proposer optimal Gale-Shapley matcher.
func DeferredAcceptance(opts ...MatchOption) Matcher {
	m := deferredMatcher{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// run holds the state of one Match call.
type run struct {
	prefs    *Preferences
	matching Matching
	cursor   map[string]int
	free     []string // FIFO
}

func (m deferredMatcher) Match(prefs *Preferences) (matching Matching, stats Stats) {
	if prefs == nil {
		panic("stablematch: Match called with nil preferences")
	}

	r := &run{
		prefs:    prefs,
		matching: make(Matching, len(prefs.Ranks)),
		cursor:   make(map[string]int, len(prefs.Proposers)),
		free:     make([]string, 0, len(prefs.Proposers)),
	}
	for _, p := range prefs.Proposers {
		if _, queued := r.cursor[p]; queued {
			continue
		}
		r.cursor[p] = 0
		if len(prefs.Lists[p]) > 0 {
			r.free = append(r.free, p)
		}
	}

	for len(r.free) > 0 {
		p := r.free[0]
		list := prefs.Lists[p]
		cur := r.cursor[p]
		if cur >= len(list) {
			// exhausted, stays unmatched
			r.free = r.free[1:]
			continue
		}

		if m.limit > 0 && stats.Proposals >= m.limit {
			stats.Truncated = true
			m.logger.Warn("step limit reached", "limit", m.limit, "free", len(r.free))
			break
		}

		receiver := list[cur]
		r.cursor[p] = cur + 1
		stats.Proposals++

		accepted, dumped := r.propose(p, receiver)
		if !accepted {
			stats.Rejections++
			m.logger.Debug("proposal rejected", "proposer", p, "receiver", receiver)
			continue
		}

		r.free = r.free[1:]
		m.logger.Debug("proposal accepted", "proposer", p, "receiver", receiver)
		if dumped != "" {
			stats.Rejections++
			r.free = append(r.free, dumped)
			m.logger.Debug("proposer replaced", "proposer", dumped, "receiver", receiver)
		}
	}

	matched := make(map[string]bool, len(r.matching))
	for _, p := range r.matching {
		matched[p] = true
	}
	for _, p := range prefs.Proposers {
		if !matched[p] {
			stats.Unmatched = append(stats.Unmatched, p)
			matched[p] = true
		}
	}

	return r.matching, stats
}

// propose reports whether receiver tentatively accepts p, and the proposer it
// let go if any.
func (r *run) propose(p, receiver string) (accepted bool, dumped string) {
	ranks, ok := r.prefs.Ranks[receiver]
	if !ok {
		// unknown receiver never accepts
		return false, ""
	}

	current, held := r.matching[receiver]
	if !held {
		r.matching[receiver] = p
		return true, ""
	}

	if ranks.Rank(p) < ranks.Rank(current) {
		r.matching[receiver] = p
		return true, current
	}
	return false, ""
}
