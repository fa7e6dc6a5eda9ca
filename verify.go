// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stablematch

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrNotInjective indicates a proposer matched to more than one receiver.
	ErrNotInjective = errors.New("stablematch: proposer matched more than once")

	// ErrOutsideList indicates a proposer matched to a receiver it never listed.
	ErrOutsideList = errors.New("stablematch: receiver outside proposer's list")

	// ErrUnknownParticipant indicates a matching naming an id absent from the
	// preferences.
	ErrUnknownParticipant = errors.New("stablematch: unknown participant")
)

// Validate checks that m is a well formed matching for prefs: every id is
// known, no proposer is used twice, and every proposer got a receiver from its
// own list.
func Validate(prefs *Preferences, m Matching) error {
	seen := make(map[string]string, len(m))
	for _, receiver := range slices.Sorted(maps.Keys(m)) {
		proposer := m[receiver]
		if _, ok := prefs.Ranks[receiver]; !ok {
			return fmt.Errorf("%w: receiver %q", ErrUnknownParticipant, receiver)
		}
		list, ok := prefs.Lists[proposer]
		if !ok {
			return fmt.Errorf("%w: proposer %q", ErrUnknownParticipant, proposer)
		}
		if other, dup := seen[proposer]; dup {
			return fmt.Errorf("%w: %q to %q and %q", ErrNotInjective, proposer, other, receiver)
		}
		seen[proposer] = receiver
		if !slices.Contains(list, receiver) {
			return fmt.Errorf("%w: %q to %q", ErrOutsideList, proposer, receiver)
		}
	}
	return nil
}

// BlockingPairs returns every pair that would rather be matched to each other
// than keep m: the proposer lists the receiver ahead of its partner (or has
// none) and the receiver is free or ranks the proposer strictly better.
// A stable matching has none.
func BlockingPairs(prefs *Preferences, m Matching) []Pair {
	partners := m.ByProposer()

	var blocking []Pair
	for _, p := range prefs.Proposers {
		partner, matched := partners[p]
		for _, receiver := range prefs.Lists[p] {
			if matched && receiver == partner {
				break
			}
			ranks, ok := prefs.Ranks[receiver]
			if !ok {
				continue
			}
			current, held := m[receiver]
			if !held || ranks.Rank(p) < ranks.Rank(current) {
				blocking = append(blocking, Pair{Proposer: p, Receiver: receiver})
			}
		}
	}
	return blocking
}
