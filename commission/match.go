// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commission

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/someonegg/stablematch"
	"github.com/someonegg/stablematch/scores"
)

type settings struct {
	resolveOpts []stablematch.ResolveOption
	matchOpts   []stablematch.MatchOption
	logger      *slog.Logger
}

// settings never modifies m, so one Matcher can serve concurrent runs.
func (m *Matcher) settings() settings {
	var s settings

	switch {
	case m.Logger != nil:
		s.logger = m.Logger
	case m.Verbose:
		s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		s.logger = slog.New(slog.DiscardHandler)
	}

	stepLimit := DefaultStepLimit
	if m.StepLimit != nil {
		stepLimit = *m.StepLimit
	}

	s.resolveOpts = append(s.resolveOpts, stablematch.WithResolveLogger(s.logger))
	if m.MinScore != nil {
		s.resolveOpts = append(s.resolveOpts, stablematch.WithMinScore(*m.MinScore))
	}
	if m.IncludeUnscored {
		s.resolveOpts = append(s.resolveOpts, stablematch.WithUnscored())
	}

	s.matchOpts = []stablematch.MatchOption{
		stablematch.WithStepLimit(stepLimit),
		stablematch.WithMatchLogger(s.logger),
	}
	return s
}

// Match pairs clients with artists. Clients propose. With a nil scorer the
// records' own Prefs are used, otherwise both sides are ordered by score.
func (m *Matcher) Match(clients []*Client, artists []*Artist, scorer scores.Scorer) (pairs []*Pair, summary Summary) {
	s := m.settings()

	prefs, matrix := m.resolve(s, clients, artists, scorer, &summary)

	matching, stats := stablematch.DeferredAcceptance(s.matchOpts...).Match(prefs)

	summary.MatchedCount = len(matching)
	summary.UnmatchedClients = stats.Unmatched
	summary.Proposals = stats.Proposals
	summary.Rejections = stats.Rejections
	summary.Truncated = stats.Truncated
	summary.Stable = len(stablematch.BlockingPairs(prefs, matching)) == 0

	s.logger.Info("match done",
		"clients", summary.ClientsCount,
		"artists", summary.ArtistsCount,
		"matched", summary.MatchedCount,
		"proposals", summary.Proposals,
		"rejections", summary.Rejections,
		"truncated", summary.Truncated)

	pairs = genPairs(matching, clients, artists, matrix)
	for _, pair := range pairs {
		s.logger.Debug("pair", "client", pair.Client, "artist", pair.Artist)
	}
	return pairs, summary
}

// Verify checks pairs against the preferences Match would build from the same
// inputs, and returns the blocking pairs it contains.
func (m *Matcher) Verify(clients []*Client, artists []*Artist, scorer scores.Scorer, pairs []*Pair) ([]stablematch.Pair, error) {
	s := m.settings()

	var summary Summary
	prefs, _ := m.resolve(s, clients, artists, scorer, &summary)

	matching := make(stablematch.Matching, len(pairs))
	for i, pair := range pairs {
		if pair == nil {
			return nil, fmt.Errorf("pair %d is empty", i)
		}
		if prev, ok := matching[pair.Artist]; ok {
			return nil, fmt.Errorf("artist %q paired with %q and %q", pair.Artist, prev, pair.Client)
		}
		matching[pair.Artist] = pair.Client
	}

	if err := stablematch.Validate(prefs, matching); err != nil {
		return nil, err
	}
	return stablematch.BlockingPairs(prefs, matching), nil
}

func (m *Matcher) resolve(s settings, clients []*Client, artists []*Artist, scorer scores.Scorer, summ *Summary) (*stablematch.Preferences, stablematch.ScoreMatrix) {
	proposers := genProposers(clients)
	receivers := genReceivers(artists)
	summ.ClientsCount = len(proposers)
	summ.ArtistsCount = len(receivers)

	var matrix stablematch.ScoreMatrix
	if scorer != nil {
		matrix = scores.Matrix(scorer, participantIDs(proposers), participantIDs(receivers))
	}

	prefs, report := stablematch.Resolve(proposers, receivers, matrix, s.resolveOpts...)
	summ.Report = report
	return prefs, matrix
}

func genProposers(clients []*Client) []stablematch.Participant {
	proposers := make([]stablematch.Participant, 0, len(clients))
	for _, client := range clients {
		if client == nil {
			continue
		}
		proposers = append(proposers, stablematch.Participant{
			ID:    client.ID,
			Prefs: slices.Clone(client.Prefs),
			Info:  client,
		})
	}
	return proposers
}

func genReceivers(artists []*Artist) []stablematch.Participant {
	receivers := make([]stablematch.Participant, 0, len(artists))
	for _, artist := range artists {
		if artist == nil {
			continue
		}
		receivers = append(receivers, stablematch.Participant{
			ID:    artist.ID,
			Prefs: slices.Clone(artist.Prefs),
			Info:  artist,
		})
	}
	return receivers
}

func participantIDs(ps []stablematch.Participant) []string {
	ids := make([]string, len(ps))
	for i := range ps {
		ids[i] = ps[i].ID
	}
	return ids
}

func genPairs(matching stablematch.Matching, clients []*Client, artists []*Artist, matrix stablematch.ScoreMatrix) []*Pair {
	clientsByID := make(map[string]*Client, len(clients))
	for _, client := range clients {
		if client != nil {
			if _, ok := clientsByID[client.ID]; !ok {
				clientsByID[client.ID] = client
			}
		}
	}
	artistsByID := make(map[string]*Artist, len(artists))
	for _, artist := range artists {
		if artist != nil {
			if _, ok := artistsByID[artist.ID]; !ok {
				artistsByID[artist.ID] = artist
			}
		}
	}

	pairs := make([]*Pair, 0, len(matching))
	for _, p := range matching.Pairs() {
		pair := &Pair{
			Client:     p.Proposer,
			Artist:     p.Receiver,
			ClientInfo: clientsByID[p.Proposer],
			ArtistInfo: artistsByID[p.Receiver],
		}
		if score, ok := matrix[p.Proposer][p.Receiver]; ok {
			pair.Score = &score
		}
		pairs = append(pairs, pair)
	}
	return pairs
}
