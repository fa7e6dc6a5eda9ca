// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/someonegg/stablematch/commission"
	"github.com/someonegg/stablematch/scores"
)

type input struct {
	clientFile string
	artistFile string
	scoreFile  string
	configFile string
	minScore   *float64
	verbose    bool
}

type Clients struct {
	Clients []*commission.Client `json:"clients"`
}

type Artists struct {
	Artists []*commission.Artist `json:"artists"`
}

type Scores struct {
	Scores []scores.Record `json:"scores" yaml:"scores"`
}

type Pairs struct {
	Pairs   []*commission.Pair  `json:"pairs"`
	Summary *commission.Summary `json:"summary,omitempty"`
}

type loaded struct {
	matcher *commission.Matcher
	clients []*commission.Client
	artists []*commission.Artist
	scorer  scores.Scorer
}

func doMatch(ctx context.Context, in input, outFile string, table bool) error {
	l, err := load(in)
	if err != nil {
		return err
	}

	pairs, summ := l.matcher.Match(l.clients, l.artists, l.scorer)
	fmt.Printf("%+v\n", summ)

	if table {
		fmt.Println(renderPairs(pairs))
	}

	err = writePairs(outFile, Pairs{Pairs: pairs, Summary: &summ})
	if err != nil {
		return fmt.Errorf("write pairs file failed: %w", err)
	}

	return nil
}

func doVerify(ctx context.Context, in input, pairsFile string) error {
	l, err := load(in)
	if err != nil {
		return err
	}

	pairs, err := loadPairs(pairsFile)
	if err != nil {
		return fmt.Errorf("load pairs file failed: %w", err)
	}

	blocking, err := l.matcher.Verify(l.clients, l.artists, l.scorer, pairs)
	if err != nil {
		return fmt.Errorf("invalid matching: %w", err)
	}
	if len(blocking) > 0 {
		fmt.Println(renderBlocking(blocking))
		return fmt.Errorf("matching is not stable: %d blocking pairs", len(blocking))
	}

	fmt.Println("stable:", len(pairs), "pairs")
	return nil
}

func load(in input) (*loaded, error) {
	matcher := &commission.Matcher{}
	if in.configFile != "" {
		var err error
		matcher, err = commission.LoadConfig(in.configFile)
		if err != nil {
			return nil, fmt.Errorf("load config file failed: %w", err)
		}
	}
	if in.minScore != nil {
		matcher.MinScore = in.minScore
	}
	if in.verbose {
		matcher.Verbose = true
	}
	level := slog.LevelWarn
	if matcher.Verbose {
		level = slog.LevelDebug
	}
	matcher.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	clients, err := loadClients(in.clientFile)
	if err != nil {
		return nil, fmt.Errorf("load client file failed: %w", err)
	}

	artists, err := loadArtists(in.artistFile)
	if err != nil {
		return nil, fmt.Errorf("load artist file failed: %w", err)
	}

	var scorer scores.Scorer
	if in.scoreFile != "" {
		records, err := loadScores(in.scoreFile)
		if err != nil {
			return nil, fmt.Errorf("load score file failed: %w", err)
		}
		scorer = scores.NewTable(records)
	}

	return &loaded{
		matcher: matcher,
		clients: clients,
		artists: artists,
		scorer:  scorer,
	}, nil
}

func decodeJSON(file string, v interface{}) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func loadClients(file string) ([]*commission.Client, error) {
	var clients Clients
	if err := decodeJSON(file, &clients); err != nil {
		return nil, err
	}
	return clients.Clients, nil
}

func loadArtists(file string) ([]*commission.Artist, error) {
	var artists Artists
	if err := decodeJSON(file, &artists); err != nil {
		return nil, err
	}
	return artists.Artists, nil
}

func loadScores(file string) ([]scores.Record, error) {
	var recs Scores

	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &recs); err != nil {
			return nil, err
		}
	default:
		if err := decodeJSON(file, &recs); err != nil {
			return nil, err
		}
	}

	return recs.Scores, nil
}

func loadPairs(file string) ([]*commission.Pair, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var pairs Pairs
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, err
	}
	return pairs.Pairs, nil
}

func writePairs(file string, pairs Pairs) error {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "   ")
	if err := encoder.Encode(pairs); err != nil {
		return err
	}

	return os.WriteFile(file, buf.Bytes(), 0644)
}

func formatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return strconv.FormatFloat(*score, 'g', -1, 64)
}
