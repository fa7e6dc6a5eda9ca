package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/someonegg/stablematch"
	"github.com/someonegg/stablematch/commission"
)

func renderPairs(pairs []*commission.Pair) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Artist", "Artist Name", "Client", "Client Name", "Score"})

	for _, pair := range pairs {
		var clientName, artistName string
		if pair.ClientInfo != nil {
			clientName = pair.ClientInfo.Name
		}
		if pair.ArtistInfo != nil {
			artistName = pair.ArtistInfo.Name
		}
		tw.AppendRow(table.Row{pair.Artist, artistName, pair.Client, clientName, formatScore(pair.Score)})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func renderBlocking(pairs []stablematch.Pair) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Client", "Artist"})
	for _, pair := range pairs {
		tw.AppendRow(table.Row{pair.Proposer, pair.Receiver})
	}
	return tw.Render()
}
