package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "match-gen",
		Usage: "Utility for pairing clients with artists",
		Commands: []*cli.Command{
			matchCmd,
			verifyCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
}

var inputFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     "client",
		Required: true,
		Usage:    "specify the input client.json",
	},
	&cli.StringFlag{
		Name:     "artist",
		Required: true,
		Usage:    "specify the input artist.json",
	},
	&cli.StringFlag{
		Name:  "score",
		Usage: "specify the input score records (.json or .yaml), enables score mode",
	},
	&cli.StringFlag{
		Name:  "config",
		Usage: "specify the matcher config (.yaml)",
	},
	&cli.Float64Flag{
		Name:  "min-score",
		Usage: "ignore artists scored below this (score mode, overrides config)",
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "log every proposal to stderr",
	},
}

var matchCmd = &cli.Command{
	Name:    "match",
	Usage:   "Compute a stable matching",
	Aliases: []string{"m"},
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:     "out",
			Required: true,
			Usage:    "specify the output pairs.json",
		},
		&cli.BoolFlag{
			Name:  "table",
			Usage: "print the pairs as a table",
		},
	}, inputFlags...),
	Action: func(ctx *cli.Context) error {
		in, err := inputFromContext(ctx)
		if err != nil {
			return err
		}
		return doMatch(ctx.Context, in, ctx.String("out"), ctx.Bool("table"))
	},
}

var verifyCmd = &cli.Command{
	Name:  "verify",
	Usage: "Check that a matching is stable",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:     "pairs",
			Required: true,
			Usage:    "specify the pairs.json to check",
		},
	}, inputFlags...),
	Action: func(ctx *cli.Context) error {
		in, err := inputFromContext(ctx)
		if err != nil {
			return err
		}
		return doVerify(ctx.Context, in, ctx.String("pairs"))
	},
}

func inputFromContext(ctx *cli.Context) (input, error) {
	in := input{
		clientFile: ctx.String("client"),
		artistFile: ctx.String("artist"),
		scoreFile:  ctx.String("score"),
		configFile: ctx.String("config"),
		verbose:    ctx.Bool("verbose"),
	}
	if ctx.IsSet("min-score") {
		v := ctx.Float64("min-score")
		if !(v >= 0) {
			return in, errors.New("invalid min-score")
		}
		in.minScore = &v
	}
	return in, nil
}
