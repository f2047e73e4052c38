// Copyright 2025, Omnimatch Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/omnimatchdev/omnimatch/pkg/config"
	"github.com/omnimatchdev/omnimatch/pkg/match"
	"github.com/omnimatchdev/omnimatch/server/pkg/boot"
	"github.com/omnimatchdev/omnimatch/server/pkg/serverbase"
)

// OmnimatchVersion is the current version of omnimatch
var OmnimatchVersion = "v0.0.0"

// OmnimatchBuildTime is the build timestamp of omnimatch
var OmnimatchBuildTime = ""

const maxLineSize = 1024 * 1024

func readCandidates(files []string) ([]string, error) {
	var readers []io.Reader
	if len(files) == 0 {
		readers = append(readers, os.Stdin)
	} else {
		for _, fileName := range files {
			fd, err := os.Open(fileName)
			if err != nil {
				return nil, fmt.Errorf("opening %s: %w", fileName, err)
			}
			defer fd.Close()
			readers = append(readers, fd)
		}
	}

	var candidates []string
	for _, r := range readers {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			candidates = append(candidates, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
	}
	return candidates, nil
}

func runFilter(cmd *cobra.Command, args []string) error {
	pattern := args[0]
	candidates, err := readCandidates(args[1:])
	if err != nil {
		return err
	}

	rank, _ := cmd.Flags().GetBool("rank")
	fuzzy, _ := cmd.Flags().GetBool("fuzzy")
	positions, _ := cmd.Flags().GetBool("positions")
	countOnly, _ := cmd.Flags().GetBool("count")

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	var ranked []match.RankedCandidate
	if fuzzy {
		m := match.MakeFuzzyMatcher()
		m.SetPattern(pattern)
		ranked = match.RankFuzzy(m, candidates)
	} else {
		c := match.NewCombined(pattern)
		if rank {
			ranked = match.RankCandidates(c, candidates)
		} else {
			// Streaming order: keep input order, drop non-matches.
			for _, term := range candidates {
				pos, triggered, found := c.Find(term)
				if !found {
					continue
				}
				ranked = append(ranked, match.RankedCandidate{Term: term, Position: pos, Triggered: triggered})
			}
		}
	}

	if countOnly {
		fmt.Fprintf(out, "%d\n", len(ranked))
		return nil
	}
	for _, cand := range ranked {
		if positions {
			fmt.Fprintf(out, "%d:%s\n", cand.Position, cand.Term)
		} else {
			fmt.Fprintln(out, cand.Term)
		}
	}
	return nil
}

func main() {
	// Set serverbase version from main version (which gets overridden by build tags)
	serverbase.OmnimatchVersion = OmnimatchVersion
	serverbase.OmnimatchBuildTime = OmnimatchBuildTime

	rootCmd := &cobra.Command{
		Use:   "omnimatch",
		Short: "Omnimatch matches candidate strings against any pattern syntax",
		Long:  `Omnimatch interprets one pattern as a regular expression, a shell-style wildcard, and a literal substring at once, and matches candidates against whichever interpretations hold.`,
		// No Run function for root command - it will just display help and exit
	}

	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Run the omnimatch filter server",
		Long:  `Run the omnimatch server which serves the match API over HTTP and websocket.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("listen"); addr != "" {
				cfg.ListenAddr = addr
			}
			return boot.RunServer(cfg)
		},
	}
	serverCmd.Flags().String("listen", "", "Listen address (overrides config)")

	filterCmd := &cobra.Command{
		Use:   "filter PATTERN [files...]",
		Short: "Filter candidate lines against a pattern",
		Long: `Filter candidate lines (from files or stdin) against a pattern.
The pattern is tried as a regular expression, a wildcard, and a literal
substring; a line survives if any interpretation matches.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runFilter,
	}
	filterCmd.Flags().Bool("rank", false, "Sort output: most matcher agreement first, then earliest match")
	filterCmd.Flags().Bool("fuzzy", false, "Fuzzy subsequence matching (fzf), ranked by score")
	filterCmd.Flags().Bool("positions", false, "Prefix each line with its match position")
	filterCmd.Flags().Bool("count", false, "Print only the number of matching lines")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of omnimatch",
		Run: func(cmd *cobra.Command, args []string) {
			if OmnimatchBuildTime != "" {
				fmt.Printf("%s+%s\n", OmnimatchVersion, OmnimatchBuildTime)
			} else {
				fmt.Printf("%s+dev\n", OmnimatchVersion)
			}
		},
	}

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		logrus.Errorf("%v", err)
		os.Exit(1)
	}
}
