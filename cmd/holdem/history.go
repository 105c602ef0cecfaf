package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lox/holdem-env/internal/phh"
)

// HistoryCmd is the root command for PHH utilities
type HistoryCmd struct {
	Show HistoryShowCmd `cmd:"" help:"Print a summary of PHH hand files"`
}

// HistoryShowCmd summarises recorded hands
type HistoryShowCmd struct {
	Files   []string `arg:"" name:"file" type:"existingfile" help:"PHH files to show"`
	Actions bool     `help:"List every action"`
}

func (c *HistoryShowCmd) Run() error {
	return c.show(os.Stdout)
}

func (c *HistoryShowCmd) show(out io.Writer) error {
	for _, path := range c.Files {
		hand, err := loadHand(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		writeHand(out, hand, c.Actions)
	}
	return nil
}

func loadHand(path string) (*phh.HandHistory, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var hand phh.HandHistory
	if err := phh.Decode(f, &hand); err != nil {
		return nil, err
	}
	return &hand, nil
}

func writeHand(out io.Writer, hand *phh.HandHistory, actions bool) {
	fmt.Fprintf(out, "Hand %s", hand.HandID)
	if hand.Table != "" {
		fmt.Fprintf(out, " at %s", hand.Table)
	}
	if hand.Year > 0 {
		fmt.Fprintf(out, " on %04d-%02d-%02d %s %s", hand.Year, hand.Month, hand.Day, hand.Time, hand.TimeZone)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s, blinds %v, %d actions\n", hand.Variant, hand.BlindsOrStraddles, len(hand.Actions))

	for i, name := range hand.Players {
		line := fmt.Sprintf("  %-8s", name)
		if i < len(hand.StartingStacks) && i < len(hand.FinishingStacks) {
			line += fmt.Sprintf(" %6d -> %6d", hand.StartingStacks[i], hand.FinishingStacks[i])
		}
		if i < len(hand.Rewards) {
			line += fmt.Sprintf("  %+g", hand.Rewards[i])
		}
		fmt.Fprintln(out, strings.TrimRight(line, " "))
	}

	if actions {
		for _, a := range hand.Actions {
			fmt.Fprintf(out, "    %s\n", a)
		}
	}
}
