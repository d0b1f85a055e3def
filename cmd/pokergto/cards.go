package main

import (
	"fmt"
	"strings"

	"github.com/pokergto/engine/poker"
)

// parseCardString parses a concatenated or space-separated card string (e.g.
// "AsKd" or "As Kd") into its 2-character card tokens, mirroring
// cmd/poker-odds's "format 'AcKd QhJs' (space separated, quoted)" convention.
func parseCardString(s string) ([]string, error) {
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return nil, nil
	}
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("malformed card string %q: expected an even number of characters", s)
	}
	tokens := make([]string, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		tokens = append(tokens, s[i:i+2])
	}
	return tokens, nil
}

// parseCards parses each element of s (e.g. "As", "Td") into a poker.Card,
// reporting which token failed on error.
func parseCards(s []string) ([]poker.Card, error) {
	cards := make([]poker.Card, len(s))
	for i, raw := range s {
		c, err := poker.ParseCard(raw)
		if err != nil {
			return nil, fmt.Errorf("card %d (%q): %w", i+1, raw, err)
		}
		cards[i] = c
	}
	return cards, nil
}
