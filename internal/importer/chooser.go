// file: internal/importer/chooser.go
// version: 2.0.0
// guid: 7f8a9b0c-1d2e-3f4a-5b6c-7d8e9f0a1b20

// Package importer turns raw media files into catalog episodes. It holds
// the state of the import wizard: which files of a folder are chosen, in
// what order, and which season they land in.
package importer

import (
	"regexp"
	"strconv"

	"github.com/obodeflix/obodeflix/internal/models"
)

// Chooser is the two-list state of the file picker: every file of the
// folder starts on the available side, chosen files move to the other list
// and their order there becomes the episode order.
type Chooser struct {
	available []models.EpisodeFile
	chosen    []models.EpisodeFile
}

// NewChooser starts with all files available and none chosen.
func NewChooser(files []models.EpisodeFile) *Chooser {
	return &Chooser{available: append([]models.EpisodeFile(nil), files...)}
}

// Available returns the files not yet chosen, in folder order.
func (c *Chooser) Available() []models.EpisodeFile {
	return append([]models.EpisodeFile(nil), c.available...)
}

// Chosen returns the chosen files in import order.
func (c *Chooser) Chosen() []models.EpisodeFile {
	return append([]models.EpisodeFile(nil), c.chosen...)
}

// Choose moves the available file at position i to the end of the chosen
// list. Out-of-range is a no-op.
func (c *Chooser) Choose(i int) {
	if i < 0 || i >= len(c.available) {
		return
	}
	c.chosen = append(c.chosen, c.available[i])
	c.available = append(c.available[:i], c.available[i+1:]...)
}

// ChooseAll moves every remaining available file over, keeping their
// folder order.
func (c *Chooser) ChooseAll() {
	c.chosen = append(c.chosen, c.available...)
	c.available = c.available[:0]
}

// Unchoose moves the chosen file at position i back to the available list.
func (c *Chooser) Unchoose(i int) {
	if i < 0 || i >= len(c.chosen) {
		return
	}
	c.available = append(c.available, c.chosen[i])
	c.chosen = append(c.chosen[:i], c.chosen[i+1:]...)
}

// UnchooseAll empties the chosen list.
func (c *Chooser) UnchooseAll() {
	c.available = append(c.available, c.chosen...)
	c.chosen = c.chosen[:0]
}

// MoveUp swaps the chosen file with the one above it.
func (c *Chooser) MoveUp(i int) {
	if i < 1 || i >= len(c.chosen) {
		return
	}
	c.chosen[i-1], c.chosen[i] = c.chosen[i], c.chosen[i-1]
}

// MoveDown swaps the chosen file with the one below it.
func (c *Chooser) MoveDown(i int) {
	if i < 0 || i >= len(c.chosen)-1 {
		return
	}
	c.chosen[i], c.chosen[i+1] = c.chosen[i+1], c.chosen[i]
}

// AutoSort orders the chosen list by the number the pattern's first
// capture group extracts from each file name. Files the pattern does not
// match, and matches that are not numbers, sort as 0. The sort is stable,
// so those files keep their relative order at the front.
func (c *Chooser) AutoSort(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}

	keys := make(map[string]int, len(c.chosen))
	for _, file := range c.chosen {
		keys[file.Path] = sortKey(re, file.Name)
	}

	// Insertion sort keeps equal keys in their current order.
	for i := 1; i < len(c.chosen); i++ {
		for j := i; j > 0 && keys[c.chosen[j].Path] < keys[c.chosen[j-1].Path]; j-- {
			c.chosen[j-1], c.chosen[j] = c.chosen[j], c.chosen[j-1]
		}
	}
	return nil
}

// sortKey extracts the episode number from name. The first capture group
// is used when the pattern has one, the whole match otherwise.
func sortKey(re *regexp.Regexp, name string) int {
	matches := re.FindStringSubmatch(name)
	if matches == nil {
		return 0
	}
	candidate := matches[0]
	if len(matches) > 1 {
		candidate = matches[1]
	}
	number, err := strconv.Atoi(candidate)
	if err != nil {
		return 0
	}
	return number
}
