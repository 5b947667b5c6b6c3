// file: cmd/import.go
// version: 2.0.0
// guid: 6c7d8e9f-0a1b-2c3d-4e5f-6a7b8cc0d0e0

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/obodeflix/obodeflix/internal/client"
	"github.com/obodeflix/obodeflix/internal/importer"
	"github.com/obodeflix/obodeflix/internal/models"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import raw media files as episodes",
	Long: `Walk through importing a raw folder: pick the folder, choose and order
the files, pick the target season, and create one episode per file. The
import stops at the first failure; everything created before it stays.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		api := apiClient()
		in := bufio.NewScanner(os.Stdin)

		folder, _ := cmd.Flags().GetString("folder")
		if folder == "" {
			folders, err := api.ListEpisodeFileFolders(ctx)
			if err != nil {
				return err
			}
			folder, err = pickString(in, os.Stdout, "Folder to import", folders)
			if err != nil {
				return err
			}
		}

		files, err := api.ListEpisodeFileFiles(ctx, folder)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no media files in %q", folder)
		}

		chooser := importer.NewChooser(files)
		all, _ := cmd.Flags().GetBool("all")
		if all {
			chooser.ChooseAll()
		} else if err := chooseFiles(in, os.Stdout, chooser); err != nil {
			return err
		}
		if pattern, _ := cmd.Flags().GetString("pattern"); pattern != "" {
			if err := chooser.AutoSort(pattern); err != nil {
				return fmt.Errorf("invalid sort pattern: %w", err)
			}
		}
		chosen := chooser.Chosen()
		if len(chosen) == 0 {
			return fmt.Errorf("no files chosen")
		}

		seasonID, _ := cmd.Flags().GetInt64("season")
		if seasonID == 0 {
			seasonID, err = pickSeason(ctx, in, os.Stdout, api, folder)
			if err != nil {
				return err
			}
		}

		position, _ := cmd.Flags().GetInt("position")
		if position == 0 {
			position = askInitialPosition(in, os.Stdout)
		}
		countInTitle, _ := cmd.Flags().GetBool("count-position-in-title")

		bar := progressbar.NewOptions(len(chosen),
			progressbar.OptionSetDescription("importing"),
			progressbar.OptionShowCount(),
		)
		imp := importer.New(api)
		imp.OnProgress(func(done, total int) { bar.Set(done) })

		result := imp.Run(ctx, importer.Job{
			SeasonID:             seasonID,
			Files:                chosen,
			InitialPosition:      position,
			CountPositionInTitle: countInTitle,
		})
		fmt.Println()
		fmt.Printf("Imported %d of %d episodes\n", result.Succeeded(), len(chosen))
		if result.Err != nil {
			return fmt.Errorf("stopped at %q: %w", result.Failed.Name, result.Err)
		}
		return nil
	},
}

// pickString prompts for one of the options by number.
func pickString(in *bufio.Scanner, out io.Writer, label string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("nothing to choose from")
	}
	for i, option := range options {
		fmt.Fprintf(out, "%3d) %s\n", i+1, option)
	}
	fmt.Fprintf(out, "%s [1-%d]: ", label, len(options))
	for in.Scan() {
		n, err := strconv.Atoi(strings.TrimSpace(in.Text()))
		if err == nil && n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		fmt.Fprintf(out, "%s [1-%d]: ", label, len(options))
	}
	return "", fmt.Errorf("input closed")
}

// askInitialPosition reads the position the first episode lands on.
// Empty input continues from the season's existing episode count.
func askInitialPosition(in *bufio.Scanner, out io.Writer) int {
	fmt.Fprint(out, "Initial position (empty continues the season): ")
	for in.Scan() {
		text := strings.TrimSpace(in.Text())
		if text == "" {
			return 0
		}
		if n, err := strconv.Atoi(text); err == nil && n >= 1 {
			return n
		}
		fmt.Fprint(out, "Initial position (empty continues the season): ")
	}
	return 0
}

// chooseFiles runs the two-list picker. Numbers move files between the
// lists, "all" takes everything, "done" finishes.
func chooseFiles(in *bufio.Scanner, out io.Writer, chooser *importer.Chooser) error {
	for {
		available := chooser.Available()
		chosen := chooser.Chosen()

		fmt.Fprintln(out, "Available:")
		for i, file := range available {
			fmt.Fprintf(out, "%3d) %s\n", i+1, file.Name)
		}
		fmt.Fprintln(out, "Chosen (import order):")
		for i, file := range chosen {
			fmt.Fprintf(out, "%3d) %s\n", i+1, file.Name)
		}
		fmt.Fprint(out, "add <n> / drop <n> / all / none / done: ")

		if !in.Scan() {
			return fmt.Errorf("input closed")
		}
		fields := strings.Fields(in.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "done":
			return nil
		case "all":
			chooser.ChooseAll()
		case "none":
			chooser.UnchooseAll()
		case "add":
			if len(fields) > 1 {
				if n, err := strconv.Atoi(fields[1]); err == nil {
					chooser.Choose(n - 1)
				}
			}
		case "drop":
			if len(fields) > 1 {
				if n, err := strconv.Atoi(fields[1]); err == nil {
					chooser.Unchoose(n - 1)
				}
			}
		}
	}
}

// pickSeason offers fuzzy suggestions for the folder name first, then the
// full season list.
func pickSeason(ctx context.Context, in *bufio.Scanner, out io.Writer, api *client.Client, folder string) (int64, error) {
	seasons, err := api.ListSeasonsNoTracks(ctx)
	if err != nil {
		return 0, err
	}
	if len(seasons) == 0 {
		return 0, fmt.Errorf("no seasons exist yet, create one first")
	}

	candidates := seasons
	if suggestions := importer.SuggestSeasons(folder, seasons, 5); len(suggestions) > 0 {
		candidates = make([]models.Season, len(suggestions))
		for i, suggestion := range suggestions {
			candidates[i] = suggestion.Season
		}
		fmt.Fprintf(out, "Seasons matching %q (0 to list all):\n", folder)
	}

	options := make([]string, len(candidates))
	for i, season := range candidates {
		options[i] = fmt.Sprintf("%s (id %d)", season.Name, season.ID)
	}
	choice, err := pickString(in, out, "Target season", options)
	if err != nil {
		return 0, err
	}
	for i, option := range options {
		if option == choice {
			return candidates[i].ID, nil
		}
	}
	return 0, fmt.Errorf("no season chosen")
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("folder", "", "raw folder to import, skips the folder prompt")
	importCmd.Flags().Int64("season", 0, "target season id, skips the season prompt")
	importCmd.Flags().String("pattern", "", "regex whose first capture group orders the files, e.g. 'ep(\\d+)'")
	importCmd.Flags().Bool("all", false, "import every file in the folder")
	importCmd.Flags().Int("position", 0, "position of the first episode, 0 continues the season")
	importCmd.Flags().Bool("count-position-in-title", false, "number titles from the initial position instead of 1")
}
