// file: cmd/catalog.go
// version: 2.0.0
// guid: 7d8e9f0a-1b2c-3d4e-5f6a-7b8cd0e0f0a0

package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/obodeflix/obodeflix/internal/forms"
	"github.com/obodeflix/obodeflix/internal/models"
)

// seriesCmd groups the series mutations.
var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Create and update series",
}

var seriesCreateCmd = &cobra.Command{
	Use:   "create <main name>",
	Short: "Create a series",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		form := forms.NewSeriesForm()
		form.MainName = strings.Join(args, " ")
		fillSeriesForm(cmd, form)
		if problems := form.Validate(); len(problems) > 0 {
			return fmt.Errorf("%s", strings.Join(problems, "; "))
		}

		series, err := apiClient().CreateSeries(context.Background(), form.Payload())
		if err != nil {
			return err
		}
		fmt.Printf("Created series %d: %s\n", series.ID, series.MainName)
		return nil
	},
}

var seriesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a series",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}

		ctx := context.Background()
		api := apiClient()
		existing, err := api.GetSeries(ctx, id)
		if err != nil {
			return err
		}

		form := forms.SeriesFormFrom(existing)
		fillSeriesForm(cmd, form)
		if problems := form.Validate(); len(problems) > 0 {
			return fmt.Errorf("%s", strings.Join(problems, "; "))
		}

		series, err := api.UpdateSeries(ctx, id, form.Payload())
		if err != nil {
			return err
		}
		fmt.Printf("Updated series %d: %s\n", series.ID, series.MainName)
		return nil
	},
}

func fillSeriesForm(cmd *cobra.Command, form *forms.SeriesForm) {
	if cmd.Flags().Changed("name") {
		form.MainName, _ = cmd.Flags().GetString("name")
	}
	if cmd.Flags().Changed("alt-name") {
		form.AlternativeName, _ = cmd.Flags().GetString("alt-name")
	}
	if cmd.Flags().Changed("language") {
		form.MainNameLanguage, _ = cmd.Flags().GetString("language")
	}
	if cmd.Flags().Changed("description") {
		form.Description, _ = cmd.Flags().GetString("description")
	}
	if cmd.Flags().Changed("image") {
		form.ImageAddress, _ = cmd.Flags().GetString("image")
	}
	if cmd.Flags().Changed("tag") {
		ids, _ := cmd.Flags().GetInt64Slice("tag")
		for _, id := range ids {
			form.ToggleTag(id)
		}
	}
}

// seasonCmd groups the season mutations.
var seasonCmd = &cobra.Command{
	Use:   "season",
	Short: "Create, update and reorder seasons",
}

var seasonCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a season under a series",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seriesID, _ := cmd.Flags().GetInt64("series")
		form := forms.NewSeasonForm(seriesID)
		form.Name = strings.Join(args, " ")
		if err := fillSeasonForm(cmd, form); err != nil {
			return err
		}

		if useSeries, _ := cmd.Flags().GetBool("use-series-data"); useSeries {
			series, err := apiClient().GetSeries(context.Background(), seriesID)
			if err != nil {
				return err
			}
			form.UseSeriesData(series)
		}

		if problems := form.Validate(); len(problems) > 0 {
			return fmt.Errorf("%s", strings.Join(problems, "; "))
		}
		season, err := apiClient().CreateSeason(context.Background(), form.Payload())
		if err != nil {
			return err
		}
		fmt.Printf("Created season %d: %s\n", season.ID, season.Name)
		return nil
	},
}

var seasonUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a season",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}

		ctx := context.Background()
		api := apiClient()
		existing, err := api.GetSeason(ctx, id)
		if err != nil {
			return err
		}

		form := forms.SeasonFormFrom(existing)
		if cmd.Flags().Changed("name") {
			form.Name, _ = cmd.Flags().GetString("name")
		}
		if err := fillSeasonForm(cmd, form); err != nil {
			return err
		}
		if problems := form.Validate(); len(problems) > 0 {
			return fmt.Errorf("%s", strings.Join(problems, "; "))
		}

		season, err := api.UpdateSeason(ctx, id, form.Payload())
		if err != nil {
			return err
		}
		fmt.Printf("Updated season %d: %s\n", season.ID, season.Name)
		return nil
	},
}

// seasonReorderCmd assigns explicit positions, e.g.
// obodeflix season reorder --series 3 5=1 7=2
var seasonReorderCmd = &cobra.Command{
	Use:   "reorder <id=position>...",
	Short: "Reorder the seasons of a series",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seriesID, _ := cmd.Flags().GetInt64("series")
		positions := map[int64]int{}
		for _, arg := range args {
			parts := strings.SplitN(arg, "=", 2)
			if len(parts) != 2 {
				return fmt.Errorf("expected id=position, got %q", arg)
			}
			id, err := strconv.ParseInt(parts[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid season id %q", parts[0])
			}
			position, err := strconv.Atoi(parts[1])
			if err != nil || position < 1 {
				return fmt.Errorf("invalid position %q", parts[1])
			}
			positions[id] = position
		}

		if err := apiClient().ReorderSeasons(context.Background(), seriesID, positions); err != nil {
			return err
		}
		fmt.Printf("Reordered %d seasons\n", len(positions))
		return nil
	},
}

func fillSeasonForm(cmd *cobra.Command, form *forms.SeasonForm) error {
	if cmd.Flags().Changed("description") {
		form.Description, _ = cmd.Flags().GetString("description")
	}
	if cmd.Flags().Changed("type") {
		seasonType, _ := cmd.Flags().GetString("type")
		form.Type = models.SeasonType(strings.ToUpper(seasonType))
	}
	if cmd.Flags().Changed("position") {
		form.Position, _ = cmd.Flags().GetInt("position")
	}
	if cmd.Flags().Changed("image") {
		form.ImageAddress, _ = cmd.Flags().GetString("image")
	}
	if cmd.Flags().Changed("track") {
		// --track "AUDIO:Japanese" --track "SUBTITLE:English"
		tracks, _ := cmd.Flags().GetStringSlice("track")
		for _, entry := range tracks {
			parts := strings.SplitN(entry, ":", 2)
			if len(parts) != 2 {
				return fmt.Errorf("expected TYPE:title, got %q", entry)
			}
			form.AddTrack(parts[1], models.TrackType(strings.ToUpper(parts[0])))
		}
	}
	return nil
}

// episodeCmd groups the episode mutations.
var episodeCmd = &cobra.Command{
	Use:   "episode",
	Short: "Create and update episodes",
}

var episodeCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an episode under a season",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seasonID, _ := cmd.Flags().GetInt64("season")
		form := forms.NewEpisodeForm(seasonID)
		form.Name = strings.Join(args, " ")
		fillEpisodeForm(cmd, form)
		if problems := form.Validate(); len(problems) > 0 {
			return fmt.Errorf("%s", strings.Join(problems, "; "))
		}

		episode, err := apiClient().CreateEpisode(context.Background(), form.Payload())
		if err != nil {
			return err
		}
		fmt.Printf("Created episode %d: %s\n", episode.ID, episode.Name)
		return nil
	},
}

var episodeUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an episode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}

		ctx := context.Background()
		api := apiClient()
		existing, err := api.GetEpisode(ctx, id)
		if err != nil {
			return err
		}

		form := forms.EpisodeFormFrom(existing)
		if cmd.Flags().Changed("name") {
			form.Name, _ = cmd.Flags().GetString("name")
		}
		fillEpisodeForm(cmd, form)
		if problems := form.Validate(); len(problems) > 0 {
			return fmt.Errorf("%s", strings.Join(problems, "; "))
		}

		episode, err := api.UpdateEpisode(ctx, id, form.Payload())
		if err != nil {
			return err
		}
		fmt.Printf("Updated episode %d: %s\n", episode.ID, episode.Name)
		return nil
	},
}

func fillEpisodeForm(cmd *cobra.Command, form *forms.EpisodeForm) {
	if cmd.Flags().Changed("duration") {
		form.Duration, _ = cmd.Flags().GetInt("duration")
	}
	if cmd.Flags().Changed("path") {
		form.Path, _ = cmd.Flags().GetString("path")
	}
	if cmd.Flags().Changed("position") {
		form.Position, _ = cmd.Flags().GetInt("position")
	}
}

// tagCmd groups the tag mutations.
var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Create and rename tags",
}

var tagCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a tag",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, err := apiClient().CreateTag(context.Background(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("Created tag %d: %s\n", tag.ID, tag.Name)
		return nil
	},
}

var tagRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a tag",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		tag, err := apiClient().UpdateTag(context.Background(), id, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Printf("Renamed tag %d to %s\n", tag.ID, tag.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seriesCmd)
	seriesCmd.AddCommand(seriesCreateCmd)
	seriesCmd.AddCommand(seriesUpdateCmd)
	for _, cmd := range []*cobra.Command{seriesCreateCmd, seriesUpdateCmd} {
		cmd.Flags().String("name", "", "main name")
		cmd.Flags().String("alt-name", "", "alternative name")
		cmd.Flags().String("language", "", "main name language")
		cmd.Flags().String("description", "", "description")
		cmd.Flags().String("image", "", "image address")
		cmd.Flags().Int64Slice("tag", nil, "toggle a tag id (repeatable)")
	}

	rootCmd.AddCommand(seasonCmd)
	seasonCmd.AddCommand(seasonCreateCmd)
	seasonCmd.AddCommand(seasonUpdateCmd)
	seasonCmd.AddCommand(seasonReorderCmd)
	for _, cmd := range []*cobra.Command{seasonCreateCmd, seasonUpdateCmd} {
		cmd.Flags().Int64("series", 0, "parent series id")
		cmd.Flags().String("name", "", "season name")
		cmd.Flags().String("description", "", "description")
		cmd.Flags().String("type", "", "TV, MOVIE or OTHER")
		cmd.Flags().Int("position", 1, "position within the series")
		cmd.Flags().String("image", "", "image address")
		cmd.Flags().StringSlice("track", nil, "append a track as TYPE:title (repeatable)")
	}
	seasonCreateCmd.Flags().Bool("use-series-data", false, "copy name, description and image from the series")
	seasonReorderCmd.Flags().Int64("series", 0, "series whose seasons to reorder")

	rootCmd.AddCommand(episodeCmd)
	episodeCmd.AddCommand(episodeCreateCmd)
	episodeCmd.AddCommand(episodeUpdateCmd)
	for _, cmd := range []*cobra.Command{episodeCreateCmd, episodeUpdateCmd} {
		cmd.Flags().Int64("season", 0, "parent season id")
		cmd.Flags().String("name", "", "episode name")
		cmd.Flags().Int("duration", 0, "duration in seconds")
		cmd.Flags().String("path", "", "media file path")
		cmd.Flags().Int("position", 1, "position within the season")
	}

	rootCmd.AddCommand(tagCmd)
	tagCmd.AddCommand(tagCreateCmd)
	tagCmd.AddCommand(tagRenameCmd)
}
