// file: cmd/browse.go
// version: 2.0.0
// guid: 5b6c7d8e-9f0a-1b2c-3d4e-5f6a7b8cb0c0

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/obodeflix/obodeflix/internal/browse"
	"github.com/obodeflix/obodeflix/internal/client"
	"github.com/obodeflix/obodeflix/internal/models"
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:       "browse <series|season|episode|tag>",
	Short:     "Browse the catalog interactively",
	Long: `Browse a catalog listing page by page. Commands at the prompt:
  n / p          next / previous page
  g <page>       go to page
  s <text>       search (empty to clear)
  o <col> <dir>  order by column asc/desc
  d <id>         inactivate a row (asks confirmation) and refresh
  q              quit`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"series", "season", "episode", "tag"},
	RunE: func(cmd *cobra.Command, args []string) error {
		api := apiClient()
		switch args[0] {
		case "series":
			return browseEntity(api, os.Stdin, os.Stdout,
				browse.NewSeriesController, api.InactivateSeries,
				func(s models.Series) int64 { return s.ID },
				func(s models.Series) string { return fmt.Sprintf("%6d  %s", s.ID, s.MainName) })
		case "season":
			return browseEntity(api, os.Stdin, os.Stdout,
				browse.NewSeasonController, api.InactivateSeason,
				func(s models.Season) int64 { return s.ID },
				func(s models.Season) string { return fmt.Sprintf("%6d  %-40s series=%d", s.ID, s.Name, s.SeriesID) })
		case "episode":
			return browseEntity(api, os.Stdin, os.Stdout,
				browse.NewEpisodeController, api.InactivateEpisode,
				func(e models.Episode) int64 { return e.ID },
				episodeRow)
		case "tag":
			return browseEntity(api, os.Stdin, os.Stdout,
				browse.NewTagController, api.InactivateTag,
				func(t models.Tag) int64 { return t.ID },
				func(t models.Tag) string { return fmt.Sprintf("%6d  %s", t.ID, t.Name) })
		default:
			return fmt.Errorf("unknown entity %q", args[0])
		}
	},
}

type controllerFactory[T any] func(*client.Client, func(browse.State[T]), ...browse.Option[T]) *browse.Controller[T]

// browseEntity runs the shared prompt loop over one listing.
func browseEntity[T any](
	api *client.Client,
	in io.Reader,
	out io.Writer,
	factory controllerFactory[T],
	inactivate func(context.Context, int64) error,
	entityID func(T) int64,
	row func(T) string,
) error {
	render := func(state browse.State[T]) {
		if state.Loading {
			return
		}
		if state.Err != nil {
			fmt.Fprintf(out, "error: %v\n", state.Err)
			return
		}
		for _, item := range state.Page.Data {
			fmt.Fprintln(out, row(item))
		}
		fmt.Fprintf(out, "-- page %d/%d (%d total) --\n",
			state.Page.CurrentPage, state.Page.LastPage, state.Page.TotalQuantity)
	}

	ctrl := factory(api, render)
	defer ctrl.Stop()
	flow := browse.NewDeleteFlow(ctrl)
	ctrl.Load()

	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			fmt.Fprint(out, "> ")
			continue
		}
		switch fields[0] {
		case "q", "quit", "exit":
			return nil
		case "n":
			ctrl.NextPage()
		case "p":
			ctrl.PrevPage()
		case "g":
			if len(fields) > 1 {
				if page, err := strconv.Atoi(fields[1]); err == nil {
					ctrl.SetPage(page)
				}
			}
		case "s":
			ctrl.SetSearch(strings.Join(fields[1:], " "))
		case "o":
			if len(fields) > 2 {
				ctrl.SetOrder(fields[1], models.OrderBy(fields[2]))
			}
		case "d":
			if len(fields) > 1 {
				id, err := strconv.ParseInt(fields[1], 10, 64)
				if err != nil {
					fmt.Fprintln(out, "usage: d <id>")
					break
				}
				target, found := findRow(ctrl.State().Page.Data, entityID, id)
				if !found {
					fmt.Fprintf(out, "no row with id %d on this page\n", id)
					break
				}
				flow.Open(target)
				fmt.Fprintf(out, "inactivate%s? [y/N]: ", row(target))
				if !scanner.Scan() {
					flow.Cancel()
					return scanner.Err()
				}
				if !strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
					flow.Cancel()
					fmt.Fprintln(out, "kept")
					break
				}
				err = flow.Confirm(func() error {
					return inactivate(context.Background(), id)
				})
				if err != nil {
					fmt.Fprintf(out, "delete failed: %v\n", err)
				}
			}
		default:
			fmt.Fprintln(out, "commands: n p g s o d q")
		}
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}

// episodeRow renders one episode listing line with its duration literal.
func episodeRow(e models.Episode) string {
	return fmt.Sprintf("%6d  %-40s %-12s season=%d", e.ID, e.Name, models.FormatDuration(e.Duration), e.SeasonID)
}

// findRow looks an entity up by id on the currently rendered page.
func findRow[T any](rows []T, entityID func(T) int64, id int64) (T, bool) {
	for _, item := range rows {
		if entityID(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := apiClient().AdminStats(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("series:    %d\n", stats.Series)
		fmt.Printf("seasons:   %d\n", stats.Seasons)
		fmt.Printf("episodes:  %d\n", stats.Episodes)
		fmt.Printf("users:     %d\n", stats.Users)
		fmt.Printf("listeners: %d\n", stats.SSEClients)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(statsCmd)
}
