// file: internal/importer/importer.go
// version: 2.0.0
// guid: 9b0c1d2e-3f4a-5b6c-7d8e-9f0a1b2c3d40

package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/obodeflix/obodeflix/internal/client"
	"github.com/obodeflix/obodeflix/internal/metrics"
	"github.com/obodeflix/obodeflix/internal/models"
)

// episodeCreator is the slice of the API client the importer needs.
type episodeCreator interface {
	CreateEpisode(ctx context.Context, payload client.EpisodePayload) (*models.Episode, error)
	GetSeason(ctx context.Context, id int64) (*models.Season, error)
}

// Progress is called after each file attempt with the number of files
// handled so far and the total.
type Progress func(done, total int)

// Result reports how an import run ended. Created holds the episodes that
// made it; when Err is set, Failed names the file the run stopped at.
type Result struct {
	Created []models.Episode
	Failed  *models.EpisodeFile
	Err     error
}

// Succeeded returns how many episodes were created before the run ended.
func (r *Result) Succeeded() int { return len(r.Created) }

// Job describes one import run.
type Job struct {
	SeasonID int64
	Files    []models.EpisodeFile
	// InitialPosition is the catalog position the first file lands on.
	// Zero continues from the season's existing episode count.
	InitialPosition int
	// CountPositionInTitle numbers the titles from InitialPosition
	// instead of restarting at 1.
	CountPositionInTitle bool
}

// Importer creates episodes for chosen files against one season.
type Importer struct {
	api      episodeCreator
	progress Progress
}

func New(api episodeCreator) *Importer {
	return &Importer{api: api}
}

// OnProgress sets the progress callback. The CLI wires a progress bar
// here.
func (imp *Importer) OnProgress(progress Progress) {
	imp.progress = progress
}

// Run creates one episode per file, in order, starting at the job's
// initial position so a second batch can continue where the first ended.
// The run is sequential and stops at the first failure: everything created
// before it stays, the result says which file broke and why.
func (imp *Importer) Run(ctx context.Context, job Job) Result {
	started := time.Now()
	metrics.IncImportStarted()

	season, err := imp.api.GetSeason(ctx, job.SeasonID)
	if err != nil {
		metrics.IncImportFailed()
		return Result{Err: err}
	}
	initial := job.InitialPosition
	if initial < 1 {
		initial = len(season.Episodes) + 1
	}

	result := Result{Created: []models.Episode{}}
	for i, file := range job.Files {
		if err := ctx.Err(); err != nil {
			failed := file
			result.Failed = &failed
			result.Err = err
			break
		}

		titleNumber := i + 1
		if job.CountPositionInTitle {
			titleNumber = initial + i
		}
		episode, err := imp.api.CreateEpisode(ctx, client.EpisodePayload{
			SeasonID: job.SeasonID,
			Name:     EpisodeName(season.Name, titleNumber),
			Duration: file.Duration,
			Path:     file.Path,
			Position: initial + i,
		})
		if err != nil {
			failed := file
			result.Failed = &failed
			result.Err = err
			break
		}
		result.Created = append(result.Created, *episode)
		if imp.progress != nil {
			imp.progress(i+1, len(job.Files))
		}
	}

	metrics.AddImportedEpisodes(len(result.Created))
	metrics.ObserveImportDuration(time.Since(started))
	if result.Err != nil {
		metrics.IncImportFailed()
	}
	return result
}

// EpisodeName builds the canonical episode title for the n-th imported
// file of a season.
func EpisodeName(seasonName string, n int) string {
	return fmt.Sprintf("%s Episódio %d", seasonName, n)
}
