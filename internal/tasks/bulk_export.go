package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/desertthunder/moviehub/internal/formatter"
	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
)

const manifestFile = "export_manifest.json"

// BulkExportOpts contains configuration for exporting every catalog.
type BulkExportOpts struct {
	Format     formatter.Format // Export format (default: csv)
	OutputDir  string           // Base output directory (default: moviehub_export_{epoch})
	NumWorkers int              // Concurrent workers (default: 4, max 8)
	Site       bool             // Also render each user's HTML catalog page
	SiteTitle  string           // Page title for rendered sites
}

// UserExportResult is the outcome of exporting a single user's catalog.
type UserExportResult struct {
	UserID   int64    `json:"user_id"`
	UserName string   `json:"user_name"`
	Movies   int      `json:"movies"`
	Files    []string `json:"files"`
	Success  bool     `json:"success"`
	Error    error    `json:"-"`
	Message  string   `json:"error,omitempty"`
}

// BulkExportResult summarizes a [Engine.BulkExport] run.
type BulkExportResult struct {
	Format            formatter.Format   `json:"format"`
	ExportedAt        time.Time          `json:"exported_at"`
	TotalUsers        int                `json:"total_users"`
	SuccessfulExports int                `json:"successful_exports"`
	FailedExports     int                `json:"failed_exports"`
	OutputDirectory   string             `json:"output_directory"`
	ManifestPath      string             `json:"-"`
	Results           []UserExportResult `json:"results"`
}

// BulkExport exports every user's catalog concurrently and writes a manifest.
//
// Implements a worker pool over users. Per-user failures are recorded in the result; only setup failures (listing
// users, creating the output directory, writing the manifest) are returned as errors.
func (e *Engine) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, opts BulkExportOpts) (*BulkExportResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.FormatCSV
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("moviehub_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}

	e.sendProgress(prog, fetchUsersUpdate())
	users, err := e.catalog.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		Format:          opts.Format,
		ExportedAt:      time.Now().UTC(),
		TotalUsers:      len(users),
		OutputDirectory: opts.OutputDir,
		Results:         make([]UserExportResult, 0, len(users)),
	}

	jobs := make(chan exportJob, len(users))
	results := make(chan UserExportResult, len(users))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	stems := fileStems(users)
	for _, u := range users {
		jobs <- exportJob{user: u, stem: stems[u.ID]}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(users), res.UserName, res.Movies))
		} else {
			result.FailedExports++
			res.Message = res.Error.Error()
			e.sendProgress(prog, exportFailedUpdate(completed, len(users), res.UserName, res.Error))
			e.logger.Warn("export failed", "user", res.UserName, "error", res.Error)
		}
		result.Results = append(result.Results, res)
	}

	sort.Slice(result.Results, func(i, j int) bool { return result.Results[i].UserName < result.Results[j].UserName })

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export cancelled: %w", err)
	}

	manifestPath := filepath.Join(opts.OutputDir, manifestFile)
	e.sendProgress(prog, writeManifestUpdate(manifestPath))
	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

type exportJob struct {
	user models.User
	stem string
}

// fileStems assigns each user a file name stem that is unique within one export.
//
// Names that sanitize to the same stem ("Ada Lovelace", "Ada_Lovelace") get their user id appended.
func fileStems(users []models.User) map[int64]string {
	counts := make(map[string]int, len(users))
	for _, u := range users {
		counts[models.NewSession(u).SafeName()]++
	}

	stems := make(map[int64]string, len(users))
	taken := make(map[string]bool, len(users))
	for _, u := range users {
		stem := models.NewSession(u).SafeName()
		if counts[stem] > 1 {
			stem = fmt.Sprintf("%s_%d", stem, u.ID)
		}
		for taken[stem] {
			stem += "_"
		}
		taken[stem] = true
		stems[u.ID] = stem
	}
	return stems
}

// exportWorker is a worker goroutine that exports catalogs from the jobs channel.
func (e *Engine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	results chan<- UserExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			results <- UserExportResult{UserID: job.user.ID, UserName: job.user.Name, Error: ctx.Err()}
			continue
		}
		results <- e.exportUser(ctx, job, opts)
	}
}

// exportUser writes one user's catalog and, optionally, their catalog page.
func (e *Engine) exportUser(ctx context.Context, job exportJob, opts BulkExportOpts) UserExportResult {
	u := job.user
	result := UserExportResult{UserID: u.ID, UserName: u.Name, Files: []string{}}
	session := models.NewSession(u)

	movies, err := e.catalog.ListMovies(ctx, session)
	if err != nil {
		result.Error = fmt.Errorf("failed to list movies: %w", err)
		return result
	}
	result.Movies = len(movies)

	path := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_movies.%s", job.stem, opts.Format))
	written, err := formatter.WriteExport(opts.Format, session, movies, path)
	if err != nil {
		result.Error = err
		return result
	}
	result.Files = append(result.Files, written)

	if opts.Site {
		page, err := formatter.WriteSiteFile(filepath.Join(opts.OutputDir, job.stem+".html"), opts.SiteTitle, session, movies)
		if err != nil {
			result.Error = err
			return result
		}
		result.Files = append(result.Files, page)
	}

	result.Success = true
	return result
}

func writeManifest(result *BulkExportResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal manifest: %v", shared.ErrInvalidInput, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
