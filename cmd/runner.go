package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/repositories"
	"github.com/desertthunder/moviehub/internal/services"
	"github.com/desertthunder/moviehub/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configErr  error
	configPath string
	db         *sql.DB
	ownsDB     bool
	metadata   services.MetadataService
	catalog    *repositories.CatalogRepository
	logger     *log.Logger
	output     io.Writer
	rng        *rand.Rand
	telemetry  *Telemetry
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Config is resolved from ConfigPath (and the environment) when the first command runs. DB and Metadata are
// opened from the config when nil.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	DB         *sql.DB
	Metadata   services.MetadataService
	Logger     *log.Logger
	Output     io.Writer
	Rand       *rand.Rand
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		db:         opts.DB,
		metadata:   opts.Metadata,
		logger:     opts.Logger,
		output:     opts.Output,
		rng:        opts.Rand,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, usersCommand, moviesCommand, exportCommand, siteCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger and the logger used by an already opened catalog.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	if r.catalog != nil {
		r.catalog = repositories.NewCatalogRepository(r.db, r.metadata, l)
	}
}

// Load resolves the configuration, applies the log level and starts telemetry.
//
// A configuration that parses but fails validation is kept; commands that need it report the error through
// [Runner.OpenCatalog].
func (r *Runner) Load(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.config == nil {
		config, err := shared.ResolveConfig(r.configPath)
		if config == nil {
			return ctx, fmt.Errorf("failed to load config: %w", err)
		}
		r.config = config
		r.configErr = err
	} else {
		r.configErr = r.config.Validate()
	}

	level := r.config.Log.Level
	if cmd.Bool("verbose") {
		level = "debug"
	}
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(level))

	telemetry, err := InitTelemetry(r.config.Telemetry)
	if err != nil {
		r.logger.Warn("sentry init failed", "error", err)
	}
	r.telemetry = telemetry

	return ctx, nil
}

// OpenCatalog opens the database, ensures the schema and builds the catalog repository.
//
// Fails fast when the OMDb API key is not configured.
func (r *Runner) OpenCatalog(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.catalog != nil {
		return ctx, nil
	}
	if r.configErr != nil {
		return ctx, r.configErr
	}

	if err := r.openDatabase(ctx); err != nil {
		return ctx, err
	}

	if r.metadata == nil {
		r.metadata = services.NewOMDbServiceFromConfig(r.config.OMDb, r.logger)
	}

	r.catalog = repositories.NewCatalogRepository(r.db, r.metadata, r.logger)
	return ctx, nil
}

func (r *Runner) openDatabase(ctx context.Context) error {
	if r.db == nil {
		r.logger.Debug("opening database", "path", r.config.Database.Path)

		db, err := shared.NewDatabase(r.config.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
		r.db = db
		r.ownsDB = true
	}

	if err := shared.EnsureSchema(ctx, r.db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Close releases the database when the runner opened it and flushes telemetry.
func (r *Runner) Close(ctx context.Context, cmd *cli.Command) error {
	r.telemetry.Flush()

	if r.db != nil && r.ownsDB {
		err := r.db.Close()
		r.db = nil
		r.catalog = nil
		return err
	}
	return nil
}

// session resolves the --user flag. With create set the user is created on first use.
func (r *Runner) session(ctx context.Context, cmd *cli.Command, create bool) (models.Session, error) {
	name := strings.TrimSpace(cmd.String("user"))
	if name == "" {
		return models.Session{}, fmt.Errorf("%w: --user or %s must be set", shared.ErrMissingArgument, EnvUser)
	}

	if create {
		return r.catalog.OpenSession(ctx, name)
	}

	user, err := r.catalog.GetUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, shared.ErrUserNotFound) {
			return models.Session{}, fmt.Errorf("%w: %s (add a movie or run 'moviehub users add %s')", shared.ErrUserNotFound, name, name)
		}
		return models.Session{}, err
	}
	return models.NewSession(*user), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
