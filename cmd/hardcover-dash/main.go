package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"hardcover-dash/dashboard"
	"hardcover-dash/hardcover"
	"hardcover-dash/site"
	"hardcover-dash/store"
)

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitDataError    = 3
)

func main() {
	// Local development loads credentials from .env; a missing file is
	// fine, CI injects real environment variables.
	_ = godotenv.Load()

	// stdout is reserved for scriptable JSON output; logs go to stderr.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	app := &cli.App{
		Name:    "hardcover-dash",
		Usage:   "Generate a static reading dashboard from the Hardcover API",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "token",
				Usage:   "Hardcover API bearer token",
				EnvVars: []string{"HARDCOVER_API_TOKEN"},
			},
			&cli.StringFlag{
				Name:    "cache",
				Value:   ".cache/hardcover_cache.json",
				Usage:   "Cache file path",
				EnvVars: []string{"CACHE_PATH"},
			},
			&cli.IntFlag{
				Name:    "ttl",
				Value:   900,
				Usage:   "Cache time-to-live in seconds",
				EnvVars: []string{"CACHE_TTL_SECONDS"},
			},
			&cli.BoolFlag{
				Name:    "nocache",
				Usage:   "Bypass the cache and always fetch live",
				EnvVars: []string{"NOCACHE"},
			},
			&cli.StringFlag{
				Name:    "db",
				Value:   getDefaultDBPath(),
				Usage:   "Build history database path",
				EnvVars: []string{"HARDCOVER_DASH_DB"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "build",
				Usage: "Fetch reading data and write the dashboard",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Value:   "docs",
						Usage:   "Output directory",
						EnvVars: []string{"OUTPUT_DIR"},
					},
					&cli.StringFlag{
						Name:    "templates",
						Value:   "templates",
						Usage:   "Templates directory",
						EnvVars: []string{"TEMPLATES_DIR"},
					},
					&cli.StringFlag{
						Name:    "static",
						Value:   "static",
						Usage:   "Static assets directory",
						EnvVars: []string{"STATIC_DIR"},
					},
				},
				Action: buildSite,
			},
			{
				Name:   "fetch",
				Usage:  "Fetch raw reading data and print it as JSON",
				Action: fetchRaw,
			},
			{
				Name:   "stats",
				Usage:  "Print aggregate reading statistics as JSON",
				Action: showStats,
			},
			{
				Name:  "history",
				Usage: "List recorded builds",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Value:   20,
						Usage:   "Maximum number of builds to return",
					},
					&cli.StringFlag{
						Name:    "since",
						Aliases: []string{"s"},
						Usage:   "Show builds since duration (e.g., 7d, 2w, 3m, 1y)",
					},
				},
				Action: showHistory,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitGeneralError)
	}
}

func getDefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "hardcover-dash.db"
	}
	return filepath.Join(home, ".config", "hardcover-dash", "builds.db")
}

func outputJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// fetchPayload runs the cache-aware fetch shared by every data command.
// A missing token aborts before any network activity.
func fetchPayload(c *cli.Context) (*hardcover.Payload, error) {
	token := strings.TrimSpace(c.String("token"))
	if token == "" {
		return nil, cli.Exit("Missing HARDCOVER_API_TOKEN", ExitUsageError)
	}

	client := hardcover.NewClient(token)
	ttl := time.Duration(c.Int("ttl")) * time.Second

	payload, err := hardcover.FetchReadingData(c.Context, client, c.String("cache"), ttl, c.Bool("nocache"))
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("Failed to fetch reading data: %v", err), ExitDataError)
	}
	return payload, nil
}

func buildSite(c *cli.Context) error {
	payload, err := fetchPayload(c)
	if err != nil {
		return err
	}
	me := hardcover.NormalizeMe(payload.Me)
	vm := dashboard.Build(me, time.Now())

	renderer, err := site.NewRenderer(c.String("templates"))
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}

	out := c.String("out")
	page, err := renderer.RenderPage(out, vm)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to render page: %v", err), ExitDataError)
	}

	proof := site.NewProof(vm)
	if err := site.WriteProof(out, proof); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to write proof file: %v", err), ExitDataError)
	}

	if err := site.CopyAssets(c.String("static"), filepath.Join(out, "static")); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to copy assets: %v", err), ExitDataError)
	}

	recordBuild(c, vm, proof)

	slog.Info("dashboard built", "page", page)

	return outputJSON(map[string]interface{}{
		"success":           true,
		"page":              page,
		"proof":             filepath.Join(out, "build.json"),
		"currently_reading": len(vm.Currently),
		"finished_count":    vm.FinishedCount,
	})
}

// recordBuild appends the run to the history database. History is a
// diagnostic, so failures are logged rather than failing a build that
// already produced its page.
func recordBuild(c *cli.Context, vm *dashboard.ViewModel, proof site.Proof) {
	dbPath := c.String("db")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		slog.Warn("failed to create history directory", "error", err)
		return
	}

	s, err := store.New(dbPath)
	if err != nil {
		slog.Warn("failed to open history database", "error", err)
		return
	}
	defer s.Close()

	b := &store.Build{
		BuiltAt:        time.Now(),
		Username:       vm.Me.Username,
		CurrentlyCount: len(vm.Currently),
		FinishedCount:  vm.FinishedCount,
		FirstProgress:  proof.FirstCurrentProgress,
		FirstPct:       proof.FirstCurrentPct,
	}
	if proof.FirstCurrentTitle != nil {
		b.FirstTitle = *proof.FirstCurrentTitle
	}
	if err := s.SaveBuild(b); err != nil {
		slog.Warn("failed to record build", "error", err)
	}
}

func fetchRaw(c *cli.Context) error {
	payload, err := fetchPayload(c)
	if err != nil {
		return err
	}
	return outputJSON(payload)
}

func showStats(c *cli.Context) error {
	payload, err := fetchPayload(c)
	if err != nil {
		return err
	}
	me := hardcover.NormalizeMe(payload.Me)
	vm := dashboard.Build(me, time.Now())

	return outputJSON(map[string]interface{}{
		"username":           vm.Me.Username,
		"currently_reading":  len(vm.Currently),
		"finished_count":     vm.FinishedCount,
		"books_per_year":     vm.BooksPerYear,
		"books_per_year_max": vm.BooksPerYearMax,
		"stats":              vm.Stats,
	})
}

func showHistory(c *cli.Context) error {
	opts, err := store.BuildQueryOptions(c.Int("limit"), c.String("since"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Invalid query options: %v", err), ExitUsageError)
	}

	s, err := store.New(c.String("db"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to open database: %v", err), ExitDataError)
	}
	defer s.Close()

	builds, err := s.GetBuilds(opts)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to get builds: %v", err), ExitDataError)
	}

	return outputJSON(map[string]interface{}{
		"count":  len(builds),
		"builds": builds,
	})
}
