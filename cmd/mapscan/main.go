package main

import (
	"context"
	"fmt"
	"io"
	stdslog "log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/tlegrand/mapscan"
	"github.com/tlegrand/mapscan/goquery"
	"github.com/tlegrand/mapscan/notion"
	"github.com/tlegrand/mapscan/slog"
	"github.com/tlegrand/mapscan/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Config file path. Set before calling Run().
	ConfigPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	RunService mapscan.RunService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:     defaultDBPath(),
		ConfigPath: os.Getenv("MAPSCAN_CONFIG"),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	config, err := LoadConfig(m.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if config.DBPath != "" {
		m.DBPath = config.DBPath
	}

	logger := stdslog.New(stdslog.NewTextHandler(stderr, &stdslog.HandlerOptions{
		Level: stdslog.LevelWarn,
	}))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Config: config,
		Logger: logger,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("mapscan"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'mapscan --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set MAPSCAN_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.RunService = sqlite.NewRunService(m.DB)
	deps.DB = m.DB
	deps.Runs = m.RunService
	deps.Extractor = slog.NewLoggingExtractor(goquery.NewExtractor(), logger)

	// Delivery needs Notion credentials; wire only for commands that reach
	// the remote database.
	if cmd == "push" || cmd == "serve" || cmd == "status" {
		token := config.Notion.Token
		databaseID := config.Notion.DatabaseID
		if cmd != "serve" && (token == "" || databaseID == "") {
			fmt.Fprintln(stderr, "Hint: Set NOTION_TOKEN and NOTION_DATABASE_ID, or add a notion section to the config file")
			return fmt.Errorf("notion credentials not configured")
		}
		if token != "" && databaseID != "" {
			client := notion.NewClient(token)
			deps.Records = slog.NewLoggingRecordService(notion.NewRecordService(client, databaseID), logger)
		}
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("MAPSCAN_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "mapscan.db"
	}
	dir := filepath.Join(home, ".mapscan")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "mapscan.db")
}
