package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"metadesc"
	"metadesc/asciidoc"
	"metadesc/docbook"
	"metadesc/gen"
	"metadesc/htmlreport"
	"metadesc/ollama"
	metaslog "metadesc/slog"
	"metadesc/sqlite"
)

func main() {
	ctx := context.Background()

	// Optional .env file for OLLAMA_URL and friends.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("metadesc"),
		kong.Description("Generate meta descriptions for AsciiDoc and DocBook documentation trees"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Configuration(ConfigLoader),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	_, err = parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	entities, err := gen.LoadEntityContext(cli.EntitiesFile, cli.AttributesFile, cli.Attribute, logger)
	if err != nil {
		return err
	}

	var completer metadesc.Completer = ollama.NewClient(cli.OllamaURL, cli.Model, cli.Timeout)
	completer = metaslog.NewLoggingCompleter(completer, logger)

	var synthesizer metadesc.Synthesizer = ollama.NewSynthesizer(completer, entities, cli.BannedTerms, logger)
	synthesizer = metaslog.NewLoggingSynthesizer(synthesizer, logger)

	var validator metadesc.Validator
	if !cli.NoGrammarCheck {
		validator = ollama.NewValidator(completer, entities, cli.BannedTerms, logger)
	}

	var reporters metadesc.MultiReporter
	if cli.HTMLLog != "" {
		title := cli.ReportTitle
		if title == "" {
			title = "Description generation report (" + cli.Model + ")"
		}
		reporters = append(reporters, htmlreport.NewReporter(cli.HTMLLog, title))
	}
	if cli.AuditDB != "" {
		db := sqlite.NewDB(cli.AuditDB)
		if err := db.Open(); err != nil {
			return err
		}
		defer db.Close()

		store := sqlite.NewAuditStore(db)
		if err := store.BeginRun(ctx, cli.Root, string(cli.Type), cli.DryRun); err != nil {
			return err
		}
		reporters = append(reporters, store)
	}

	runner := &gen.Runner{
		Extractors: map[metadesc.Format]metadesc.Extractor{
			metadesc.FormatAsciiDoc: asciidoc.NewExtractor(entities),
			metadesc.FormatDocBook:  docbook.NewExtractor(entities),
		},
		Patchers: map[metadesc.Format]metadesc.Patcher{
			metadesc.FormatAsciiDoc: asciidoc.NewPatcher(),
			metadesc.FormatDocBook:  docbook.NewPatcher(),
		},
		Synthesizer: synthesizer,
		Validator:   validator,
		Reporter:    metaslog.NewLoggingReporter(reporters, logger),
		Logger:      logger,
		Force:       cli.ForceOverwrite,
		DryRun:      cli.DryRun,
	}

	stats, err := runner.Run(ctx, cli.Root, cli.Type)
	if err != nil {
		return err
	}

	printSummary(stdout, stats, cli.DryRun)
	if cli.HTMLLog != "" {
		fmt.Fprintf(stdout, "Report written to %s\n", cli.HTMLLog)
	}
	return nil
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Root string         `arg:"" required:"" help:"Documentation root directory to scan"`
	Type gen.TypeFilter `default:"all" enum:"all,adoc,xml" help:"Restrict processing to one dialect (all, adoc, xml)"`

	Model     string        `default:"llama3.1:8b" help:"Model identifier passed to the completion endpoint"`
	OllamaURL string        `env:"OLLAMA_URL" default:"http://127.0.0.1:11434" help:"Base URL of the Ollama-compatible endpoint"`
	Timeout   time.Duration `default:"120s" help:"Timeout per model call"`

	ForceOverwrite bool `help:"Regenerate descriptions for documents that already have one"`
	DryRun         bool `help:"Preview changes without writing any file"`
	NoGrammarCheck bool `help:"Skip the grammar validation pass"`

	BannedTerms    []string          `sep:"," help:"Comma-separated terms the description must not contain"`
	EntitiesFile   string            `type:"path" help:"Entity declarations file mapping short names to brand strings"`
	AttributesFile string            `type:"path" help:"AsciiDoc attributes file for placeholder resolution"`
	Attribute      map[string]string `short:"a" help:"Build attribute override (name=value), repeatable"`

	HTMLLog     string `type:"path" help:"Write an HTML report of the run to this file"`
	ReportTitle string `help:"Title for the HTML report"`
	AuditDB     string `type:"path" help:"Record outcomes in a SQLite audit database at this path"`

	Config  kong.ConfigFlag `help:"Load defaults from a YAML config file"`
	Verbose bool            `short:"v" help:"Enable debug logging"`
}

// printSummary writes the end-of-run counters in a stable order.
func printSummary(w io.Writer, stats *metadesc.RunStats, dryRun bool) {
	verb := "written"
	if dryRun {
		verb = "previewed"
	}
	fmt.Fprintf(w, "Scanned %d documents: %d %s, %d skipped (existing), %d skipped (no prose), %d errors in %s\n",
		stats.Scanned, stats.Changed(), verb, stats.SkippedExisting,
		stats.SkippedNoExcerpt, stats.Errored, stats.Duration.Round(time.Millisecond))
}
