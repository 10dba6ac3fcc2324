// Package main is the entry point for jlcat.
//
// jlcat renders schema-less JSON rows (JSON Lines or a JSON array) as tables:
// column projection, filtering, sorting, flattening of nested objects into
// dot-notation columns, extraction of nested data into child tables, and an
// interactive viewer. Defaults are read from CLI flags layered over an
// optional config.yaml.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/tomoya55/jlcat/internal/config"
	"github.com/tomoya55/jlcat/internal/input"
	"github.com/tomoya55/jlcat/internal/jval"
	"github.com/tomoya55/jlcat/internal/query"
	"github.com/tomoya55/jlcat/internal/render"
	"github.com/tomoya55/jlcat/internal/schema"
	"github.com/tomoya55/jlcat/internal/tabular"
	"github.com/tomoya55/jlcat/internal/tui"
)

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "jlcat: %v\n", err)
		os.Exit(1)
	}
}

// flatFlag is a bool-style flag that also accepts an explicit depth:
// -flat expands without bound, -flat=2 stops after two levels.
type flatFlag struct {
	enabled bool
	depth   int // -1 means unlimited
}

func (f *flatFlag) String() string {
	if !f.enabled {
		return "false"
	}
	if f.depth < 0 {
		return "true"
	}
	return strconv.Itoa(f.depth)
}

func (f *flatFlag) Set(s string) error {
	switch s {
	case "", "true":
		f.enabled = true
		f.depth = -1
		return nil
	case "false":
		f.enabled = false
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("depth must be a non-negative integer, got %q", s)
	}
	f.enabled = true
	f.depth = n
	return nil
}

func (f *flatFlag) IsBoolFlag() bool { return true }

func mainImpl() error {
	version := flag.Bool("version", false, "Print version and exit")
	interactive := flag.Bool("i", false, "Open the interactive viewer")
	recursive := flag.Bool("r", false, "Extract nested objects/arrays into child tables, recursively")
	columns := flag.String("columns", "", "Comma-separated column paths to project (dot/bracket syntax)")
	sortSpec := flag.String("sort", "", "Comma-separated sort keys, prefix with - for descending")
	filterSpec := flag.String("filter", "", "Filter expression, e.g. 'status=active age>30'")
	search := flag.String("search", "", "Full-text search over every value")
	styleName := flag.String("style", "", "Table style: plain, ascii, rounded, markdown")
	strict := flag.Bool("strict", true, "Abort on the first invalid row")
	lenient := flag.Bool("lenient", false, "Skip invalid rows with a warning (overrides -strict and the config file)")
	var flat flatFlag
	flag.Var(&flat, "flat", "Flatten nested objects into dot-notation columns; -flat=N bounds the depth")
	arrayLimit := flag.Int("array-limit", 0, "Array elements shown per cell before truncating")
	skip := flag.Int("skip", 0, "Skip the first N rows")
	limit := flag.Int("limit", 0, "Show at most N rows (0 = all)")
	tail := flag.Int("tail", 0, "Show only the last N rows")
	schemaOut := flag.Bool("schema", false, "Print the inferred schema as JSON Schema and exit")
	follow := flag.Bool("follow", false, "Reload when the file changes (interactive mode)")
	cacheSize := flag.Int("cache-size", 0, "Row cache capacity for interactive file browsing")
	configPath := flag.String("config", "", "Config file path (default: "+configHint()+")")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	flag.Parse()
	if flag.NArg() > 1 {
		return fmt.Errorf("unknown arguments: %v", flag.Args()[1:])
	}

	if *version {
		printVersion()
		return nil
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["style"] {
		*styleName = cfg.Style
	}
	if !set["array-limit"] {
		*arrayLimit = cfg.ArrayLimit
	}
	if !set["cache-size"] {
		*cacheSize = cfg.CacheSize
	}
	if !set["strict"] {
		*strict = cfg.Strict
	}
	if !set["log-level"] {
		*logLevel = cfg.LogLevel
	}
	if *lenient {
		*strict = false
	}

	if err := setupLogging(*logLevel); err != nil {
		return err
	}

	style, err := render.ParseStyle(*styleName)
	if err != nil {
		return err
	}
	if *limit > 0 && *tail > 0 {
		return errors.New("-limit and -tail are mutually exclusive")
	}

	path := flag.Arg(0)
	if path == "" && isatty.IsTerminal(os.Stdin.Fd()) {
		flag.Usage()
		return errors.New("no input: pass a file or pipe JSON to stdin")
	}

	opts := input.Options{Strict: *strict, Skip: *skip, Limit: *limit, Tail: *tail}

	if *interactive {
		return runInteractive(path, opts, *cacheSize, *follow)
	}
	if *follow {
		return errors.New("-follow requires -i")
	}

	rows, err := loadRows(path, opts)
	if err != nil {
		return err
	}

	if *schemaOut {
		return printSchema(os.Stdout, rows)
	}

	rows, err = applyQuery(rows, *filterSpec, *search, *sortSpec)
	if err != nil {
		return err
	}

	r := render.New(style)
	switch {
	case flat.enabled:
		return renderFlat(os.Stdout, r, rows, flat, *arrayLimit)
	case *recursive:
		return renderExtracted(os.Stdout, r, rows, *columns)
	default:
		return renderTable(os.Stdout, r, rows, *columns)
	}
}

func configHint() string {
	path, err := config.DefaultPath()
	if err != nil {
		return "$XDG_CONFIG_HOME/jlcat/config.yaml"
	}
	return path
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			// No home directory; run on built-in defaults.
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

func setupLogging(level string) error {
	ll := &slog.LevelVar{}
	switch strings.ToLower(level) {
	case "debug":
		ll.Set(slog.LevelDebug)
	case "info":
		ll.Set(slog.LevelInfo)
	case "warn", "":
		ll.Set(slog.LevelWarn)
	case "error":
		ll.Set(slog.LevelError)
	default:
		return fmt.Errorf("invalid log level %q", level)
	}
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)
	return nil
}

// loadRows reads the source rows. Files with a tail window go through the
// indexed reader so only the last N rows are parsed; everything else streams
// through ReadAll.
func loadRows(path string, opts input.Options) ([]jval.Value, error) {
	if path == "" {
		return input.ReadAll(os.Stdin, opts)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if opts.Tail > 0 {
		return tailRows(f, opts)
	}
	return input.ReadAll(f, opts)
}

func tailRows(f *os.File, opts input.Options) ([]jval.Value, error) {
	r, err := input.NewIndexedReader(f)
	if err != nil {
		return nil, err
	}
	from := r.Len() - opts.Tail
	rows, errs := r.Rows(from, r.Len())
	out := rows[:0]
	for i, row := range rows {
		if errs[i] != nil {
			if opts.Strict {
				return nil, errs[i]
			}
			slog.Warn("skipping invalid row", "err", errs[i])
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func applyQuery(rows []jval.Value, filterSpec, search, sortSpec string) ([]jval.Value, error) {
	if filterSpec != "" {
		f, err := query.ParseFilter(filterSpec)
		if err != nil {
			return nil, err
		}
		kept := rows[:0]
		for _, row := range rows {
			if f.Matches(row) {
				kept = append(kept, row)
			}
		}
		rows = kept
	}
	if search != "" {
		s := query.NewFullTextSearch(search)
		kept := rows[:0]
		for _, row := range rows {
			if s.Matches(row) {
				kept = append(kept, row)
			}
		}
		rows = kept
	}
	if sortSpec != "" {
		keys, err := query.ParseSortKeys(splitList(sortSpec))
		if err != nil {
			return nil, err
		}
		query.Sort(rows, keys)
	}
	return rows, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printSchema(w io.Writer, rows []jval.Value) error {
	js := schema.ToJSONSchema(schema.Infer(rows))
	data, err := json.MarshalIndent(js, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func renderTable(w io.Writer, r *render.Renderer, rows []jval.Value, columns string) error {
	var selector *tabular.ColumnSelector
	if columns != "" {
		var err error
		if selector, err = tabular.NewColumnSelector(splitList(columns)); err != nil {
			return err
		}
	}
	t := tabular.FromRows(rows, selector)
	return r.Render(w, t.Columns(), t.Rows())
}

func renderFlat(w io.Writer, r *render.Renderer, rows []jval.Value, flat flatFlag, arrayLimit int) error {
	cfg := tabular.FlatConfig{ArrayLimit: arrayLimit}
	if flat.depth >= 0 {
		depth := flat.depth
		cfg.Depth = &depth
	}
	f := tabular.Flatten(rows, cfg)
	return r.Render(w, f.Columns(), f.Rows())
}

// renderExtracted prints the parent table, then each child table under a
// heading, in path order. With a column selection the parent table keeps the
// original rows so nested paths like address.city still resolve; otherwise
// nested fields collapse to placeholders.
func renderExtracted(w io.Writer, r *render.Renderer, rows []jval.Value, columns string) error {
	parents := rows
	if columns == "" {
		parents = make([]jval.Value, len(rows))
		for i, row := range rows {
			parents[i] = tabular.FlattenRow(row)
		}
	}
	if err := renderTable(w, r, parents, columns); err != nil {
		return err
	}

	tables := tabular.ExtractRecursive(rows)
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := tables[name]
		if _, err := fmt.Fprintf(w, "\n## %s\n", name); err != nil {
			return err
		}
		if err := r.Render(w, t.ColumnsWithParent(), t.RowsWithParent()); err != nil {
			return err
		}
	}
	return nil
}

// runInteractive loads the source and hands it to the viewer. Stdin is
// spooled to a temp file first so it is seekable. Reloads re-open the path
// so a replace-by-rename save is picked up, not the stale inode.
func runInteractive(path string, opts input.Options, cacheSize int, follow bool) error {
	var spool *os.File
	if path == "" {
		f, err := input.Spool(os.Stdin)
		if err != nil {
			return err
		}
		spool = f
		defer func() {
			_ = spool.Close()
		}()
	}

	load := func() ([]jval.Value, error) {
		src := spool
		if path != "" {
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer func() {
				_ = f.Close()
			}()
			src = f
		}
		return loadSeekable(src, opts, cacheSize)
	}
	rows, err := load()
	if err != nil {
		return err
	}

	var watcher *input.Watcher
	var loader tui.Loader
	if path != "" {
		loader = load
		if follow {
			if watcher, err = input.NewWatcher(path); err != nil {
				return err
			}
		}
	}

	prog := tea.NewProgram(tui.New(rows, loader, watcher), tea.WithAltScreen())
	_, err = prog.Run()
	return err
}

// loadSeekable reads a seekable source for the viewer. Line-delimited input
// goes through the cached indexed reader; JSON-array input streams through
// ReadAll, which applies the window itself.
func loadSeekable(src io.ReadSeeker, opts input.Options, cacheSize int) ([]jval.Value, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to start: %w", err)
	}
	format, err := input.SniffFormat(bufio.NewReader(src))
	if err != nil {
		return nil, err
	}
	if format == input.FormatArray {
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to seek to start: %w", err)
		}
		return input.ReadAll(src, opts)
	}
	reader, err := input.NewIndexedReader(src)
	if err != nil {
		return nil, err
	}
	cached := input.NewCachedReader(reader, cacheSize)
	cached.Prefetch(0, cached.Len())
	return windowRows(cached, opts)
}

// windowRows applies the Skip/Limit/Tail window over the cached reader.
// Unparseable rows follow the strict/lenient policy.
func windowRows(r *input.CachedReader, opts input.Options) ([]jval.Value, error) {
	from, to := 0, r.Len()
	if opts.Skip > 0 {
		from = min(opts.Skip, to)
	}
	if opts.Limit > 0 {
		to = min(from+opts.Limit, to)
	}
	if opts.Tail > 0 {
		from = max(to-opts.Tail, from)
	}
	rows := make([]jval.Value, 0, to-from)
	for i := from; i < to; i++ {
		v, err := r.Row(i)
		if err != nil {
			if opts.Strict {
				return nil, err
			}
			slog.Warn("skipping invalid row", "err", err)
			continue
		}
		rows = append(rows, v)
	}
	return rows, nil
}

func printVersion() {
	version, goVersion, revision, dirty := getBuildInfo()
	fmt.Printf("jlcat %s\n", version)
	fmt.Printf("  Go version: %s\n", goVersion)
	fmt.Printf("  Revision:   %s\n", revision)
	if dirty {
		fmt.Printf("  Modified:   true\n")
	}
}

func getBuildInfo() (version, goVersion, revision string, dirty bool) {
	version = "unknown"
	goVersion = "unknown"
	revision = "unknown"
	if info, ok := debug.ReadBuildInfo(); ok {
		goVersion = info.GoVersion
		if info.Main.Version != "" {
			version = info.Main.Version
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				revision = s.Value
			case "vcs.modified":
				dirty = s.Value == "true"
			}
		}
	}
	return
}
