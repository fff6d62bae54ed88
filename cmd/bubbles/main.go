package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/vanderheijden86/bubbles/internal/datasource"
	"github.com/vanderheijden86/bubbles/pkg/chart"
	"github.com/vanderheijden86/bubbles/pkg/config"
	"github.com/vanderheijden86/bubbles/pkg/debug"
	"github.com/vanderheijden86/bubbles/pkg/export"
	"github.com/vanderheijden86/bubbles/pkg/metrics"
	"github.com/vanderheijden86/bubbles/pkg/model"
	"github.com/vanderheijden86/bubbles/pkg/ui"
	"github.com/vanderheijden86/bubbles/pkg/version"
)

// containerID names the surface the chart mounts into.
const containerID = "chart"

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	configPath := flag.String("config", "", "Config file (default: $XDG_CONFIG_HOME/bubbles/config.yaml)")
	initConfig := flag.Bool("init-config", false, "Write the default config file and exit")
	dataPath := flag.String("data", "", "Data file: .json, .jsonl or a SQLite database (default: builtin dataset)")
	table := flag.String("table", "", "SQLite table holding name/value rows")
	out := flag.String("out", "", "Comma-separated output files (.svg, .png)")
	selectName := flag.String("select", "", "Show the details popup of this country in the output")
	hoverName := flag.String("hover", "", "Highlight this country in the output")
	tuiFlag := flag.Bool("tui", false, "Open the interactive terminal view even when writing files")
	writeDB := flag.String("write-db", "", "Copy the loaded data into a SQLite database and exit")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	metricsFlag := flag.Bool("metrics", false, "Print timing metrics as JSON to stderr on exit")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: bubbles [options]")
		fmt.Println("\nA circle-packing bubble chart of refugee counts by country.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("bubbles %s\n", version.Version)
		os.Exit(0)
	}

	if *debugFlag {
		debug.SetEnabled(true)
	}
	if *metricsFlag {
		metrics.SetEnabled(true)
		defer func() {
			if err := metrics.WriteJSON(os.Stderr); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing metrics: %v\n", err)
			}
		}()
	}

	if *initConfig {
		path, err := writeDefaultConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *dataPath != "" {
		cfg.Data.Path = *dataPath
	}
	if *table != "" {
		cfg.Data.Table = *table
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := datasource.Detect(cfg.Data.Path, cfg.Data.Table)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *writeDB != "" {
		n, err := copyToSQLite(ctx, source, *writeDB, cfg.Data.Table)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing database: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s rows to %s\n", humanize.Comma(int64(n)), *writeDB)
		return
	}

	outputs := parseOutputs(*out)
	interactive := *tuiFlag || (len(outputs) == 0 && term.IsTerminal(int(os.Stdout.Fd())))
	if len(outputs) == 0 && !interactive {
		fmt.Fprintln(os.Stderr, "Nothing to do: pass -out FILE or run in a terminal")
		os.Exit(2)
	}

	points, err := datasource.Load(ctx, source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading data: %v\n", err)
		os.Exit(1)
	}

	ctrl, files, err := newChart(points, cfg, outputs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := applyInteractions(ctrl, *hoverName, *selectName); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if files != nil {
		// Sample after a replayed hover has finished growing.
		files.Now = func() time.Time { return time.Now().Add(cfg.Chart.Highlight.Duration) }
		if err := files.Flush(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing chart: %v\n", err)
			os.Exit(1)
		}
		if !interactive {
			for _, p := range outputs {
				fmt.Printf("Wrote %s (%d bubbles)\n", p, len(points))
			}
		}
	}

	if !interactive {
		return
	}

	if debug.Enabled() {
		if f, err := openDebugLog(); err == nil {
			defer f.Close()
			debug.SetOutput(f)
		}
	}

	if err := runTUIProgram(ui.NewModel(ctrl, ui.DefaultKeyMap())); err != nil {
		fmt.Fprintf(os.Stderr, "Error running bubbles: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads path, or the XDG config file when path is empty.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func writeDefaultConfig(path string) (string, error) {
	if path == "" {
		path = config.ConfigPath()
	}
	if path == "" {
		return "", errors.New("cannot determine config directory")
	}
	return path, config.SaveTo(config.DefaultConfig(), path)
}

// parseOutputs splits a comma-separated list of output files.
func parseOutputs(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// newChart builds and draws the chart. With outputs the chart mounts into a
// file surface that the caller flushes; otherwise into memory.
func newChart(points []model.DataPoint, cfg config.Config, outputs []string) (*chart.Controller, *export.FileSurface, error) {
	opts, err := chart.OptionsFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	var (
		surface chart.Surface = &chart.MemorySurface{}
		files   *export.FileSurface
	)
	if len(outputs) > 0 {
		files = export.NewFileSurface(outputs...)
		surface = files
	}
	reg := chart.NewRegistry()
	reg.Register(containerID, surface)

	ctrl, err := chart.New(points, reg, containerID, opts...)
	if err != nil {
		return nil, nil, err
	}
	if err := ctrl.Draw(); err != nil {
		return nil, nil, err
	}
	return ctrl, files, nil
}

// applyInteractions replays a hover and a click by country name.
func applyInteractions(ctrl *chart.Controller, hover, sel string) error {
	if sel != "" {
		id, ok := findPoint(ctrl.Points(), sel)
		if !ok {
			return fmt.Errorf("no country named %q", sel)
		}
		ctrl.Dispatch(chart.Event{Kind: chart.Click, PointID: id})
	}
	if hover != "" {
		id, ok := findPoint(ctrl.Points(), hover)
		if !ok {
			return fmt.Errorf("no country named %q", hover)
		}
		ctrl.Dispatch(chart.Event{Kind: chart.PointerEnter, PointID: id})
	}
	return nil
}

// findPoint returns the first point whose name matches, ignoring case.
func findPoint(points []model.DataPoint, name string) (model.PointID, bool) {
	name = strings.TrimSpace(name)
	for i, p := range points {
		if strings.EqualFold(p.Name, name) {
			return model.PointID(i), true
		}
	}
	return 0, false
}

func copyToSQLite(ctx context.Context, source datasource.DataSource, path, table string) (int, error) {
	records, err := datasource.LoadRecords(ctx, source)
	if err != nil {
		return 0, err
	}
	if _, err := model.Parse(records); err != nil {
		return 0, err
	}
	if table == "" {
		table = datasource.DefaultTable
	}
	if err := datasource.WriteSQLite(ctx, path, table, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// openDebugLog sends debug output to a file while the TUI owns the terminal.
func openDebugLog() (*os.File, error) {
	dir := config.DataDir()
	if dir == "" {
		return nil, errors.New("no data directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set BUBBLES_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("BUBBLES_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
