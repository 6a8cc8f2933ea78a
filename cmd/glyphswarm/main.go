package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/glyphswarm/internal/analysis"
	"github.com/san-kum/glyphswarm/internal/compute"
	"github.com/san-kum/glyphswarm/internal/config"
	"github.com/san-kum/glyphswarm/internal/detector"
	"github.com/san-kum/glyphswarm/internal/engine"
	"github.com/san-kum/glyphswarm/internal/glyph"
	"github.com/san-kum/glyphswarm/internal/gui"
	"github.com/san-kum/glyphswarm/internal/hand"
	"github.com/san-kum/glyphswarm/internal/metrics"
	"github.com/san-kum/glyphswarm/internal/session"
	"github.com/san-kum/glyphswarm/internal/swarm"
	"github.com/san-kum/glyphswarm/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	particles  int
	duration   float64
	frameRate  int
	text       string
	sourceName string
	noRecord   bool
	useGPU     bool
	shaderDir  string
	withAudio  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "glyphswarm",
		Short: "hand-driven particle typography",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the GUI when no command is given.
			return runGUI(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".glyphswarm", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 uses the config value)")
	rootCmd.PersistentFlags().IntVar(&particles, "particles", 0, "particle count override")
	rootCmd.PersistentFlags().StringVar(&text, "text", "", "override the first theme's text")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless session and record it",
		RunE:  runHeadless,
	}
	runCmd.Flags().Float64Var(&duration, "time", 20.0, "duration in seconds")
	runCmd.Flags().IntVar(&frameRate, "fps", 0, "tick rate override")
	runCmd.Flags().StringVar(&sourceName, "source", "scripted", "hand source (scripted, silent)")
	runCmd.Flags().BoolVar(&noRecord, "no-record", false, "skip saving the session")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "interactive 3D view",
		RunE:  runGUI,
	}
	guiCmd.Flags().BoolVar(&useGPU, "gpu", false, "step particles on the GPU compute backend")
	guiCmd.Flags().StringVar(&shaderDir, "shaders", "assets/shaders", "shader directory for gpu mode")
	guiCmd.Flags().BoolVar(&withAudio, "audio", false, "enable sonification")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view",
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	sampleCmd := &cobra.Command{
		Use:   "sample [text]",
		Short: "preview a rasterized glyph as braille",
		Args:  cobra.ExactArgs(1),
		RunE:  sampleGlyph,
	}

	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "list configured themes",
		RunE:  listThemes,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded sessions",
		RunE:  listSessions,
	}

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "re-simulate a recorded session",
		Args:  cobra.ExactArgs(1),
		RunE:  replaySession,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the recorded hand trace",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeSession,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export session metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSession,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export session frames as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the field update across particle counts",
		RunE:  benchField,
	}
	benchCmd.Flags().Float64Var(&duration, "time", 3.0, "simulated seconds per case")

	rootCmd.AddCommand(runCmd, guiCmd, liveCmd, sampleCmd, themesCmd, presetsCmd,
		initCmd, listCmd, replayCmd, analyzeCmd, exportCmd, exportCSVCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig layers preset, config file and flag overrides in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if seed != 0 {
		cfg.Seed = seed
	}
	if particles > 0 {
		cfg.Particles = particles
	}
	if cmd.Flags().Changed("fps") && frameRate > 0 {
		cfg.TickRate = frameRate
	}
	if text != "" {
		cfg.Themes[0].Text = text
	}

	return cfg, cfg.Validate()
}

func buildEngine(cfg *config.Config, source detector.Source) (*engine.Engine, error) {
	sampler, err := glyph.NewSampler(cfg.GlyphConfig(), rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return nil, err
	}
	classifier, err := hand.NewClassifier(cfg.ClassifierConfig())
	if err != nil {
		return nil, err
	}
	themes, err := cfg.SwarmThemes()
	if err != nil {
		return nil, err
	}
	field, err := swarm.New(cfg.Particles, cfg.FieldParams(), cfg.Seed, compute.NewCPUBackend())
	if err != nil {
		return nil, err
	}
	return engine.New(field, sampler, classifier, source, themes)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var source detector.Source
	switch sourceName {
	case "scripted":
		source = detector.NewScripted()
	case "silent":
		source = detector.Silent{}
	default:
		return fmt.Errorf("unknown source: %s (want scripted or silent)", sourceName)
	}

	eng, err := buildEngine(cfg, source)
	if err != nil {
		return err
	}
	for _, m := range metrics.Default() {
		eng.AddMetric(m)
	}

	recorder := session.NewRecorder(int(duration * float64(cfg.TickRate)))
	eng.SetRecorder(recorder)

	fmt.Printf("running %s source for %.1fs at %d ticks/s...\n", sourceName, duration, cfg.TickRate)
	start := time.Now()

	results, err := eng.Run(context.Background(), engine.Config{
		Duration: duration,
		TickRate: cfg.TickRate,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v (%d frames)\n", elapsed, recorder.Len())
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, results[name])
	}

	if noRecord {
		return nil
	}

	store := session.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(session.Metadata{
		Source:    sourceName,
		Seed:      cfg.Seed,
		Particles: cfg.Particles,
		TickRate:  cfg.TickRate,
		Duration:  duration,
		Metrics:   results,
	}, recorder.Frames())
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	puppet := detector.NewPuppet()
	eng, err := buildEngine(cfg, puppet)
	if err != nil {
		return err
	}

	return gui.Run(eng, puppet, gui.Options{
		TickRate:  cfg.TickRate,
		UseGPU:    useGPU,
		ShaderDir: shaderDir,
		Audio:     withAudio,
		Gesture:   cfg.ClassifierConfig(),
	})
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	puppet := detector.NewPuppet()
	eng, err := buildEngine(cfg, puppet)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(eng, puppet, frameRate))
	_, err = p.Run()
	return err
}

func sampleGlyph(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sampler, err := glyph.NewSampler(cfg.GlyphConfig(), rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return err
	}
	points := sampler.Sample(args[0])

	// Project the world-space points onto a braille canvas.
	w, h := 100, 16
	extent := float32(cfg.Canvas.Width) * cfg.Canvas.Scale / 2
	vextent := float32(cfg.Canvas.Height) * cfg.Canvas.Scale / 2
	canvas := tui.NewCanvas(w, h)
	for _, p := range points {
		sx := int((p.X/extent + 1) / 2 * float32(w*2))
		sy := int((1 - p.Y/vextent) / 2 * float32(h*4))
		canvas.Set(sx, sy)
	}
	fmt.Print(canvas.String())
	fmt.Printf("\n%d points sampled for %q\n", len(points), args[0])
	return nil
}

func listThemes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tNAME\tTEXT\tCOLOR1\tCOLOR2")
	for i, t := range cfg.Themes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, t.Name, t.Text, t.Color1, t.Color2)
	}
	return w.Flush()
}

func listSessions(cmd *cobra.Command, args []string) error {
	store := session.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no sessions found")
		return nil
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tTIME\tDURATION\tPARTICLES\tSEED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%d\t%d\n",
			run.ID,
			run.Source,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Particles,
			run.Seed,
		)
	}
	return w.Flush()
}

// replaySession feeds the recorded interaction states straight into a fresh
// field, bypassing the classifier, and reports how closely the replay
// tracked the original run.
func replaySession(cmd *cobra.Command, args []string) error {
	store := session.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := store.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("session %s has no frames", args[0])
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Seed = meta.Seed
	cfg.Particles = meta.Particles

	sampler, err := glyph.NewSampler(cfg.GlyphConfig(), rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return err
	}
	themes, err := cfg.SwarmThemes()
	if err != nil {
		return err
	}
	field, err := swarm.New(cfg.Particles, cfg.FieldParams(), cfg.Seed, compute.NewCPUBackend())
	if err != nil {
		return err
	}

	mode := 1
	targets, err := sampler.Targets(themes[0].Text, field.Len())
	if err != nil {
		return err
	}
	if err := field.SetTargets(targets); err != nil {
		return err
	}

	fmt.Printf("replaying %s (%d frames)...\n", meta.ID, len(frames))

	var maxDrift float64
	for _, f := range frames {
		inter := f.Interaction()
		if inter.Mode != mode && inter.Mode >= 1 && inter.Mode <= len(themes) {
			mode = inter.Mode
			targets, err := sampler.Targets(themes[mode-1].Text, field.Len())
			if err != nil {
				return err
			}
			if err := field.SetTargets(targets); err != nil {
				return err
			}
		}
		field.Update(f.T, themes[mode-1], inter)

		if drift := field.Stats().MeanTargetDist - f.Settle; drift > maxDrift {
			maxDrift = drift
		}
	}

	stats := field.Stats()
	fmt.Printf("final settle: %.4f (recorded %.4f)\n", stats.MeanTargetDist, frames[len(frames)-1].Settle)
	fmt.Printf("max settle drift vs recording: %.4f\n", maxDrift)
	return nil
}

func analyzeSession(cmd *cobra.Command, args []string) error {
	store := session.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := store.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) < 4 {
		return fmt.Errorf("session %s is too short to analyze", args[0])
	}

	fmt.Printf("session: %s (%s)\n\n", meta.ID, meta.Source)

	// Only frames with a tracked hand carry a meaningful trace.
	handX := make([]float64, 0, len(frames))
	settle := make([]float64, len(frames))
	for i, f := range frames {
		settle[i] = f.Settle
		if f.Interaction().Present() {
			handX = append(handX, float64(f.HandX))
		}
	}

	graph := asciigraph.Plot(settle,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("settle distance"),
	)
	fmt.Println(graph)
	fmt.Println()

	if len(handX) < 4 {
		fmt.Println("no tracked hand in this session")
		return nil
	}

	freq, power := analysis.DominantFrequency(handX, float64(meta.TickRate))
	fmt.Printf("dominant hand frequency: %.3f hz (power %.1f)\n", freq, power)
	if freq > 0 {
		fmt.Printf("period: %.2f s\n", 1/freq)
	}
	return nil
}

func exportSession(cmd *cobra.Command, args []string) error {
	store := session.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	store := session.New(dataDir)
	frames, err := store.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "mode", "action", "hand_x", "hand_y", "hand_z", "settle", "agitation"}); err != nil {
		return err
	}
	for _, f := range frames {
		row := []string{
			strconv.FormatFloat(f.T, 'f', 4, 64),
			strconv.Itoa(f.Mode),
			f.Action,
			strconv.FormatFloat(float64(f.HandX), 'f', 3, 32),
			strconv.FormatFloat(float64(f.HandY), 'f', 3, 32),
			strconv.FormatFloat(float64(f.HandZ), 'f', 3, 32),
			strconv.FormatFloat(f.Settle, 'f', 5, 64),
			strconv.FormatFloat(f.Agitation, 'f', 5, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func benchField(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	counts := []int{1000, 8000, 32000}
	backends := []compute.Sharder{compute.Serial{}, compute.NewCPUBackend()}
	names := []string{"serial", "cpu"}

	sampler, err := glyph.NewSampler(cfg.GlyphConfig(), rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return err
	}

	inter := hand.InteractionState{
		Mode:              1,
		RightHandPosition: [3]float32{10, 0, 0},
		RightHandAction:   hand.Fist,
	}
	theme := swarm.Theme{Name: "bench", Color1: [3]float32{1, 0, 0}, Color2: [3]float32{0, 0, 1}, Text: "BENCH"}

	fmt.Printf("benchmarking field update (%.1fs simulated per case)\n\n", duration)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tPARTICLES\tTICKS\tTIME\tTICKS/SEC")

	ticks := int(duration * float64(cfg.TickRate))
	for bi, sharder := range backends {
		for _, n := range counts {
			field, err := swarm.New(n, cfg.FieldParams(), cfg.Seed, sharder)
			if err != nil {
				return err
			}
			targets, err := sampler.Targets(theme.Text, n)
			if err != nil {
				return err
			}
			if err := field.SetTargets(targets); err != nil {
				return err
			}

			start := time.Now()
			for i := 0; i < ticks; i++ {
				field.Update(float64(i)/float64(cfg.TickRate), theme, inter)
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.0f\n",
				names[bi], n, ticks, elapsed.Round(time.Millisecond),
				float64(ticks)/elapsed.Seconds())
		}
	}
	return w.Flush()
}
