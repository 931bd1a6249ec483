package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/output"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

const scenesDir = "scenes"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the parsed command line
type options struct {
	scene   string
	list    bool
	tonemap string
	format  string
	output  string
	quiet   bool

	// Overrides applied only when the flag was given explicitly
	width, samples, depth, workers int
	seed                           int64
	set                            map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{set: make(map[string]bool)}
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.scene, "scene", "default", "Scene: 'default' or path to a JSON scene file")
	fs.BoolVar(&opts.list, "list", false, "List available scenes and exit")
	fs.IntVar(&opts.width, "width", 0, "Image width in pixels (height follows the aspect ratio)")
	fs.IntVar(&opts.samples, "samples", 0, "Samples per pixel")
	fs.IntVar(&opts.depth, "depth", 0, "Maximum ray bounce depth")
	fs.IntVar(&opts.workers, "workers", 0, "Worker goroutines (0 = one per CPU, 1 = sequential)")
	fs.Int64Var(&opts.seed, "seed", 0, "Base random seed; row y uses seed+y")
	fs.StringVar(&opts.tonemap, "tonemap", "gamma2", "Tone mapping: 'gamma2' or 'linear'")
	fs.StringVar(&opts.format, "format", "", "Output format: ppm, png or jpg (default: from -output extension, else ppm)")
	fs.StringVar(&opts.output, "output", "-", "Output file, '-' for stdout, '' for output/<scene>/render_<timestamp>")
	fs.BoolVar(&opts.quiet, "quiet", false, "Suppress progress and timing logs")
	help := fs.Bool("help", false, "Show help information")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Sphere Path Tracer")
		fmt.Fprintln(stderr, "Usage: pathtracer [options] > image.ppm")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(stderr)
		fmt.Fprintf(stderr, "Scene files in ./%s are listed by -list.\n", scenesDir)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *help {
		fs.Usage()
		return nil, flag.ErrHelp
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// createScene loads the named scene and applies command line overrides
func createScene(opts *options) (*scene.Scene, error) {
	var cfg *scene.Config
	switch {
	case opts.scene == "default":
		cfg = scene.DefaultConfig()
	case strings.HasSuffix(strings.ToLower(opts.scene), ".json"):
		loaded, err := scene.LoadConfig(opts.scene)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		return nil, fmt.Errorf("unknown scene %q (use 'default' or a .json file)", opts.scene)
	}

	if opts.set["width"] {
		cfg.Width = opts.width
	}
	if opts.set["samples"] {
		cfg.SamplesPerPixel = opts.samples
	}
	if opts.set["depth"] {
		cfg.MaxDepth = opts.depth
	}
	if opts.set["seed"] {
		cfg.Seed = opts.seed
	}

	// Overrides go through the same validation as scene files
	return scene.NewFromConfig(cfg)
}

// resolveFormat picks -format, else the -output extension, else PPM
func resolveFormat(opts *options) (output.Format, error) {
	if opts.format != "" {
		return output.ParseFormat(opts.format)
	}
	if opts.output == "-" {
		return output.FormatPPM, nil
	}
	if opts.output == "" {
		return output.FormatPNG, nil
	}
	return output.FormatFromPath(opts.output)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	var logger core.Logger = log.New(stderr, "", log.LstdFlags)
	if opts.quiet {
		logger = core.NopLogger{}
	}

	if opts.list {
		return listScenes(stdout, logger)
	}

	toneMap, err := renderer.ParseToneMap(opts.tonemap)
	if err != nil {
		return err
	}
	format, err := resolveFormat(opts)
	if err != nil {
		return err
	}

	selectedScene, err := createScene(opts)
	if err != nil {
		return err
	}
	logger.Printf("Using %s scene with %d spheres...\n", selectedScene.Name, selectedScene.GetPrimitiveCount())

	config := selectedScene.SamplingConfig
	config.ToneMap = toneMap
	if opts.set["workers"] {
		config.NumWorkers = opts.workers
	}

	raytracer := renderer.NewRaytracer(selectedScene, selectedScene.Width, selectedScene.Height)
	raytracer.SetSamplingConfig(config)
	raytracer.SetLogger(logger)
	if !opts.quiet {
		raytracer.SetProgressCallback(renderer.NewProgressLogger(logger))
	}

	rendered, stats, err := render(ctx, raytracer, config.NumWorkers)
	if err != nil {
		return fmt.Errorf("render interrupted: %w", err)
	}
	logger.Printf("Traced %d samples over %d pixels\n", stats.TotalSamples, stats.TotalPixels)

	switch opts.output {
	case "-":
		if err := output.Encode(stdout, rendered, format); err != nil {
			return fmt.Errorf("error writing image: %w", err)
		}
	default:
		path := opts.output
		if path == "" {
			timestamp := time.Now().Format("20060102_150405")
			path = output.TimestampedPath(selectedScene.Name, timestamp, format)
		}
		if err := output.Save(path, rendered, format); err != nil {
			return err
		}
		logger.Printf("Render saved as %s\n", path)
	}

	return nil
}

// render uses the sequential path for a single worker
func render(ctx context.Context, rt *renderer.Raytracer, numWorkers int) (*image.RGBA, renderer.RenderStats, error) {
	if numWorkers == 1 {
		return rt.RenderSequentialContext(ctx)
	}
	return rt.RenderContext(ctx)
}

func listScenes(w io.Writer, logger core.Logger) error {
	scenes, err := scene.ListScenes(scenesDir, logger.Printf)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scenes {
		fmt.Fprintf(w, "  %-24s %s (%d spheres)\n", info.ID, info.DisplayName, info.Spheres)
		if info.Description != "" {
			fmt.Fprintf(w, "  %-24s %s\n", "", info.Description)
		}
	}
	return nil
}
