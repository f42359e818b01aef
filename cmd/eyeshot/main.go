// Command eyeshot plays a YAML or JSON scenario against the eye engine and
// writes every snapshot step as a PNG (and optionally as SSD1306 page data).
package main

import (
	"fmt"
	"image"
	"io"
	"os"

	logxi "github.com/mgutz/logxi/v1"
	"github.com/spf13/pflag"

	"github.com/phanxgames/boteyes"
	"github.com/phanxgames/boteyes/capture"
	"github.com/phanxgames/boteyes/config"
	"github.com/phanxgames/boteyes/palette"
)

var logger = logxi.New("eyeshot")

type options struct {
	script    string
	config    string
	outDir    string
	palette   string
	seed      uint64
	pages     bool
	timestamp bool
	verbose   bool
	help      bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, *pflag.FlagSet, error) {
	var o options
	fs := pflag.NewFlagSet("eyeshot", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&o.script, "script", "s", "", "Scenario file (YAML or JSON); may also be given as the first argument")
	fs.StringVarP(&o.config, "config", "c", "", "Engine configuration file (YAML); defaults apply when absent")
	fs.StringVarP(&o.outDir, "out", "o", "snapshots", "Directory to write snapshots into")
	fs.StringVarP(&o.palette, "palette", "p", "", "Palette preset, overriding the configuration")
	fs.Uint64Var(&o.seed, "seed", 0, "Random seed, overriding the configuration (0 keeps it)")
	fs.BoolVar(&o.pages, "pages", false, "Also write SSD1306 page data (.bin) for each snapshot")
	fs.BoolVarP(&o.timestamp, "timestamp", "t", false, "Prefix file names with the capture time")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "Enable debug logging")
	fs.BoolVarP(&o.help, "help", "h", false, "Show help message")
	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	if o.script == "" && fs.NArg() > 0 {
		o.script = fs.Arg(0)
	}
	return &o, fs, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, fs, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}
	if o.help {
		fmt.Fprintln(stderr, "usage: eyeshot [options] scenario.yaml")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "log levels are handled by the LOGXI env variables, these are documented at https://github.com/mgutz/logxi")
		return 0
	}
	if o.script == "" {
		fmt.Fprintln(stderr, "Error: no scenario given")
		return 2
	}
	if o.verbose {
		logger.SetLevel(logxi.LevelDebug)
	}

	written, err := shoot(o)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	for _, path := range written {
		fmt.Fprintln(stdout, path)
	}
	return 0
}

// shoot runs the scenario and returns the files it wrote.
func shoot(o *options) ([]string, error) {
	cfg := config.Default()
	if o.config != "" {
		var err error
		if cfg, err = config.Load(o.config); err != nil {
			return nil, err
		}
	}
	if o.seed != 0 {
		cfg.Seed = o.seed
	}
	if o.palette != "" {
		cfg.Palette = config.Palette{Preset: o.palette}
	}
	pal, err := cfg.Palette.Build()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(o.script)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", o.script, err)
	}
	runner, err := boteyes.LoadScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", o.script, err)
	}

	e, err := cfg.NewEngine()
	if err != nil {
		return nil, err
	}
	e.SetDebugMode(o.verbose)
	logger.Info("scenario", "script", o.script, "size", fmt.Sprintf("%dx%d", cfg.ScreenWidth, cfg.ScreenHeight), "frame_ms", runner.FrameMs())

	dir := capture.NewDir(o.outDir, o.timestamp)
	var written []string
	save := func(label string, img *image.Gray) error {
		if label == "" {
			label = fmt.Sprintf("frame_%05d", runner.Frames())
		}
		paths, err := saveFrame(dir, pal, label, img, o.pages)
		written = append(written, paths...)
		return err
	}

	canvas := boteyes.NewCanvas(cfg.ScreenWidth, cfg.ScreenHeight)
	if err := runner.Run(e, canvas, save); err != nil {
		return written, err
	}
	if len(written) == 0 {
		logger.Debug("scenario had no snapshot step, saving the last frame")
		if err := save("final", canvas); err != nil {
			return written, err
		}
	}
	logger.Info("done", "frames", runner.Frames(), "files", len(written))
	return written, nil
}

func saveFrame(dir *capture.Dir, pal *palette.Palette, label string, img *image.Gray, pages bool) ([]string, error) {
	path, err := dir.SavePNG(label, pal.Colorize(img))
	if err != nil {
		return nil, err
	}
	logger.Debug("saved", "path", path)
	paths := []string{path}
	if pages {
		bin, err := dir.SavePages(label, img)
		if err != nil {
			return paths, err
		}
		paths = append(paths, bin)
	}
	return paths, nil
}
