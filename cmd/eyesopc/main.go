// Command eyesopc renders the eyes continuously to an Open Pixel Control
// server such as fcserver, driving an LED matrix the size of the screen.
//
// Every flag can also be set from the environment: upper-case the flag name,
// change dashes to underscores and prefix EYES_ (--frame-ms → EYES_FRAME_MS).
// Flags given on the command line win.
package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/go-stack/stack"
	logxi "github.com/mgutz/logxi/v1"
	"github.com/spf13/pflag"

	"github.com/phanxgames/boteyes"
	"github.com/phanxgames/boteyes/config"
	"github.com/phanxgames/boteyes/ledsink"
)

const envPrefix = "EYES_"

var logger = logxi.New("eyesopc")

type options struct {
	server  string
	channel uint8
	wiring  string
	config  string
	palette string
	frameMs int
	frames  int
	seed    uint64
	verbose bool
}

func main() {
	os.Exit(run(os.Args[1:], os.LookupEnv, os.Stderr))
}

func parseFlags(args []string, lookup func(string) (string, bool), stderr io.Writer) (*options, error) {
	var o options
	fs := pflag.NewFlagSet("eyesopc", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&o.server, "server", "s", "127.0.0.1:7890", "OPC server address (host:port)")
	fs.Uint8Var(&o.channel, "channel", 0, "OPC channel, 0 broadcasts to all")
	fs.StringVar(&o.wiring, "wiring", "rows", "LED order: rows or serpentine")
	fs.StringVarP(&o.config, "config", "c", "", "Engine configuration file (YAML)")
	fs.StringVarP(&o.palette, "palette", "p", "", "Palette preset, overriding the configuration")
	fs.IntVar(&o.frameMs, "frame-ms", 0, "Frame interval in milliseconds (0 uses the configuration)")
	fs.IntVar(&o.frames, "frames", 0, "Stop after this many frames (0 runs until interrupted)")
	fs.Uint64Var(&o.seed, "seed", 0, "Random seed (0 keeps the configuration)")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "Enable debug logging")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: eyesopc [options]       eyes → TCP → OPC")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "options can also be set from environment variables by changing dashes '-' to underscores, using upper case and prefixing "+envPrefix)
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := applyEnv(fs, lookup); err != nil {
		return nil, err
	}
	return &o, nil
}

// applyEnv fills every flag not set on the command line from its EYES_
// variable.
func applyEnv(fs *pflag.FlagSet, lookup func(string) (string, bool)) (err error) {
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed {
			return
		}
		key := envPrefix + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		v, ok := lookup(key)
		if !ok {
			return
		}
		if serr := fs.Set(f.Name, v); serr != nil {
			err = fmt.Errorf("%s: %w", key, serr)
		}
	})
	return err
}

func run(args []string, lookup func(string) (string, bool), stderr io.Writer) int {
	o, err := parseFlags(args, lookup, stderr)
	if err != nil {
		if err != pflag.ErrHelp {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		return 0
	}
	if o.verbose {
		logger.SetLevel(logxi.LevelDebug)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var d net.Dialer
	dial := func(ctx context.Context) (net.Conn, error) {
		return d.DialContext(ctx, "tcp", o.server)
	}
	if err := stream(ctx, o, dial); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// stream renders frames until ctx ends or the frame limit is reached.
func stream(ctx context.Context, o *options, dial func(context.Context) (net.Conn, error)) error {
	cfg := config.Default()
	if o.config != "" {
		var err error
		if cfg, err = config.Load(o.config); err != nil {
			return err
		}
	}
	if o.seed != 0 {
		cfg.Seed = o.seed
	}
	if o.palette != "" {
		cfg.Palette = config.Palette{Preset: o.palette}
	}
	if o.frameMs > 0 {
		cfg.FrameMs = o.frameMs
	}
	pal, err := cfg.Palette.Build()
	if err != nil {
		return err
	}
	wiring, err := ledsink.ParseWiring(o.wiring)
	if err != nil {
		return err
	}
	e, err := cfg.NewEngine()
	if err != nil {
		return err
	}
	e.SetDebugMode(o.verbose)

	conn, err := dial(ctx)
	if err != nil {
		return fmt.Errorf("connect %s: %w", o.server, err)
	}
	defer func() {
		if conn != nil {
			conn.Close()
		}
	}()

	sink := ledsink.New(conn, o.channel, wiring, pal)
	canvas := boteyes.NewCanvas(cfg.ScreenWidth, cfg.ScreenHeight)
	frameMs := uint64(cfg.FrameMs)
	logger.Info("streaming", "server", o.server, "channel", o.channel, "wiring", wiring.String(),
		"size", fmt.Sprintf("%dx%d", cfg.ScreenWidth, cfg.ScreenHeight), "frame_ms", frameMs)

	ticker := time.NewTicker(time.Duration(frameMs) * time.Millisecond)
	defer ticker.Stop()

	for frame := 0; o.frames == 0 || frame < o.frames; frame++ {
		if err := e.Render(canvas, uint64(frame)*frameMs); err != nil {
			return err
		}

		if conn == nil {
			if conn, err = dial(ctx); err != nil {
				logger.Warn("reconnect", "server", o.server, "err", err)
				conn = nil
			} else {
				sink = ledsink.New(conn, o.channel, wiring, pal)
				logger.Info("reconnected", "server", o.server)
			}
		}
		if conn != nil {
			if _, err := sink.Send(canvas); err != nil {
				logger.Warn("send", "server", o.server, "err", err, "stack", stack.Trace().TrimRuntime())
				conn.Close()
				conn = nil
			}
		}

		if o.frames != 0 && frame == o.frames-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	sent, skipped := sink.Stats()
	logger.Info("done", "sent", sent, "skipped", skipped)
	return nil
}
