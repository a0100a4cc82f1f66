package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/rigado/adscan"
	"github.com/rigado/adscan/scanner"
)

func main() {
	if err := newApp(os.Stdin, os.Stdout).Run(os.Args); err != nil {
		adscan.GetLogger().Error(err)
		os.Exit(1)
	}
}

func newApp(in io.Reader, out io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "adscan"
	app.Usage = "decode BLE advertising payloads"
	app.Version = "0.1.0"
	app.Writer = out

	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Usage: "YAML config file", EnvVar: "ADSCAN_CONFIG"},
		cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error", EnvVar: "ADSCAN_LOG_LEVEL"},
		cli.StringFlag{Name: "format, f", Usage: "output format, text or json", EnvVar: "ADSCAN_FORMAT"},
		cli.StringFlag{Name: "filter", Usage: "only show addresses matching the glob, e.g. a4:c1:38:*", EnvVar: "ADSCAN_FILTER"},
		cli.BoolFlag{Name: "legacy", Usage: "reject payloads over 31 bytes"},
		cli.BoolFlag{Name: "names", Usage: "print element type names"},
	}

	app.Commands = []cli.Command{
		{
			Name:      "decode",
			Usage:     "decode hex payloads from the arguments, a file or stdin",
			ArgsUsage: "[hex...]",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "file", Usage: "read events from file, one per line"},
			},
			Action: func(c *cli.Context) error {
				return cmdDecode(c, in, out)
			},
		},
		{
			Name:  "listen",
			Usage: "decode events from a serial scanner until interrupted",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "port, p", Usage: "serial port", EnvVar: "ADSCAN_PORT"},
				cli.UintFlag{Name: "baud, b", Usage: "baud rate", EnvVar: "ADSCAN_BAUD"},
			},
			Action: func(c *cli.Context) error {
				return cmdListen(c, out)
			},
		},
	}

	return app
}

// loadConfig reads the config file, if any, and applies the global flags
// over it.
func loadConfig(c *cli.Context) (scanner.Config, error) {
	cfg := scanner.DefaultConfig()
	if p := c.GlobalString("config"); p != "" {
		var err error
		if cfg, err = scanner.LoadConfig(p); err != nil {
			return cfg, err
		}
	}

	if c.GlobalIsSet("log-level") {
		cfg.LogLevel = c.GlobalString("log-level")
	}
	if c.GlobalIsSet("format") {
		cfg.Format = c.GlobalString("format")
	}
	if c.GlobalIsSet("filter") {
		cfg.Filter = c.GlobalString("filter")
	}
	if c.GlobalBool("legacy") {
		cfg.Legacy = true
	}
	if c.GlobalBool("names") {
		cfg.TypeNames = true
	}

	if err := adscan.SetLogLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func newHandler(cfg scanner.Config, out io.Writer) (*scanner.Handler, error) {
	opts, err := cfg.Options(out)
	if err != nil {
		return nil, err
	}
	return scanner.New(opts...)
}

func cmdDecode(c *cli.Context, in io.Reader, out io.Writer) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	h, err := newHandler(cfg, out)
	if err != nil {
		return err
	}
	defer logStats(h)

	if c.NArg() > 0 {
		for _, arg := range c.Args() {
			b, err := adscan.ParseHex(arg)
			if err != nil {
				adscan.GetLogger().Warnf("skipping %q: %v", arg, err)
				continue
			}
			if err := h.Handle(&adscan.Advertisement{Payload: b}); err != nil {
				adscan.GetLogger().Warnf("skipping %q: %v", arg, err)
			}
		}
		return nil
	}

	if f := c.String("file"); f != "" {
		fd, err := os.Open(f)
		if err != nil {
			return errors.Wrap(err, "can't open events file")
		}
		defer fd.Close()
		in = fd
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return ignoreCanceled(h.Run(ctx, scanner.NewLineSource(in)))
}

func cmdListen(c *cli.Context, out io.Writer) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("port") {
		cfg.Serial.Port = c.String("port")
	}
	if c.IsSet("baud") {
		cfg.Serial.Baud = c.Uint("baud")
	}

	h, err := newHandler(cfg, out)
	if err != nil {
		return err
	}
	defer logStats(h)

	src, err := scanner.OpenSerial(cfg.Serial)
	if err != nil {
		return err
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	adscan.GetLogger().Infof("listening on %v", cfg.Serial.Port)
	return ignoreCanceled(h.Run(ctx, src))
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func logStats(h *scanner.Handler) {
	s := h.Stats()
	adscan.GetLogger().ChildLogger(map[string]interface{}{
		"events":            s.Events,
		"rejected":          s.Rejected,
		"filtered":          s.Filtered,
		"elements":          s.Elements,
		"malformedElements": s.MalformedElements,
		"malformedServices": s.MalformedServices,
	}).Debug("done")
}
