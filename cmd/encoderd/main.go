// Command encoderd polls a rotary encoder and two push buttons over GPIO and
// streams detected events to stdout, one token per line. A status LED is
// held active while the process is alive and released on shutdown.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/tvargenta/encoderd/internal/config"
	"github.com/tvargenta/encoderd/internal/gpio"
	"github.com/tvargenta/encoderd/internal/report"
	"github.com/tvargenta/encoderd/internal/status"
	"github.com/tvargenta/encoderd/internal/telemetry"
	"github.com/tvargenta/encoderd/internal/web"
)

const longHelp = `encoderd turns a rotary encoder (CLK/DT), its integrated push button (SW)
and an auxiliary button (NEXT) into a stream of newline-delimited event
tokens on stdout:

  ROTARY_CW, ROTARY_CCW, BTN_PRESS, BTN_RELEASE, BTN_NEXT

Diagnostics go to stderr so stdout stays a pure event stream. The status
LED is on for exactly as long as the lines are held. SIGINT and SIGTERM
both trigger the same graceful shutdown: LED off, lines released, exit 0.`

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := config.Default()
	var cfgPath string
	var printState bool

	root := &cobra.Command{
		Use:           "encoderd",
		Short:         "Stream rotary encoder and button events as newline-delimited tokens",
		Long:          longHelp,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			// Config precedence: flags > env > file > defaults.
			path := cfgPath
			if path == "" {
				path = config.DefaultPath()
			}
			if path != "" {
				fc, err := config.LoadFile(path)
				switch {
				case err == nil:
					if err := config.ApplyFile(&cfg, fc, changed); err != nil {
						return fmt.Errorf("apply config %s: %w", path, err)
					}
				case os.IsNotExist(err) && cfgPath == "":
					// Default config file is optional.
				default:
					return fmt.Errorf("load config %s: %w", path, err)
				}
			}
			if err := config.ApplyEnv(&cfg, changed); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := config.Logger(cfg.LogLevel)
			if err := run(cfg, printState, log); err != nil {
				log.Error().Err(err).Msg("fatal")
				return err
			}
			return nil
		},
	}

	f := root.Flags()
	f.StringVar(&cfgPath, "config", "", "path to TOML config file (default ~/.encoderd/config.toml)")
	f.StringVar(&cfg.Chip, "chip", cfg.Chip, "GPIO character device name")
	f.DurationVar(&cfg.Poll, "poll", cfg.Poll, "line sampling interval")
	f.DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "NEXT button debounce window")
	f.DurationVar(&cfg.Heartbeat, "heartbeat", cfg.Heartbeat, "telemetry heartbeat interval (0 to disable)")
	f.StringVar(&cfg.Broker, "broker", cfg.Broker, "MQTT broker URL for lifecycle telemetry (empty to disable)")
	f.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "status page listen address (empty to disable)")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")
	f.BoolVar(&printState, "print-state", false, "read the lines once, print their state, and exit")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg config.Config, printState bool, log zerolog.Logger) error {
	dev, err := gpio.Open(cfg.Chip)
	if err != nil {
		return fmt.Errorf("provision gpio: %w", err)
	}
	// The deferred Close runs on every exit path, so the LED never stays
	// lit after an abnormal return. Close is idempotent.
	defer func() {
		if cerr := dev.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("release gpio")
		}
	}()

	if printState {
		sample, err := dev.Read()
		if err != nil {
			return fmt.Errorf("read lines: %w", err)
		}
		fmt.Printf("CLK=%s DT=%s SW=%s NEXT=%s\n",
			stateStr(sample.CLK), stateStr(sample.DT), stateStr(sample.SW), stateStr(sample.Next))
		return nil
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		Chip:        cfg.Chip,
		PollMs:      cfg.Poll.Milliseconds(),
		DebounceMs:  cfg.Debounce.Milliseconds(),
		HeartbeatMs: cfg.Heartbeat.Milliseconds(),
		Broker:      cfg.Broker,
		HTTPAddr:    cfg.HTTPAddr,
	})
	tracker.SetIndicator(true)

	var pub telemetry.Publisher
	var conn telemetry.ConnectionStatus
	if cfg.Broker != "" {
		real, err := telemetry.NewRealPublisher(cfg.Broker, log)
		if err != nil {
			log.Warn().Err(err).Str("broker", cfg.Broker).Msg("telemetry disabled: broker connect failed")
		} else {
			pub = real
			conn = real
			defer real.Close()
			tracker.SetBrokerConnected(real.IsConnected())
		}
	}

	publishLifecycle(pub, tracker, "STARTUP", "", time.Now(), log)

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("http server")
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info().Str("addr", cfg.HTTPAddr).Msg("status server listening")
	}

	log.Info().
		Str("chip", cfg.Chip).
		Dur("poll", cfg.Poll).
		Dur("debounce", cfg.Debounce).
		Msg("started")

	// Signal handling: the handler goroutine performs a single latch write
	// and nothing else. The loop observes the latch once per poll cycle,
	// bounding shutdown latency to one interval.
	stop := &stopFlag{}
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		s := <-sigCh
		stop.Trigger(signalName(s))
	}()

	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()

	rep := report.NewStreamReporter(os.Stdout)
	return runLoop(dev, rep, pub, conn, tracker, cfg.Debounce, cfg.Heartbeat, log, time.Now, ticker.C, stop)
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

func stateStr(active bool) string {
	if active {
		return "ACTIVE"
	}
	return "INACTIVE"
}
