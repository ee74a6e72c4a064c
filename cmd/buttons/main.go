package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	buttons "github.com/asjoyner/buttons-go"
)

const usage = `usage: buttons [flags]

Enter a loop giving updates on all digital button states.
Press any key to exit loop.

`

func main() {
	configPath := flag.String("config", "/etc/default/buttons.toml", "TOML config file")
	backend := flag.String("backend", "", "pin backend: periph, rpio or cdev")
	store := flag.String("store", "", "options image file")
	storeKind := flag.String("store-kind", "", "options store: file, i2c or none")
	offset := flag.Int64("offset", 0, "offset of the options records")
	interval := flag.Duration("interval", 0, "polling interval")
	logFile := flag.String("logfile", "", "rotate logs into this file")
	httpAddr := flag.String("http", "", "serve the button API on this address")
	watch := flag.Bool("watch", false, "reload when the options image changes")
	plain := flag.Bool("plain", false, "plain output, stop on Enter")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	explicit := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})
	cfg, err := loadConfig(*configPath, explicit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	// Flags given on the command line win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Backend = *backend
		case "store":
			cfg.Store = *store
		case "store-kind":
			cfg.StoreKind = *storeKind
		case "offset":
			cfg.Offset = *offset
		case "interval":
			cfg.Interval.Duration = *interval
		case "logfile":
			cfg.LogFile = *logFile
		case "http":
			cfg.HTTP = *httpAddr
		case "watch":
			cfg.Watch = *watch
		case "plain":
			cfg.Plain = *plain
		}
	})
	if err := cfg.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg)

	sampler, pins, err := cfg.openSampler()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize pins: %v\n", err)
		os.Exit(1)
	}
	st, err := cfg.openStore()
	if err != nil {
		// Degraded but usable: every button stays enabled.
		log.Printf("options store unavailable, all buttons enabled: %v", err)
		st = nil
	}

	c, err := buttons.New(buttons.Config{
		Sampler: sampler,
		Store:   st,
		Offset:  cfg.Offset,
		Pins:    &pins,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize buttons: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if cfg.Watch && cfg.StoreKind == "file" {
		go func() {
			if err := buttons.Watch(ctx, cfg.Store, c); err != nil {
				log.Printf("options watcher stopped: %v", err)
			}
		}()
	}

	if cfg.HTTP != "" {
		srv := &http.Server{Addr: cfg.HTTP, Handler: buttons.NewHandler(c)}
		go func() {
			log.Printf("serving button API on %s", cfg.HTTP)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("button API: %v", err)
			}
		}()
		defer func() {
			shutCtx, done := context.WithTimeout(context.Background(), time.Second)
			defer done()
			srv.Shutdown(shutCtx)
		}()
	}

	runMonitor(ctx, cancel, cfg, c)
}

// runMonitor runs the console loop until a key is pressed. It never fails
// the process: the loop always exits with status 0.
func runMonitor(ctx context.Context, cancel context.CancelFunc, cfg *config, c *buttons.Controller) {
	m := &buttons.Monitor{Source: c, Interval: cfg.Interval.Duration}

	if cfg.Plain {
		m.Out = os.Stdout
		go stopOnInput(os.Stdin, cancel)
	} else {
		scr, closeScreen, err := openScreen(cancel)
		if err != nil {
			log.Printf("no terminal, using plain output: %v", err)
			m.Out = os.Stdout
			go stopOnInput(os.Stdin, cancel)
		} else {
			defer closeScreen()
			m.Out = scr
		}
	}

	if err := m.Run(ctx); err != nil {
		log.Printf("monitor: %v", err)
	}
}

// stopOnInput cancels once anything can be read from r.
func stopOnInput(r io.Reader, cancel context.CancelFunc) {
	bufio.NewReader(r).ReadByte()
	cancel()
}

func setupLogging(cfg *config) {
	path := cfg.LogFile
	if path == "" && !cfg.Plain {
		// stderr would draw over the termbox screen
		path = filepath.Join(os.TempDir(), "buttons.log")
	}
	if path == "" {
		return
	}
	log.SetOutput(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    1, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	})
}
