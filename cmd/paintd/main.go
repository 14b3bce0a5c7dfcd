// Command paintd serves one shared painting document to browser clients
// over websockets.
//
// Clients connect to /ws and speak the JSON protocol of package remote. The
// document is restored from the -state file at start and written back on
// shutdown.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io/fs"
	"log"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/gogpu/paint"
	"github.com/gogpu/paint/internal/palette"
	"github.com/gogpu/paint/internal/remote"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("paintd: %v", err)
	}
	level, _ := cfg.level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	paint.SetLogger(logger)

	if cfg.Browse {
		err := remote.Browse(func(addr string) { fmt.Println(addr) })
		if err != nil {
			log.Fatalf("paintd: browse: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("paintd: exit", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, logger *slog.Logger) error {
	opts := []paint.AreaOption{
		paint.WithDocumentSize(cfg.Width, cfg.Height),
		paint.WithHistoryLimit(cfg.History),
	}
	if cfg.RemoteImages {
		opts = append(opts, paint.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}))
	}
	area := paint.NewArea(opts...)
	defer area.Close()

	if err := restore(ctx, area, cfg.State); err != nil {
		return err
	}

	var hubOpts []remote.Option
	if cfg.Palettes != "" {
		ps, err := palette.Load(cfg.Palettes)
		if err != nil {
			return fmt.Errorf("load palettes: %w", err)
		}
		logger.Info("paintd: palettes loaded", "count", len(ps))
		hubOpts = append(hubOpts, remote.WithPalettes(ps))
	}
	if len(cfg.Origins) > 0 {
		hubOpts = append(hubOpts, remote.WithOriginCheck(allowOrigins(cfg.Origins)))
	}
	hub := remote.NewHub(area, hubOpts...)

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	serveErr := make(chan error, 1)
	go func() {
		err := srv.Serve(ln)
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			cancel()
		}
	}()
	logger.Info("paintd: listening", "addr", ln.Addr().String())

	if cfg.Advertise {
		port := ln.Addr().(*net.TCPAddr).Port
		zone, err := remote.Advertise(port, "path=/ws")
		if err != nil {
			logger.Warn("paintd: not advertising", "err", err)
		} else {
			defer zone.Shutdown()
		}
	}

	hub.Run(ctx)

	shutdown, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := srv.Shutdown(shutdown); err != nil {
		logger.Warn("paintd: shutdown", "err", err)
	}
	if cfg.State != "" {
		if err := save(shutdown, area, cfg.State); err != nil {
			return err
		}
		logger.Info("paintd: state saved", "path", cfg.State)
	}

	select {
	case err := <-serveErr:
		return err
	default:
		return nil
	}
}

// restore loads the document at path, if it exists, and makes sure the
// document has a layer to draw on. The loaded state is not undoable.
func restore(ctx context.Context, a *paint.Area, path string) error {
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return err
		default:
			if err := a.LoadBytes(b, true); err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}
			ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			if err := a.Sync(ctx); err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}
		}
	}
	if a.Len() == 0 {
		w, h := a.Size()
		pix := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(pix, pix.Rect, image.NewUniform(color.White), image.Point{}, draw.Src)
		s := &paint.Snapshot{W: w, H: h, Pixels: pix, Opacity: 1, Visible: true, Mode: "normal"}
		if _, err := a.CreateLayer(0, s); err != nil {
			return err
		}
	}
	a.ClearHistory()
	return nil
}

// save writes the document to path as SVG, replacing the file atomically.
// Layers still decoding are given until ctx is done.
func save(ctx context.Context, a *paint.Area, path string) error {
	if err := a.Sync(ctx); err != nil {
		paint.Logger().Warn("paintd: saving with layers still loading", "loading", a.Loading())
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".paintd-*.svg")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	if err := a.Export(f, paint.FormatSVG); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

func allowOrigins(hosts []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host) || slices.Contains(hosts, u.Host)
	}
}
