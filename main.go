package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var (
	configPath      = flag.String("config", "config.yml", "Path to YAML configuration")
	httpPort        = flag.Int("port", 0, "HTTP port (overrides config)")
	shutdownTimeout = flag.Duration("shutdown_timeout", 0, "HTTP server shutdown timeout (overrides config)")
	refreshSecs     = flag.Int("refresh_secs", 0, "Refresh interval in seconds (overrides config)")
	staticDir       = flag.String("static_dir", "", "Directory served at / (overrides config)")
)

func main() {
	flag.Parse()
	InitLogging()

	cfg, err := LoadAppConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	applyFlags(&cfg)
	if cfg.Map.AccessToken == "" {
		log.Printf("warning: no map access token configured; set MAPBOX_ACCESS_TOKEN")
	}

	renderer, err := NewRenderer(cfg.Map)
	if err != nil {
		log.Fatalf("renderer: %v", err)
	}
	fetchTimeout := time.Duration(cfg.Movebank.TimeoutMS) * time.Millisecond
	source := NewMovebankTrackSource(cfg.Movebank, fetchTimeout)
	view := &viewState{}
	poll := newPoller(source, renderer, view,
		time.Duration(cfg.Refresh.IntervalMS)*time.Millisecond, fetchTimeout)

	hub := newHub()
	poll.publish = hub.broadcast
	s := &server{poll: poll, hub: hub, view: view, staticDir: cfg.Server.StaticDir}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("server starting on http://localhost:%d/", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// start poller
	pctx, pcancel := context.WithCancel(context.Background())
	go poll.run(pctx)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown initiated...")

	pcancel()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Printf("HTTP server shut down successfully")
	}
}

func applyFlags(cfg *AppConfig) {
	if *httpPort > 0 {
		cfg.Server.Port = *httpPort
	}
	if *shutdownTimeout > 0 {
		cfg.Server.ShutdownTimeoutSeconds = max(1, int(shutdownTimeout.Seconds()))
	}
	if *refreshSecs > 0 {
		cfg.Refresh.IntervalMS = *refreshSecs * 1000
	}
	if *staticDir != "" {
		cfg.Server.StaticDir = *staticDir
	}
}
