package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	staticassets "minimap/internal/adapter/assets/static"
	httpadapter "minimap/internal/adapter/http"
	"minimap/internal/adapter/stream"
	"minimap/internal/app/loop"
	"minimap/internal/app/minimap"
	"minimap/internal/bootstrap"

	"github.com/cloudwego/hertz/pkg/app/server"
)

// frames are pushed to websocket clients every publishEvery ticks
const publishEvery = 4

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := bootstrap.ConfigFromEnv()
	a, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v (did you run SQL migrations manually?)", err)
	}
	defer a.Close()

	hub := stream.NewHub()
	defer hub.Close()

	var l *loop.Loop
	l = loop.New(cfg.TickInterval, func() {
		f := a.Step()
		if n := l.Ticks() + 1; n%publishEvery == 0 {
			publishFrame(hub, n, f)
		}
	})

	h := httpadapter.Handler{
		Runner:    l,
		Minimap:   a.Session,
		CommandUC: a.Commands,
		SaveUC:    a.Saves,
		Host:      a.Host,
		Assets:    staticassets.Provider{Root: resolveViewerRoot()},
		KPI:       a.Metrics,
	}

	addr := listenAddr("HTTP_ADDR", ":8080")
	s := server.Default(server.WithHostPorts(addr))
	s.Use(httpadapter.CORS())
	h.RegisterRoutes(s)

	streamAddr := listenAddr("STREAM_ADDR", ":8081")
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	streamSrv := &http.Server{Addr: streamAddr, Handler: mux}
	go func() {
		if err := streamSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("stream server: %v", err)
		}
	}()

	go l.Run(ctx)
	go func() {
		<-ctx.Done()
		_ = streamSrv.Close()
		_ = s.Shutdown(context.Background())
	}()

	log.Printf("minimap server listening on %s (stream on %s/ws, saves in %s)", addr, streamAddr, a.Storage)
	s.Spin()
}

func publishFrame(hub *stream.Hub, tick uint64, f minimap.Frame) {
	if hub.Len() == 0 {
		return
	}
	if f.Markers == nil {
		f.Markers = []minimap.Dot{}
	}
	if err := hub.Publish(stream.Message{Type: "frame", Tick: tick, Data: f}); err != nil {
		log.Printf("publish frame: %v", err)
	}
}

// resolveViewerRoot prefers MINIMAP_VIEWER_ROOT, then ./web/viewer when it
// exists. Empty means the viewer built into the binary.
func resolveViewerRoot() string {
	if v := strings.TrimSpace(os.Getenv("MINIMAP_VIEWER_ROOT")); v != "" {
		return v
	}
	if _, err := os.Stat("./web/viewer/index.html"); err == nil {
		return "./web/viewer"
	}
	return ""
}

func listenAddr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if !strings.Contains(v, ":") {
		return ":" + v
	}
	return v
}
