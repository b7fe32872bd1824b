package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nccportal.org/internal/httpapi"
	"nccportal.org/internal/identity"
	"nccportal.org/internal/obs"
	"nccportal.org/internal/store/pg"
	"nccportal.org/internal/stream"
)

var (
	version = "1.0.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	dsn := os.Getenv("PORTAL_PG_DSN")
	if dsn == "" {
		log.Fatal("PORTAL_PG_DSN is not set")
	}
	secret := os.Getenv("PORTAL_AUTH_SECRET")
	if secret == "" {
		log.Fatal("PORTAL_AUTH_SECRET is not set")
	}
	env := os.Getenv("PORTAL_ENV")
	if env == "" {
		env = "development"
	}
	addr := os.Getenv("PORTAL_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	store, err := pg.Open(dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	issuer, err := identity.NewIssuer(secret)
	if err != nil {
		log.Fatalf("issuer: %v", err)
	}
	creds := identity.NewPGStore(store.DB())

	api := httpapi.New(httpapi.Config{
		Version:    version,
		Env:        env,
		Issuer:     issuer,
		Registry:   identity.NewMemoryRegistry(),
		Resolver:   identity.NewResolver(creds),
		Creds:      creds,
		Store:      store,
		Stream:     stream.New(),
		ReadyProbe: httpapi.ReadyProbe{DB: store.DB()},
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		// Long-lived SSE connections; per-request write deadline stays off.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting portal-api %s on %s (%s)", version, srv.Addr, env)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	_ = store.Close()
	log.Println("Stopped")
}
