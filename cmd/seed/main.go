package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"incubator/internal/config"
	"incubator/internal/db"
	"incubator/internal/logging"
	"incubator/internal/repository"
	"incubator/internal/service"
)

const maxDescriptionLength = 100

// SeedEvent is one entry of the seed document.
type SeedEvent struct {
	Description string `json:"description"`
}

func main() {
	source := flag.String("source", os.Getenv("SEED_SOURCE"), "path or http(s) URL of a JSON array of events")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	if *source == "" {
		logger.Error("no seed source given, use -source or SEED_SOURCE")
		os.Exit(2)
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("connect database", "err", err)
		os.Exit(1)
	}
	if err := db.Migrate(gormDB, false); err != nil {
		logger.Error("run migrations", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	logger.Info("fetching events", "source", *source)
	events, err := loadEvents(ctx, *source)
	if err != nil {
		logger.Error("load events", "err", err)
		os.Exit(1)
	}

	// The seed tool talks to the database directly, so no cache is wired.
	svc := service.NewEventService(repository.NewEventRepository(gormDB), nil)
	created, skipped, err := seedEvents(ctx, svc, events, logger)
	if err != nil {
		logger.Error("seed events", "err", err)
		os.Exit(1)
	}
	logger.Info("seed completed", "created", created, "skipped", skipped, "total", len(events))
}

// loadEvents reads the seed document from a local file or an http(s) URL.
func loadEvents(ctx context.Context, source string) ([]SeedEvent, error) {
	var r io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", source, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: status code %d", source, resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", source, err)
		}
		r = f
	}
	defer r.Close()

	var events []SeedEvent
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return events, nil
}

// seedEvents creates every event whose description is not stored yet.
// Blank or over-long descriptions are skipped.
func seedEvents(ctx context.Context, svc service.EventService, events []SeedEvent, logger *slog.Logger) (created int, skipped int, err error) {
	existing, err := svc.List(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list events: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, ev := range existing {
		seen[ev.Description] = true
	}

	for _, item := range events {
		desc := strings.TrimSpace(item.Description)
		if desc == "" || utf8.RuneCountInString(desc) > maxDescriptionLength {
			logger.Warn("skipping invalid event", "description", item.Description)
			skipped++
			continue
		}
		if seen[desc] {
			skipped++
			continue
		}
		if _, err := svc.Create(ctx, desc); err != nil {
			return created, skipped, fmt.Errorf("create event %q: %w", desc, err)
		}
		seen[desc] = true
		created++
	}
	return created, skipped, nil
}
