// Package startup holds the hooks that run once the database is reachable and before
// the HTTP server accepts requests.
package startup

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/isabella232/azure-intelligent-edge-patterns/internal/domain"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/metrics"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/ports"
)

// RunServerArg is the launch argument that marks an interactive server run.
const RunServerArg = "runserver"

// DemoPartNames are the detection classes of the bundled demo model, in seeding order.
var DemoPartNames = []string{
	"aeroplane",
	"bicycle",
	"bird",
	"boat",
	"bottle",
	"bus",
	"car",
	"cat",
	"chair",
	"cow",
	"diningtable",
	"dog",
	"horse",
	"motorbike",
	"person",
	"pottedplant",
	"sheep",
	"sofa",
	"train",
	"tvmonitor",
}

// IsRunServer reports whether args contain RunServerArg.
func IsRunServer(args []string) bool {
	return slices.Contains(args, RunServerArg)
}

// PartsApp is the startup hook of the parts sub-application.
type PartsApp struct {
	Parts      ports.DemoPartStore
	Logger     *slog.Logger
	CreateDemo bool
}

// Ready seeds the demo parts when the process was launched with RunServerArg.
// Migration or one-off commands leave the store untouched.
func (a PartsApp) Ready(ctx context.Context, args []string) error {
	if !IsRunServer(args) {
		return nil
	}
	log := a.logger()
	log.Info("parts app ready while running server")

	if a.CreateDemo {
		log.Info("creating demo parts", "count", len(DemoPartNames))
		if err := SeedDemoParts(ctx, a.Parts, log); err != nil {
			return err
		}
		log.Info("creating demo parts finished")
	}

	log.Info("parts app ready end")
	return nil
}

func (a PartsApp) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// SeedDemoParts upserts every name in DemoPartNames as a demo part. It is idempotent.
// The first failure stops the batch.
func SeedDemoParts(ctx context.Context, store ports.DemoPartStore, log *slog.Logger) error {
	for _, name := range DemoPartNames {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Debug("upserting demo part", "name", name)
		p, created, err := store.UpsertDemo(ctx, name, domain.DemoDescription)
		if err != nil {
			return fmt.Errorf("seed demo part %q: %w", name, err)
		}
		result := "updated"
		if created {
			result = "created"
		}
		metrics.DemoPartsSeeded.WithLabelValues(result).Inc()
		log.Debug("upserted demo part", "name", name, "id", p.ID, "result", result)
	}
	return nil
}
