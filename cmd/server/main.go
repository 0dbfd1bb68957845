// Command server runs a single match of the engine to completion, writing
// periodic snapshots, a tick audit log, an optional SQLite side-index and a
// read-only spectator feed. Match orchestration, per-agent networking and
// authentication are out of scope (spec.md §1): this harness advances the
// simulation with no-op actions so every other subsystem (persistence,
// config, observer feed) can be exercised end to end; a real harness
// submits live agent actions to GameState.ApplyActions in their place.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/murphybt/massim-2020/internal/config"
	"github.com/murphybt/massim-2020/internal/engine"
	"github.com/murphybt/massim-2020/internal/observer"
	persistlog "github.com/murphybt/massim-2020/internal/persistence/log"
	"github.com/murphybt/massim-2020/internal/persistence/snapshot"
)

func main() {
	var (
		addr          = flag.String("addr", ":8080", "http listen address for the /observe spectator feed")
		configPath    = flag.String("config", "./configs/match.yaml", "match configuration path")
		schemaPath    = flag.String("schema", "./schemas/config.schema.json", "config JSON schema path")
		dataDir       = flag.String("data", "./data", "runtime data directory")
		steps         = flag.Int("steps", 500, "total match length in steps")
		tickInterval  = flag.Duration("tick_interval", 0, "sleep between ticks (0 = run as fast as possible)")
		snapshotEvery = flag.Int("snapshot_every", 50, "write a snapshot every N steps (0 disables)")
		indexPath     = flag.String("index", "", "optional sqlite side-index path (empty disables)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cfg, gridSection, err := config.Load(*configPath, *schemaPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	terrain, err := config.LoadTerrain(gridSection.TerrainBitmap)
	if err != nil {
		logger.Fatalf("load terrain: %v", err)
	}

	gs, err := engine.New(cfg, terrain, logger)
	if err != nil {
		logger.Fatalf("init engine: %v", err)
	}

	matchDir := filepath.Join(*dataDir, "match")
	if err := os.MkdirAll(matchDir, 0o755); err != nil {
		logger.Fatalf("create data dir: %v", err)
	}

	auditLogger := persistlog.NewTickAuditLogger(matchDir)
	defer auditLogger.Close()

	var sideIndex *sqliteIndex
	if *indexPath != "" {
		sideIndex, err = openSideIndex(*indexPath)
		if err != nil {
			logger.Fatalf("open side index: %v", err)
		}
		defer sideIndex.Close()
	}

	obsServer := observer.NewServer(logger)
	mux := http.NewServeMux()
	mux.HandleFunc("/observe", obsServer.Handler())
	httpServer := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Printf("observer http server: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runMatch(ctx, gs, *steps, *tickInterval, *snapshotEvery, matchDir, logger, auditLogger, sideIndex, obsServer)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	result := gs.BuildResult()
	for team, entry := range result {
		fmt.Printf("%s: %d\n", team, entry.Score)
	}
}

func runMatch(
	ctx context.Context,
	gs *engine.GameState,
	steps int,
	tickInterval time.Duration,
	snapshotEvery int,
	matchDir string,
	logger *log.Logger,
	auditLogger *persistlog.TickAuditLogger,
	sideIndex *sqliteIndex,
	obsServer *observer.Server,
) {
	for step := 1; step <= steps; step++ {
		select {
		case <-ctx.Done():
			logger.Printf("match interrupted at step %d", step)
			return
		default:
		}

		percepts := gs.PrepareStep(step)
		actions := noOpActions(percepts)
		results := gs.ApplyActions(actions)

		if err := auditLogger.WriteTick(persistlog.TickAuditEntry{Step: step, Actions: actions, Results: results}); err != nil {
			logger.Printf("write tick audit: %v", err)
		}
		if sideIndex != nil {
			sideIndex.WriteTick(step, actions, results)
			for _, task := range gs.OpenTasks() {
				sideIndex.RecordTask(task)
			}
			for team, entry := range gs.BuildResult() {
				sideIndex.RecordResult(team, entry.Score)
			}
		}

		snap := gs.BuildSnapshot()
		obsServer.Broadcast(snap)

		if snapshotEvery > 0 && step%snapshotEvery == 0 {
			path := filepath.Join(matchDir, "snapshots", fmt.Sprintf("step-%06d.snap.zst", step))
			if err := snapshot.WriteSnapshot(path, snap); err != nil {
				logger.Printf("write snapshot: %v", err)
			}
		}

		if tickInterval > 0 {
			time.Sleep(tickInterval)
		}
	}
}

// noOpActions submits a skip for every agent that received a percept. A
// real harness replaces this with actions collected from connected agents.
func noOpActions(percepts map[string]engine.StepPercept) map[string]engine.Action {
	actions := make(map[string]engine.Action, len(percepts))
	for agent := range percepts {
		actions[agent] = engine.Action{Type: "skip"}
	}
	return actions
}
