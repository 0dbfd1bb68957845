// Command replay inspects a persisted match: it prints a snapshot's summary
// and, optionally, replays the tick audit log's action stream against a
// freshly constructed engine and prints the replay's final step and entity
// count. It does not compare the replayed state with the stored snapshot;
// the two printed summaries are only shown side by side.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zstd"

	"github.com/murphybt/massim-2020/internal/config"
	"github.com/murphybt/massim-2020/internal/engine"
	persistlog "github.com/murphybt/massim-2020/internal/persistence/log"
	"github.com/murphybt/massim-2020/internal/persistence/snapshot"
)

func main() {
	var (
		snapPath   = flag.String("snapshot", "", "path to a .snap.zst written by cmd/server")
		auditDir   = flag.String("audit", "", "audit dir containing ticks-*.jsonl.zst (optional)")
		configPath = flag.String("config", "./configs/match.yaml", "match configuration path, needed to replay the audit log")
		schemaPath = flag.String("schema", "./schemas/config.schema.json", "config JSON schema path")
	)
	flag.Parse()

	if *snapPath == "" {
		fmt.Fprintln(os.Stderr, "missing -snapshot")
		os.Exit(2)
	}

	snap, err := snapshot.ReadSnapshot(*snapPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}
	fmt.Printf("snapshot step=%d entities=%d blocks=%d dispensers=%d tasks=%d\n",
		snap.Step, len(snap.Entities), len(snap.Blocks), len(snap.Dispensers), len(snap.Tasks))

	if *auditDir == "" {
		return
	}

	cfg, gridSection, err := config.Load(*configPath, *schemaPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	terrain, err := config.LoadTerrain(gridSection.TerrainBitmap)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load terrain:", err)
		os.Exit(1)
	}
	gs, err := engine.New(cfg, terrain, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init engine:", err)
		os.Exit(1)
	}

	entries, err := readAuditEntries(*auditDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read audit log:", err)
		os.Exit(1)
	}

	var last engine.Snapshot
	for _, e := range entries {
		gs.PrepareStep(e.Step)
		gs.ApplyActions(e.Actions)
		last = gs.BuildSnapshot()
	}
	fmt.Printf("replayed %d ticks; final step=%d entities=%d\n", len(entries), last.Step, len(last.Entities))
}

// readAuditEntries loads every ticks-*.jsonl.zst file in dir, in filename
// order, and returns their entries in step order.
func readAuditEntries(dir string) ([]persistlog.TickAuditEntry, error) {
	files, err := filepath.Glob(filepath.Join(dir, "ticks-*.jsonl.zst"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var out []persistlog.TickAuditEntry
	for _, path := range files {
		entries, err := readOneAuditFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, entries...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Step < out[j].Step })
	return out, nil
}

func readOneAuditFile(path string) ([]persistlog.TickAuditEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []persistlog.TickAuditEntry
	scanner := bufio.NewScanner(dec)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		var e persistlog.TickAuditEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, scanner.Err()
}
