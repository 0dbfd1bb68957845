// Package index is an optional async SQLite side-index over the match: a
// queryable mirror of the tick audit log and final results, never the
// source of truth (the JSONL audit log is). Grounded on the teacher's
// indexdb.SQLiteIndex channel-plus-goroutine writer.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/murphybt/massim-2020/internal/engine"
)

type Index struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type reqKind int

const (
	reqTick reqKind = iota + 1
	reqTask
	reqResult
)

type req struct {
	kind reqKind

	step    int
	actions map[string]engine.Action
	results map[string]engine.ResultCode

	task engine.TaskView

	team  string
	score int
}

func Open(path string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("empty index db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	idx := &Index{db: db, ch: make(chan req, 65536)}
	idx.wg.Add(1)
	go func() {
		defer idx.wg.Done()
		idx.loop()
	}()
	return idx, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS actions (
			step INTEGER NOT NULL,
			agent TEXT NOT NULL,
			action_type TEXT NOT NULL,
			result TEXT NOT NULL,
			PRIMARY KEY (step, agent)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_actions_agent_step ON actions(agent, step);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			name TEXT PRIMARY KEY,
			deadline_step INTEGER NOT NULL,
			reward INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS results (
			team TEXT PRIMARY KEY,
			score INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (x *Index) Close() error {
	var err error
	x.once.Do(func() {
		x.closed.Store(true)
		close(x.ch)
		x.wg.Wait()
		err = x.db.Close()
	})
	return err
}

// WriteTick enqueues one tick's actions and results. Non-blocking: if the
// writer has fallen behind, the record is dropped, since the JSONL audit
// log (internal/persistence/log) remains authoritative.
func (x *Index) WriteTick(step int, actions map[string]engine.Action, results map[string]engine.ResultCode) {
	if x == nil || x.closed.Load() {
		return
	}
	select {
	case x.ch <- req{kind: reqTick, step: step, actions: actions, results: results}:
	default:
	}
}

func (x *Index) RecordTask(t engine.TaskView) {
	if x == nil || x.closed.Load() {
		return
	}
	select {
	case x.ch <- req{kind: reqTask, task: t}:
	default:
	}
}

func (x *Index) RecordResult(team string, score int) {
	if x == nil || x.closed.Load() {
		return
	}
	select {
	case x.ch <- req{kind: reqResult, team: team, score: score}:
	default:
	}
}

func (x *Index) loop() {
	ctx := context.Background()

	insertAction, _ := x.db.Prepare(`INSERT OR REPLACE INTO actions(step,agent,action_type,result) VALUES(?,?,?,?)`)
	insertTask, _ := x.db.Prepare(`INSERT OR REPLACE INTO tasks(name,deadline_step,reward) VALUES(?,?,?)`)
	insertResult, _ := x.db.Prepare(`INSERT OR REPLACE INTO results(team,score,recorded_at) VALUES(?,?,?)`)
	defer func() {
		if insertAction != nil {
			_ = insertAction.Close()
		}
		if insertTask != nil {
			_ = insertTask.Close()
		}
		if insertResult != nil {
			_ = insertResult.Close()
		}
	}()

	var (
		tx          *sql.Tx
		opCount     int
		lastCommit  = time.Now()
		commitEvery = 500
		commitWait  = 2 * time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := x.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
	}

	for r := range x.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqTick:
			for agent, act := range r.actions {
				result := r.results[agent]
				_, _ = tx.Stmt(insertAction).Exec(r.step, agent, act.Type, string(result))
				opCount++
			}
		case reqTask:
			_, _ = tx.Stmt(insertTask).Exec(r.task.Name, r.task.DeadlineStep, r.task.Reward)
			opCount++
		case reqResult:
			_, _ = tx.Stmt(insertResult).Exec(r.team, r.score, time.Now().UTC().Format(time.RFC3339Nano))
			opCount++
		}

		if opCount >= commitEvery || time.Since(lastCommit) >= commitWait {
			commit()
		}
	}
	commit()
}
