package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"quizapi/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newConcurrentTestDB opens a file-backed WAL database with several
// connections, so readers run while a writer's transaction is open. Writers
// take the write lock at BEGIN and queue on the busy timeout.
func newConcurrentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quiz.db")
	dsn := "file:" + path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=10000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(8)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedQuestion(t *testing.T, db *gorm.DB, text, answer string) models.Question {
	t.Helper()
	q, err := models.NewQuestion(text, answer)
	if err != nil {
		t.Fatalf("new question: %v", err)
	}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("seed question: %v", err)
	}
	return *q
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func questionTexts(details *QuizDetails) []string {
	texts := make([]string, 0, len(details.Questions))
	for _, q := range details.Questions {
		texts = append(texts, q.Text)
	}
	return texts
}

type fakeCache struct {
	mu          sync.Mutex
	entries     map[uuid.UUID]*QuizDetails
	generations map[uuid.UUID]int64
	invalidated []uuid.UUID
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries:     map[uuid.UUID]*QuizDetails{},
		generations: map[uuid.UUID]int64{},
	}
}

func (c *fakeCache) Get(_ context.Context, id uuid.UUID) (*QuizDetails, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.entries[id]
	return d, ok
}

func (c *fakeCache) Generation(_ context.Context, id uuid.UUID) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[id], true
}

func (c *fakeCache) Set(_ context.Context, d *QuizDetails, generation int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[d.ID] != generation {
		return
	}
	c.entries[d.ID] = d
}

func (c *fakeCache) Invalidate(_ context.Context, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[id]++
	delete(c.entries, id)
	c.invalidated = append(c.invalidated, id)
}

// gatedCache parks the first Set until release is closed, holding a reader
// between its database load and its cache fill.
type gatedCache struct {
	*fakeCache
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGatedCache() *gatedCache {
	return &gatedCache{
		fakeCache: newFakeCache(),
		entered:   make(chan struct{}),
		release:   make(chan struct{}),
	}
}

func (c *gatedCache) Set(ctx context.Context, d *QuizDetails, generation int64) {
	first := false
	c.once.Do(func() { first = true })
	if first {
		close(c.entered)
		<-c.release
	}
	c.fakeCache.Set(ctx, d, generation)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []QuizEvent
}

func (n *recordingNotifier) Publish(e QuizEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Type)
	}
	return out
}
