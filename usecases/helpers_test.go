package usecases

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/models"
	"github.com/rpupo63/chantier-backend/services"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testEmail(local string) string {
	return local + "@chantier.test"
}

type fakeDeliverer struct {
	mu    sync.Mutex
	sent  []services.Notice
	to    [][]services.Recipient
	fails error
}

func (f *fakeDeliverer) Deliver(ctx context.Context, recipients []services.Recipient, notice services.Notice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, notice)
	f.to = append(f.to, recipients)
	return f.fails
}

func (f *fakeDeliverer) count(noticeType string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.sent {
		if s.Type == noticeType {
			n++
		}
	}
	return n
}

type fakeBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: map[string][]byte{}}
}

func (f *fakeBlobs) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeBlobs) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	db        database.Database
	uc        *UseCases
	deliverer *fakeDeliverer
	blobs     *fakeBlobs
	clock     *testClock
	owner     Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	f := &fixture{
		db:        database.New(db),
		deliverer: &fakeDeliverer{},
		blobs:     newFakeBlobs(),
		clock:     &testClock{t: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)},
	}
	f.uc = New(f.db, Options{
		Deliverer: f.deliverer,
		Blobs:     f.blobs,
		Clock:     f.clock.now,
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	})
	f.owner = f.account(t, "batisud", "owner")
	return f
}

// account creates a tenant with one owner and returns the owner as actor.
func (f *fixture) account(t *testing.T, slug, ownerName string) Actor {
	t.Helper()
	ctx := context.Background()
	account := models.Account{Name: slug, Slug: slug, SubscriptionStatus: models.SubscriptionActive}
	if err := f.db.AccountRepo().Add(ctx, &account); err != nil {
		t.Fatalf("create account: %v", err)
	}
	user := f.user(t, ownerName+"."+slug, "secret-password")
	f.member(t, account.ID, user.ID, models.RoleOwner)
	return Actor{AccountID: account.ID, UserID: user.ID}
}

func (f *fixture) user(t *testing.T, name, password string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := models.User{Name: name, Email: testEmail(name), PasswordHash: string(hash)}
	if err := f.db.UserRepo().Add(context.Background(), &user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (f *fixture) member(t *testing.T, accountID, userID uuid.UUID, role string) {
	t.Helper()
	membership := models.Membership{UserID: userID, Role: role}
	if err := f.db.MembershipRepo().Create(context.Background(), accountID, &membership); err != nil {
		t.Fatalf("create membership: %v", err)
	}
}

func (f *fixture) project(t *testing.T, a Actor, name string) *models.Project {
	t.Helper()
	project, err := f.uc.Projects.Create(context.Background(), a, ProjectInput{Name: name, Budget: decPtr("100000")})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return project
}

func (f *fixture) task(t *testing.T, a Actor, projectID uuid.UUID, title string) *models.ProjectTask {
	t.Helper()
	task, err := f.uc.Tasks.Create(context.Background(), a, TaskInput{ProjectID: projectID, Title: title})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}

func upload(name string) *Upload {
	return &Upload{Filename: name, ContentType: "image/jpeg", Body: bytes.NewReader([]byte("jpeg-bytes"))}
}
