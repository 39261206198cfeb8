package service

import (
	"sync"
	"testing"

	"github.com/derintolu/frs-partner-network/internal/repository/mysql"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupDB opens an in-memory SQLite database with the full schema. A single
// connection keeps every gorm session on the same memory database.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, mysql.Migrate(db), "failed to migrate test database")
	return db
}

type testServices struct {
	db          *gorm.DB
	identity    *IdentityService
	membership  *MembershipService
	company     *CompanyService
	partnership *PartnershipService
	activity    *ActivityService
	ingest      *IngestService
	notifier    *fakeNotifier
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := setupDB(t)
	logger := zap.NewNop()
	notifier := &fakeNotifier{}

	identity := NewIdentityService(db, logger)
	membership := NewMembershipService(db, logger)
	return &testServices{
		db:          db,
		identity:    identity,
		membership:  membership,
		company:     NewCompanyService(db, membership, logger),
		partnership: NewPartnershipService(db, identity, membership, notifier, nil, "http://localhost:5173", logger),
		activity:    NewActivityService(db, membership, logger),
		ingest:      NewIngestService(db, identity, membership, logger),
		notifier:    notifier,
	}
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeNotifier) SendInvitation(email, name, companyName, message, acceptLink string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, email)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}
