package role_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoMediaVault/GoMediaVault/internal/auth"
	"github.com/GoMediaVault/GoMediaVault/internal/db/models"
	"github.com/GoMediaVault/GoMediaVault/internal/rolestore"
	rolemw "github.com/GoMediaVault/GoMediaVault/internal/web/middleware/role"
	"github.com/GoMediaVault/GoMediaVault/internal/web/navigation"
	websess "github.com/GoMediaVault/GoMediaVault/internal/web/session"
)

// testStorage is a minimal in-memory implementation of storage.Storage.
type testStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ storage.Storage = (*testStorage)(nil)

func newTestStorage() *testStorage {
	return &testStorage{data: make(map[string][]byte)}
}

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.data[key]
	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (s *testStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)

	return nil
}

func (s *testStorage) Close() error { return nil }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupMapping{},
		&models.UserGroup{},
	)
	require.NoError(t, err)

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, role auth.Role) *models.User {
	t.Helper()

	u := &models.User{
		Active:     true,
		Username:   username,
		Email:      username + "@example.com",
		Role:       role.String(),
		AuthSource: models.AuthSourceLocal,
	}
	require.NoError(t, db.Create(u).Error)

	return u
}

// newTestApp builds a Fiber app with the role middleware and a route that
// reports the locals the middleware is expected to set.
func newTestApp(authService *auth.Service, roles *rolestore.Store) *fiber.App {
	app := fiber.New()
	app.Use(rolemw.Middleware(authService, roles))

	app.Get("/whoami", func(c *fiber.Ctx) error {
		menuSections := 0
		if menu, ok := c.Locals("Menu").([]navigation.Section); ok {
			menuSections = len(menu)
		}

		return c.SendString(fmt.Sprintf("%s|%s|%d",
			rolemw.FromContext(c),
			rolemw.EffectiveFromContext(c),
			menuSections,
		))
	})

	return app
}

// startSession writes a session for the user and returns its ID.
func startSession(t *testing.T, user *models.User) string {
	t.Helper()

	sessionID, err := websess.GenerateSessionID()
	require.NoError(t, err)

	sessData := &websess.Data{User: *user}
	require.NoError(t, sessData.Write(sessionID, time.Minute))

	return sessionID
}

func performGet(t *testing.T, app *fiber.App, sessionID string) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: sessionID})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(body)
}

func TestMiddleware_NoPreviewUsesEffectiveRole(t *testing.T) {
	db := newTestDB(t)
	st := newTestStorage()
	websess.Init(st)

	roles := rolestore.New(st, time.Minute)
	app := newTestApp(auth.NewService(db), roles)

	admin := seedUser(t, db, "admin", auth.RoleAdmin)
	sessionID := startSession(t, admin)

	// admin sees library, upload and analytics menu sections
	assert.Equal(t, "admin|admin|3", performGet(t, app, sessionID))
}

func TestMiddleware_LowerPreviewNarrowsRenderedRole(t *testing.T) {
	db := newTestDB(t)
	st := newTestStorage()
	websess.Init(st)

	roles := rolestore.New(st, time.Minute)
	app := newTestApp(auth.NewService(db), roles)

	superAdmin := seedUser(t, db, "root", auth.RoleSuperAdmin)
	sessionID := startSession(t, superAdmin)

	require.NoError(t, roles.Set(sessionID, auth.RoleViewer))

	// rendered role and menu shrink to viewer, the effective role stays
	assert.Equal(t, "viewer|super_admin|1", performGet(t, app, sessionID))
}

func TestMiddleware_HigherPreviewNeverElevates(t *testing.T) {
	db := newTestDB(t)
	st := newTestStorage()
	websess.Init(st)

	roles := rolestore.New(st, time.Minute)
	app := newTestApp(auth.NewService(db), roles)

	viewer := seedUser(t, db, "viewer", auth.RoleViewer)
	sessionID := startSession(t, viewer)

	// a stored super_admin preview must not widen anything
	require.NoError(t, roles.Set(sessionID, auth.RoleSuperAdmin))

	assert.Equal(t, "viewer|viewer|1", performGet(t, app, sessionID))
}

func TestMiddleware_NoSessionLeavesDefaults(t *testing.T) {
	db := newTestDB(t)
	st := newTestStorage()
	websess.Init(st)

	roles := rolestore.New(st, time.Minute)
	app := newTestApp(auth.NewService(db), roles)

	// without a session cookie the helpers fall back to viewer and no menu
	// locals are set
	assert.Equal(t, "viewer|viewer|0", performGet(t, app, ""))
}
