package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avukatajanda/ajanda/internal/auth"
	"github.com/avukatajanda/ajanda/internal/database/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Org{},
		&models.Membership{},
		&models.Client{},
		&models.Case{},
		&models.Event{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CreateTestOrg creates a test organization
func CreateTestOrg(t *testing.T, db *gorm.DB, name string) *models.Org {
	t.Helper()

	org := &models.Org{
		Base: models.Base{ID: uuid.New()},
		Name: name,
	}

	if err := db.Create(org).Error; err != nil {
		t.Fatalf("failed to create test org: %v", err)
	}

	return org
}

// CreateTestUser creates a user with a membership in the given org
func CreateTestUser(t *testing.T, db *gorm.DB, org *models.Org, role models.Role) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base:         models.Base{ID: uuid.New()},
		Email:        "test-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: hash,
		Name:         "Test User",
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	membership := &models.Membership{
		Base:   models.Base{ID: uuid.New()},
		UserID: user.ID,
		OrgID:  org.ID,
		Role:   role,
	}
	if err := db.Create(membership).Error; err != nil {
		t.Fatalf("failed to create test membership: %v", err)
	}

	return user
}

// CreateTestClient creates a client record in the given org
func CreateTestClient(t *testing.T, db *gorm.DB, userID, orgID uuid.UUID, name string) *models.Client {
	t.Helper()

	client := &models.Client{
		Base:   models.Base{ID: uuid.New()},
		UserID: userID,
		OrgID:  orgID,
		Name:   name,
	}

	if err := db.Create(client).Error; err != nil {
		t.Fatalf("failed to create test client: %v", err)
	}

	return client
}

// CreateTestCase creates a case for the given client
func CreateTestCase(t *testing.T, db *gorm.DB, userID, orgID, clientID uuid.UUID, caseNumber string, status models.CaseStatus) *models.Case {
	t.Helper()

	kase := &models.Case{
		Base:       models.Base{ID: uuid.New()},
		UserID:     userID,
		OrgID:      orgID,
		ClientID:   clientID,
		CaseNumber: caseNumber,
		Title:      "Test Case " + caseNumber,
		Status:     status,
	}

	if err := db.Create(kase).Error; err != nil {
		t.Fatalf("failed to create test case: %v", err)
	}

	return kase
}

// CreateTestEvent creates an event in the given org
func CreateTestEvent(t *testing.T, db *gorm.DB, userID, orgID uuid.UUID, title string, startsAt time.Time) *models.Event {
	t.Helper()

	event := &models.Event{
		Base:     models.Base{ID: uuid.New()},
		UserID:   userID,
		OrgID:    orgID,
		Title:    title,
		StartsAt: startsAt,
	}

	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to create test event: %v", err)
	}

	return event
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken generates a valid token for the given user scoped to org
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User, orgID uuid.UUID, role models.Role) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, orgID, string(role))
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with a bearer token
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestSetup holds the common test dependencies: a database, auth services and
// one tenant (org + owner + token).
type TestSetup struct {
	DB          *gorm.DB
	JWTService  *auth.JWTService
	AuthService *auth.Service
	Org         *models.Org
	User        *models.User
	Token       string
}

// NewTestContext creates a complete test setup with DB, org, user, and token
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	authService := auth.NewService(db, jwtService)
	org := CreateTestOrg(t, db, "Test Organization")
	user := CreateTestUser(t, db, org, models.RoleOwner)
	token := GenerateTestToken(t, jwtService, user, org.ID, models.RoleOwner)

	return &TestSetup{
		DB:          db,
		JWTService:  jwtService,
		AuthService: authService,
		Org:         org,
		User:        user,
		Token:       token,
	}
}

// SecondTenant creates another org with its own owner and token, for
// cross-tenant isolation tests.
func (ts *TestSetup) SecondTenant(t *testing.T) (*models.Org, *models.User, string) {
	t.Helper()

	org := CreateTestOrg(t, ts.DB, "Other Organization")
	user := CreateTestUser(t, ts.DB, org, models.RoleOwner)
	token := GenerateTestToken(t, ts.JWTService, user, org.ID, models.RoleOwner)
	return org, user, token
}

// Cleanup closes the test database
func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		sqlDB, err := ts.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}
