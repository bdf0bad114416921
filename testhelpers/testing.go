package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"userapi/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/mock"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB connects to TEST_DATABASE_URL and skips the test when it is unset
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			_, err := pool.Exec(context.Background(), `DROP TABLE IF EXISTS users`)
			pool.Close()
			return err
		},
	}
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// SampleUser builds a stored user with the given identity fields
func SampleUser(uuid, email string) *models.User {
	return &models.User{
		PID:      1,
		UUID:     uuid,
		Username: StringPtr(email),
		Email:    StringPtr(email),
		Created:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// MockUserRepository is a testify mock of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) EnsureSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUUID(ctx context.Context, uuid string) (*models.User, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, userArgs models.UserArgs) (*models.User, error) {
	args := m.Called(ctx, userArgs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, uuid string, userArgs models.UserArgs) (*models.User, error) {
	args := m.Called(ctx, uuid, userArgs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, uuid string) (*models.User, *models.User, error) {
	args := m.Called(ctx, uuid)
	var before, after *models.User
	if v := args.Get(0); v != nil {
		before = v.(*models.User)
	}
	if v := args.Get(1); v != nil {
		after = v.(*models.User)
	}
	return before, after, args.Error(2)
}

// MockPinger is a testify mock of a database ping
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
