package service_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell-hq/inkwell/internal/apperrors"
	"github.com/inkwell-hq/inkwell/internal/models"
	"github.com/inkwell-hq/inkwell/internal/repository"
	"github.com/inkwell-hq/inkwell/internal/service"
	"github.com/inkwell-hq/inkwell/internal/testutil"
	"github.com/inkwell-hq/inkwell/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type UserServiceIntegrationTestSuite struct {
	suite.Suite
	testDB      *testutil.TestDatabase
	userRepo    *repository.UserRepository
	userService *service.UserService
	admin       *models.User
	alice       *models.User
}

func (s *UserServiceIntegrationTestSuite) SetupSuite() {
	logger.Init(false, nil)

	s.testDB = testutil.SetupTestDatabase(s.T())
	s.userRepo = repository.NewUserRepository(s.testDB.DB)
	s.userService = service.NewUserService(s.userRepo)
}

func (s *UserServiceIntegrationTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *UserServiceIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)

	s.admin, _ = testutil.CreateTestUser("root", "secret1", models.RoleAdmin)
	s.alice, _ = testutil.CreateTestUserWithEmail("alice", "secret2", "alice@example.com", models.RoleUser)
	s.testDB.DB.Create(s.admin)
	s.testDB.DB.Create(s.alice)
}

func (s *UserServiceIntegrationTestSuite) TestGetByID() {
	user, err := s.userService.GetByID(s.alice.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "alice", user.Username)

	_, err = s.userService.GetByID(uuid.New())
	require.Error(s.T(), err)
	assert.Equal(s.T(), http.StatusNotFound, apperrors.StatusOf(err))
}

func (s *UserServiceIntegrationTestSuite) TestListFilters() {
	inactive, _ := testutil.CreateTestUser("bob", "secret3", models.RoleUser)
	inactive.IsActive = false
	s.testDB.DB.Create(inactive)

	s.Run("by role", func() {
		page, err := s.userService.List(service.UserListParams{Role: "admin"})
		require.NoError(s.T(), err)
		require.Len(s.T(), page.Users, 1)
		assert.Equal(s.T(), "root", page.Users[0].Username)
	})

	s.Run("by active flag", func() {
		active := false
		page, err := s.userService.List(service.UserListParams{IsActive: &active})
		require.NoError(s.T(), err)
		require.Len(s.T(), page.Users, 1)
		assert.Equal(s.T(), "bob", page.Users[0].Username)
	})

	s.Run("by search", func() {
		page, err := s.userService.List(service.UserListParams{Search: "ALIC"})
		require.NoError(s.T(), err)
		require.Len(s.T(), page.Users, 1)
		assert.Equal(s.T(), "alice", page.Users[0].Username)
	})

	s.Run("no filter returns everyone", func() {
		page, err := s.userService.List(service.UserListParams{})
		require.NoError(s.T(), err)
		assert.Equal(s.T(), int64(3), page.Pagination.TotalCount)
	})
}

func (s *UserServiceIntegrationTestSuite) TestUpdateProfile() {
	fullName := "Alice Liddell"
	user, err := s.userService.UpdateProfile(s.alice.ID, service.ProfilePatch{FullName: &fullName})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Alice Liddell", user.FullName)
	assert.Equal(s.T(), "alice@example.com", user.Email, "untouched field must survive")
}

func (s *UserServiceIntegrationTestSuite) TestUpdateProfileEmptyPatch() {
	_, err := s.userService.UpdateProfile(s.alice.ID, service.ProfilePatch{})
	require.Error(s.T(), err)
	assert.Equal(s.T(), http.StatusBadRequest, apperrors.StatusOf(err))
}

func (s *UserServiceIntegrationTestSuite) TestSetActive() {
	user, err := s.userService.SetActive(s.admin, s.alice.ID, false)
	require.NoError(s.T(), err)
	assert.False(s.T(), user.IsActive)

	stored, err := s.userRepo.GetByID(s.alice.ID)
	require.NoError(s.T(), err)
	assert.False(s.T(), stored.IsActive)

	user, err = s.userService.SetActive(s.admin, s.alice.ID, true)
	require.NoError(s.T(), err)
	assert.True(s.T(), user.IsActive)
}

func (s *UserServiceIntegrationTestSuite) TestSelfDeactivationRejected() {
	_, err := s.userService.SetActive(s.admin, s.admin.ID, false)
	require.Error(s.T(), err)
	assert.Equal(s.T(), http.StatusBadRequest, apperrors.StatusOf(err))

	stored, err := s.userRepo.GetByID(s.admin.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), stored.IsActive, "failed deactivation must not change the account")
}

func (s *UserServiceIntegrationTestSuite) TestSetActiveUnknownUser() {
	_, err := s.userService.SetActive(s.admin, uuid.New(), false)
	require.Error(s.T(), err)
	assert.Equal(s.T(), http.StatusNotFound, apperrors.StatusOf(err))
}

func (s *UserServiceIntegrationTestSuite) TestStats() {
	veteran, _ := testutil.CreateTestUser("carol", "secret4", models.RoleUser)
	veteran.IsActive = false
	require.NoError(s.T(), s.testDB.DB.Create(veteran).Error)
	// Push carol's signup outside the trailing 30-day window.
	require.NoError(s.T(), s.testDB.DB.Model(veteran).
		Update("created_at", time.Now().Add(-45*24*time.Hour)).Error)

	stats, err := s.userService.Stats()
	require.NoError(s.T(), err)

	assert.Equal(s.T(), int64(3), stats.Total)
	assert.Equal(s.T(), int64(1), stats.Admins)
	assert.Equal(s.T(), int64(2), stats.Users)
	assert.Equal(s.T(), int64(2), stats.Active)
	assert.Equal(s.T(), int64(1), stats.Inactive)
	assert.Equal(s.T(), int64(2), stats.NewLast30Days)
}

func TestUserServiceIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceIntegrationTestSuite))
}
