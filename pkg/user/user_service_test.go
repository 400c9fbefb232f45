package user

import (
	"Invoice-Service/domain"
	"Invoice-Service/entities"
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	byEmail map[string]*entities.User
	byID    map[string]*entities.User
	created *entities.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail: map[string]*entities.User{},
		byID:    map[string]*entities.User{},
	}
}

func (s *stubUserRepo) add(user *entities.User) {
	s.byEmail[user.Email] = user
	s.byID[user.ID.String()] = user
}

func (s *stubUserRepo) CreateUser(_ context.Context, user *entities.User) error {
	user.ID = uuid.New()
	s.created = user
	s.add(user)
	return nil
}

func (s *stubUserRepo) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubJWT struct{}

func (stubJWT) GenerateTokenUser(userId string) string { return "token-for-" + userId }
func (stubJWT) ValidateTokenUser(string) (*jwt.Token, error) {
	return nil, nil
}
func (stubJWT) GetUserIDByToken(string) (string, error) { return "", nil }

func TestRegister(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := newStubUserRepo()
		svc := NewUserService(repo, stubJWT{})

		res, err := svc.Register(context.Background(), domain.RegisterRequest{
			Email:    "a@example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", res.Email)
		assert.NotEmpty(t, res.ID)

		// Password is stored hashed.
		require.NotNil(t, repo.created)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.created.Password), []byte("password123")))
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := newStubUserRepo()
		repo.add(&entities.User{ID: uuid.New(), Email: "a@example.com"})
		svc := NewUserService(repo, stubJWT{})

		_, err := svc.Register(context.Background(), domain.RegisterRequest{
			Email:    "a@example.com",
			Password: "password123",
		})
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyRegistered)
	})
}

func TestLogin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	existing := &entities.User{ID: uuid.New(), Email: "a@example.com", Password: string(hashed)}

	t.Run("success", func(t *testing.T) {
		repo := newStubUserRepo()
		repo.add(existing)
		svc := NewUserService(repo, stubJWT{})

		res, err := svc.Login(context.Background(), domain.LoginRequest{
			Email:    "a@example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, "token-for-"+existing.ID.String(), res.AccessToken)
		assert.Equal(t, "bearer", res.TokenType)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := newStubUserRepo()
		repo.add(existing)
		svc := NewUserService(repo, stubJWT{})

		_, err := svc.Login(context.Background(), domain.LoginRequest{
			Email:    "a@example.com",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc := NewUserService(newStubUserRepo(), stubJWT{})

		_, err := svc.Login(context.Background(), domain.LoginRequest{
			Email:    "nobody@example.com",
			Password: "password123",
		})
		assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)
	})
}

func TestMe(t *testing.T) {
	existing := &entities.User{ID: uuid.New(), Email: "a@example.com", IsActive: true}

	t.Run("success", func(t *testing.T) {
		repo := newStubUserRepo()
		repo.add(existing)
		svc := NewUserService(repo, stubJWT{})

		res, err := svc.Me(context.Background(), existing.ID.String())
		require.NoError(t, err)
		assert.Equal(t, existing.Email, res.Email)
		assert.True(t, res.IsActive)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := NewUserService(newStubUserRepo(), stubJWT{})

		_, err := svc.Me(context.Background(), uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
