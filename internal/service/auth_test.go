package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/mbela/lookbook/internal/config"
	"github.com/mbela/lookbook/internal/domain"
	"github.com/mbela/lookbook/internal/logger"
)

type fakeUserStore struct {
	users  []*domain.User
	nextID uint
}

func (f *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	f.nextID++
	user.ID = f.nextID
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uint) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestAuthService() (*AuthService, *fakeUserStore) {
	store := &fakeUserStore{}
	svc := NewAuthService(store, &config.AuthConfig{
		Secret:          "test-secret",
		AccessTokenTTL:  15,
		RefreshTokenTTL: 7,
	}, logger.NewDefault())
	return svc, store
}

func registerTestUser(t *testing.T, svc *AuthService) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), &RegisterInput{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "correct-horse",
		FullName: "Ada Lovelace",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return user
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, store := newTestAuthService()
	user := registerTestUser(t, svc)

	if user.Password == "correct-horse" {
		t.Fatal("Register() stored the password in plain text")
	}
	if len(store.users) != 1 {
		t.Fatalf("store holds %d users, want 1", len(store.users))
	}
	if user.Role != domain.RoleUser {
		t.Errorf("Register() role = %q, want user", user.Role)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _ := newTestAuthService()
	registerTestUser(t, svc)

	_, err := svc.Register(context.Background(), &RegisterInput{
		Username: "ada",
		Email:    "other@example.com",
		Password: "whatever-else",
		FullName: "Someone",
	})
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate username error = %v, want ErrUserExists", err)
	}

	_, err = svc.Register(context.Background(), &RegisterInput{
		Username: "other",
		Email:    "ada@example.com",
		Password: "whatever-else",
		FullName: "Someone",
	})
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate email error = %v, want ErrUserExists", err)
	}
}

func TestLoginAndParseToken(t *testing.T) {
	svc, _ := newTestAuthService()
	user := registerTestUser(t, svc)

	pair, err := svc.Login(context.Background(), "ada", "correct-horse")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("Login() returned empty tokens")
	}
	if pair.TokenType != "bearer" {
		t.Errorf("TokenType = %q, want bearer", pair.TokenType)
	}

	claims, err := svc.ParseToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.UserID != user.ID || claims.Kind != "access" {
		t.Errorf("claims = {UserID: %d, Kind: %q}, want {%d, access}", claims.UserID, claims.Kind, user.ID)
	}
}

func TestLoginByEmail(t *testing.T) {
	svc, _ := newTestAuthService()
	registerTestUser(t, svc)

	if _, err := svc.Login(context.Background(), "ada@example.com", "correct-horse"); err != nil {
		t.Fatalf("Login() by email error = %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, store := newTestAuthService()
	registerTestUser(t, svc)

	if _, err := svc.Login(context.Background(), "ada", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), "nobody", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user error = %v, want ErrInvalidCredentials", err)
	}

	store.users[0].IsActive = false
	if _, err := svc.Login(context.Background(), "ada", "correct-horse"); !errors.Is(err, ErrInactiveAccount) {
		t.Errorf("inactive account error = %v, want ErrInactiveAccount", err)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _ := newTestAuthService()
	registerTestUser(t, svc)

	pair, err := svc.Login(context.Background(), "ada", "correct-horse")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if _, err := svc.Refresh(context.Background(), pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Refresh(access token) error = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); err != nil {
		t.Errorf("Refresh(refresh token) error = %v", err)
	}
}

func TestParseTokenRejectsForgedToken(t *testing.T) {
	svc, _ := newTestAuthService()
	registerTestUser(t, svc)

	other := NewAuthService(&fakeUserStore{}, &config.AuthConfig{
		Secret:          "different-secret",
		AccessTokenTTL:  15,
		RefreshTokenTTL: 7,
	}, logger.NewDefault())
	pair, err := other.issueTokens(&domain.User{ID: 1, Role: domain.RoleAdmin})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.ParseToken(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ParseToken(forged) error = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.ParseToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ParseToken(garbage) error = %v, want ErrInvalidToken", err)
	}
}
