package user

import (
	"context"
	"strings"
	"testing"
	"time"
	"tuvino/domain"
	redisrepo "tuvino/internal/repository/redis"
	"tuvino/pkg/utils"

	"github.com/go-playground/validator/v10"
)

const testVerificationKey = "0123456789abcdef"

type fakeUserRepo struct {
	byUID map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byUID: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	u := *user
	f.byUID[user.UID] = &u
	return nil
}

func (f *fakeUserRepo) FindByUID(ctx context.Context, uid string) (domain.User, error) {
	if u, ok := f.byUID[uid]; ok {
		return *u, nil
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, u := range f.byUID {
		if u.Email == email {
			return *u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	for _, u := range f.byUID {
		if u.Username == username {
			return *u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateEmailVerification(ctx context.Context, uid string, verified bool) error {
	u, ok := f.byUID[uid]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsVerified = verified
	return nil
}

func (f *fakeUserRepo) UpdateOnboarding(ctx context.Context, uid string, completed bool) error {
	u, ok := f.byUID[uid]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.OnboardingCompleted = completed
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, uid string) error {
	if _, ok := f.byUID[uid]; !ok {
		return domain.ErrUserNotFound
	}
	delete(f.byUID, uid)
	return nil
}

type fakePrefRepo struct {
	prefs map[string]*domain.UserPreference
}

func (f *fakePrefRepo) Upsert(ctx context.Context, pref *domain.UserPreference) error {
	f.prefs[pref.UserID] = pref
	return nil
}

func (f *fakePrefRepo) FindByUserID(ctx context.Context, userID string) (*domain.UserPreference, error) {
	p, ok := f.prefs[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return p, nil
}

type fakeNotifRepo struct {
	lastBody string
}

func (f *fakeNotifRepo) SendEmail(toName, toEmail, subject, message string) error {
	f.lastBody = message
	return nil
}

type fakeSessionRepo struct {
	stored  *redisrepo.SessionData
	revoked string
}

func (f *fakeSessionRepo) StoreSession(ctx context.Context, data redisrepo.SessionData, ttl time.Duration) error {
	f.stored = &data
	return nil
}

func (f *fakeSessionRepo) RevokeSession(ctx context.Context, userID string) error {
	f.revoked = userID
	return nil
}

func newTestService() (*userService, *fakeUserRepo, *fakeNotifRepo, *fakeSessionRepo) {
	utils.InitJWT("test-secret")

	userRepo := newFakeUserRepo()
	notifRepo := &fakeNotifRepo{}
	sessionRepo := &fakeSessionRepo{}
	prefRepo := &fakePrefRepo{prefs: map[string]*domain.UserPreference{}}

	svc := NewUserService(userRepo, prefRepo, validator.New(), notifRepo, sessionRepo, testVerificationKey, "http://localhost:8080")
	return svc, userRepo, notifRepo, sessionRepo
}

func TestRegisterCreatesUnverifiedCustomer(t *testing.T) {
	svc, userRepo, notifRepo, _ := newTestService()

	user, err := svc.Register(context.Background(), &domain.User{
		Username: "winelover",
		Email:    "wine@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.UID == "" {
		t.Error("expected generated uid")
	}
	if user.IsVerified {
		t.Error("new users must start unverified")
	}
	if user.Role != RoleCustomer {
		t.Errorf("role = %s, want customer", user.Role)
	}
	if user.Password != "" {
		t.Error("password leaked in response")
	}

	stored := userRepo.byUID[user.UID]
	if stored == nil {
		t.Fatal("user not persisted")
	}
	if stored.Password == "secret123" {
		t.Error("password stored in plaintext")
	}
	if notifRepo.lastBody == "" {
		t.Error("verification email not sent")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _, _, _ := newTestService()

	first := &domain.User{Username: "dupe", Email: "dupe@example.com", Password: "secret123"}
	if _, err := svc.Register(context.Background(), first); err != nil {
		t.Fatalf("first register: %v", err)
	}

	if _, err := svc.Register(context.Background(), &domain.User{Username: "other", Email: "dupe@example.com", Password: "secret123"}); err == nil {
		t.Error("expected duplicate email rejection")
	}
	if _, err := svc.Register(context.Background(), &domain.User{Username: "dupe", Email: "new@example.com", Password: "secret123"}); err == nil {
		t.Error("expected duplicate username rejection")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _, _ := newTestService()

	cases := []domain.User{
		{Username: "ok", Email: "not-an-email", Password: "secret123"},
		{Username: "ab", Email: "a@b.com", Password: "secret123"},
		{Username: "fine", Email: "a@b.com", Password: "short"},
	}
	for _, u := range cases {
		if _, err := svc.Register(context.Background(), &u); err == nil {
			t.Errorf("register accepted invalid input %+v", u)
		}
	}
}

func TestVerifyEmailRoundTrip(t *testing.T) {
	svc, userRepo, notifRepo, _ := newTestService()

	user, err := svc.Register(context.Background(), &domain.User{
		Username: "verifyme",
		Email:    "verify@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// the emailed activation link ends with the encrypted code
	marker := "email-verification/"
	idx := strings.Index(notifRepo.lastBody, marker)
	if idx < 0 {
		t.Fatalf("no activation link in email body: %q", notifRepo.lastBody)
	}
	code := notifRepo.lastBody[idx+len(marker):]
	if cut := strings.IndexAny(code, "< \n"); cut >= 0 {
		code = code[:cut]
	}

	if err := svc.VerifyEmail(context.Background(), code); err != nil {
		t.Fatalf("verify email: %v", err)
	}

	if !userRepo.byUID[user.UID].IsVerified {
		t.Error("user not flagged verified")
	}

	// a second use of the same link must fail
	if err := svc.VerifyEmail(context.Background(), code); err == nil {
		t.Error("expected reused verification link to be rejected")
	}
}

func TestVerifyEmailGarbageCode(t *testing.T) {
	svc, _, _, _ := newTestService()

	if err := svc.VerifyEmail(context.Background(), "bm90LXJlYWw="); err == nil {
		t.Error("expected error for invalid code")
	}
}

func TestLoginFlow(t *testing.T) {
	svc, userRepo, _, sessionRepo := newTestService()

	user, err := svc.Register(context.Background(), &domain.User{
		Username: "login",
		Email:    "login@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// unverified login is rejected
	if _, _, err := svc.Login(context.Background(), "login@example.com", "secret123"); err == nil {
		t.Error("expected unverified login rejection")
	}

	userRepo.byUID[user.UID].IsVerified = true

	if _, _, err := svc.Login(context.Background(), "login@example.com", "wrongpass"); err == nil {
		t.Error("expected wrong password rejection")
	}

	token, loggedIn, err := svc.Login(context.Background(), "login@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Error("expected a token")
	}
	if loggedIn.Password != "" {
		t.Error("password leaked in login response")
	}
	if sessionRepo.stored == nil || sessionRepo.stored.UserID != user.UID {
		t.Error("session not stored")
	}

	claims, err := utils.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != user.UID {
		t.Errorf("token user = %s, want %s", claims.UserID, user.UID)
	}
}

func TestCompleteOnboarding(t *testing.T) {
	svc, userRepo, _, _ := newTestService()

	user, err := svc.Register(context.Background(), &domain.User{
		Username: "onboard",
		Email:    "onboard@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	err = svc.CompleteOnboarding(context.Background(), user.UID, &domain.UserPreference{
		Type: 1, Body: 2, Intensity: 3, Dryness: 1, ABV: 2,
	})
	if err != nil {
		t.Fatalf("complete onboarding: %v", err)
	}

	if !userRepo.byUID[user.UID].OnboardingCompleted {
		t.Error("onboarding flag not set")
	}

	pref, err := svc.GetPreferences(context.Background(), user.UID)
	if err != nil {
		t.Fatalf("get preferences: %v", err)
	}
	if pref.Intensity != 3 {
		t.Errorf("intensity = %d, want 3", pref.Intensity)
	}
}
