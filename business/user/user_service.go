package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"tuvino/domain"
	redisrepo "tuvino/internal/repository/redis"
	"tuvino/pkg/logger"
	"tuvino/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pobyzaarif/goshortcute"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByUID(ctx context.Context, uid string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	UpdateEmailVerification(ctx context.Context, uid string, verified bool) error
	UpdateOnboarding(ctx context.Context, uid string, completed bool) error
	Delete(ctx context.Context, uid string) error
}

type PreferenceRepository interface {
	Upsert(ctx context.Context, pref *domain.UserPreference) error
	FindByUserID(ctx context.Context, userID string) (*domain.UserPreference, error)
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(toName, toEmail, subject, message string) (err error)
}

// SessionRepository keeps issued tokens revocable.
type SessionRepository interface {
	StoreSession(ctx context.Context, data redisrepo.SessionData, ttl time.Duration) error
	RevokeSession(ctx context.Context, userID string) error
}

const (
	verificationCodeTTL    = 5
	sessionTTL             = 24 * time.Hour
	SubjectRegisterAccount = "Welcome to tuVino!"
	EmailBodyRegister      = `Hi %v, confirm your email address by opening the link below</br></br>%v</br>note: the link is only valid for %v minutes`
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type userService struct {
	userRepo                UserRepository
	prefRepo                PreferenceRepository
	validate                *validator.Validate
	notifRepo               NotificationRepository
	sessionRepo             SessionRepository
	appEmailVerificationKey string
	appDeploymentUrl        string
}

func NewUserService(
	userRepo UserRepository,
	prefRepo PreferenceRepository,
	validate *validator.Validate,
	notifRepo NotificationRepository,
	sessionRepo SessionRepository,
	appEmailVerificationKey string,
	appDeploymentUrl string,
) *userService {
	return &userService{
		userRepo:                userRepo,
		prefRepo:                prefRepo,
		validate:                validate,
		notifRepo:               notifRepo,
		sessionRepo:             sessionRepo,
		appEmailVerificationKey: appEmailVerificationKey,
		appDeploymentUrl:        appDeploymentUrl,
	}
}

func (s *userService) Register(ctx context.Context, user *domain.User) (domain.User, error) {
	if err := s.validate.Var(user.Email, "required,email"); err != nil {
		logger.Error("Invalid email format", err)
		return domain.User{}, errors.New("invalid email format")
	}

	if err := s.validate.Var(user.Username, "required,min=3,max=32"); err != nil {
		logger.Error("Invalid username", err)
		return domain.User{}, errors.New("username must be 3 to 32 characters")
	}

	if err := s.validate.Var(user.Password, "required,min=6"); err != nil {
		logger.Error("Invalid user password", err)
		return domain.User{}, errors.New("password must be at least 6 characters")
	}

	if existing, err := s.userRepo.FindByEmail(ctx, user.Email); err == nil && existing.UID != "" {
		logger.Error("Email already exists")
		return domain.User{}, errors.New("email already exists")
	}
	if existing, err := s.userRepo.FindByUsername(ctx, user.Username); err == nil && existing.UID != "" {
		logger.Error("Username already exists")
		return domain.User{}, errors.New("username already exists")
	}

	passwordHash, err := utils.HashPassword(user.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return domain.User{}, errors.New("failed to hash password")
	}

	newUser := domain.User{
		UID:        uuid.New().String(),
		Username:   user.Username,
		Email:      user.Email,
		Password:   string(passwordHash),
		IsVerified: false,
		Role:       RoleCustomer,
	}

	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		logger.Error("Failed to create new user")
		return domain.User{}, err
	}

	expAt := time.Now().Add(time.Minute * verificationCodeTTL).Unix()

	verificationCode := fmt.Sprintf("%v|%v", newUser.Email, expAt)
	verificationCodeEncrypt, err := goshortcute.AESCBCEncrypt([]byte(verificationCode), []byte(s.appEmailVerificationKey))
	if err != nil {
		logger.Fatal("error when encrypt")
	}
	strEncode := goshortcute.StringtoBase64Encode(verificationCodeEncrypt)
	activationLink := s.appDeploymentUrl + "/api/v1/users/email-verification/" + strEncode

	err = s.notifRepo.SendEmail(newUser.Username, newUser.Email, SubjectRegisterAccount, fmt.Sprintf(EmailBodyRegister, newUser.Username, activationLink, verificationCodeTTL))
	if err != nil {
		logger.Warn("Failed to send verification email", err)
	}

	newUser.Password = ""
	return newUser, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("Invalid user credentials", err)
		return "", domain.User{}, err
	}

	if ok := utils.CheckPassword(password, user.Password); !ok {
		logger.Error("User password incorrect")
		return "", domain.User{}, errors.New("incorrect password")
	}

	if !user.IsVerified {
		logger.Error("Email address has not been verified")
		return "", domain.User{}, errors.New("email address has not been verified")
	}

	token, err := utils.GenerateJWT(user.UID, user.Role)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return "", domain.User{}, errors.New("failed to generate token")
	}

	now := time.Now()
	err = s.sessionRepo.StoreSession(ctx, redisrepo.SessionData{
		UserID:    user.UID,
		Role:      user.Role,
		Token:     token,
		IssuedAt:  now,
		ExpiresAt: now.Add(sessionTTL),
	}, sessionTTL)
	if err != nil {
		logger.Warn("Failed to store session", err)
	}

	user.Password = ""
	return token, user, nil
}

func (s *userService) Logout(ctx context.Context, userID string) error {
	if err := s.sessionRepo.RevokeSession(ctx, userID); err != nil {
		logger.Warn("Failed to revoke session", err)
		return err
	}

	return nil
}

func (s *userService) VerifyEmail(ctx context.Context, verificationCodeEncrypt string) error {
	strDecode := goshortcute.StringtoBase64Decode(verificationCodeEncrypt)
	verificationCodeDecrypt, err := goshortcute.AESCBCDecrypt([]byte(strDecode), []byte(s.appEmailVerificationKey))
	if err != nil {
		logger.Error("Verifying email error", err)
		return errors.New("invalid or expired url")
	}

	verificationCode := strings.Split(verificationCodeDecrypt, "|")
	if len(verificationCode) != 2 {
		logger.Error("Verifying email error", verificationCodeDecrypt)
		return errors.New("invalid or expired url")
	}

	email := verificationCode[0]
	expAtStr := verificationCode[1]

	ts, err := strconv.ParseInt(expAtStr, 10, 64)
	if err != nil {
		logger.Error("Verifying email error", verificationCodeDecrypt)
		return errors.New("invalid or expired url")
	}
	if time.Now().After(time.Unix(ts, 0)) {
		return errors.New("invalid or expired url")
	}

	getUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("Verifying email error", err)
		return errors.New("failed to get user by email")
	}

	if getUser.IsVerified {
		logger.Warn("verify email err", "err", "email verified already")
		return errors.New("invalid or expired url")
	}

	if err := s.userRepo.UpdateEmailVerification(ctx, getUser.UID, true); err != nil {
		logger.Error("Verify email err", err)
		return err
	}

	return nil
}

func (s *userService) GetUserByUID(ctx context.Context, uid string) (domain.User, error) {
	user, err := s.userRepo.FindByUID(ctx, uid)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			logger.Error("Failed to get user by uid", err)
		}
		return domain.User{}, err
	}

	user.Password = ""
	return user, nil
}

// CompleteOnboarding stores the questionnaire answers and flips the
// onboarding flag. Recommendations stay gated until this succeeds.
func (s *userService) CompleteOnboarding(ctx context.Context, uid string, pref *domain.UserPreference) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	user, err := s.userRepo.FindByUID(ctx, uid)
	if err != nil {
		return err
	}

	pref.UserID = user.UID
	if err := s.prefRepo.Upsert(ctx, pref); err != nil {
		logger.Error("Failed to store preferences", err)
		return err
	}

	if err := s.userRepo.UpdateOnboarding(ctx, user.UID, true); err != nil {
		logger.Error("Failed to flag onboarding complete", err)
		return err
	}

	return nil
}

func (s *userService) GetPreferences(ctx context.Context, uid string) (*domain.UserPreference, error) {
	pref, err := s.prefRepo.FindByUserID(ctx, uid)
	if err != nil {
		return nil, err
	}

	return pref, nil
}

func (s *userService) UpdatePreferences(ctx context.Context, uid string, pref *domain.UserPreference) error {
	pref.UserID = uid
	if err := s.prefRepo.Upsert(ctx, pref); err != nil {
		logger.Error("Failed to update preferences", err)
		return err
	}

	return nil
}

func (s *userService) DeleteUser(ctx context.Context, uid string) error {
	if err := s.userRepo.Delete(ctx, uid); err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			logger.Error("Failed to delete user", err)
		}
		return err
	}

	return nil
}
