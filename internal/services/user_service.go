package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpost/server/internal/guard"
	"github.com/inkpost/server/internal/helpers"
	"github.com/inkpost/server/internal/models"
)

// UserService covers the account lifecycle (register, login, verification,
// password reset) and the social-graph mutations (follow, unfollow, views,
// moderation flags).
type UserService struct {
	userRepo    models.UserRepo
	tokens      *helpers.TokenSource
	mailer      Mailer
	jwtSecret   string
	frontendURL string
}

func NewUserService(userRepo models.UserRepo, tokens *helpers.TokenSource, mailer Mailer, jwtSecret, frontendURL string) *UserService {
	return &UserService{
		userRepo:    userRepo,
		tokens:      tokens,
		mailer:      mailer,
		jwtSecret:   jwtSecret,
		frontendURL: frontendURL,
	}
}

// NormalizeEmail is applied before every email lookup and before storage,
// so the duplicate check and login agree on identity.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (us *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.PublicUser, error) {
	email := NormalizeEmail(req.Email)

	if _, err := us.userRepo.GetUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: %s", models.ErrDuplicateAccount, email)
	}

	if !helpers.IsPasswordStrong(req.Password) {
		return nil, fmt.Errorf("%w: password is not strong enough", models.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	now := time.Now()
	user := &models.User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     email,
		Password:  string(hashed),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := models.Validate.Struct(user); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	created, err := us.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	return created.Public(), nil
}

// Login returns a signed session credential and the public projection of
// the user. A blocked account cannot log in unless it is an admin account.
func (us *UserService) Login(ctx context.Context, email, password string) (string, *models.PublicUser, error) {
	user, err := us.userRepo.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return "", nil, fmt.Errorf("%w", models.ErrInvalidCredentials)
	}

	if user.IsBlocked && !user.IsAdmin {
		return "", nil, fmt.Errorf("%w: %s", models.ErrAccessBlocked, user.FirstName)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("%w", models.ErrInvalidCredentials)
	}

	token, err := helpers.SignSessionToken(user.ID.Hex(), user.IsAdmin, us.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %v", err)
	}

	return token, user.Public(), nil
}

// CurrentUser loads the full user record for the auth middleware.
func (us *UserService) CurrentUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return us.userRepo.GetUserByID(ctx, id)
}

func (us *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.PublicUser, error) {
	user, err := us.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// GetProfile fetches a profile and records the view. A viewer appears in
// viewed_by at most once; viewing your own profile is not recorded.
func (us *UserService) GetProfile(ctx context.Context, profileId, viewerId primitive.ObjectID) (*models.PublicUser, error) {
	user, err := us.userRepo.GetUserByID(ctx, profileId)
	if err != nil {
		return nil, err
	}

	if viewerId != profileId {
		if err := us.userRepo.AppendViewedBy(ctx, profileId, viewerId); err != nil {
			return nil, err
		}
	}

	return user.Public(), nil
}

func (us *UserService) ListUsers(ctx context.Context) ([]*models.PublicUser, error) {
	users, err := us.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	public := make([]*models.PublicUser, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}
	return public, nil
}

func (us *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, req *models.UpdateProfileRequest) (*models.PublicUser, error) {
	update := map[string]interface{}{}
	if req.FirstName != nil {
		update["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		update["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Bio != nil {
		update["bio"] = *req.Bio
	}
	if req.ProfilePhoto != nil {
		update["profile_photo"] = *req.ProfilePhoto
	}
	if len(update) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", models.ErrValidation)
	}

	user, err := us.userRepo.UpdateUser(ctx, id, update)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

func (us *UserService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	return us.userRepo.DeleteUser(ctx, id)
}

// Follow adds the actor to the target's followers and the target to the
// actor's following list. The two writes are independent single-document
// updates; a crash in between leaves the edge half-written.
func (us *UserService) Follow(ctx context.Context, actorId, targetId primitive.ObjectID) error {
	if actorId == targetId {
		return fmt.Errorf("%w: cannot follow yourself", models.ErrValidation)
	}

	target, err := us.userRepo.GetUserByID(ctx, targetId)
	if err != nil {
		return err
	}
	if target.IsFollowedBy(actorId) {
		return fmt.Errorf("%w: %s", models.ErrAlreadyFollowing, targetId.Hex())
	}

	if err := us.userRepo.AppendFollower(ctx, targetId, actorId); err != nil {
		return err
	}
	return us.userRepo.AppendFollowing(ctx, actorId, targetId)
}

// Unfollow is idempotent: removing an absent edge is a no-op success.
func (us *UserService) Unfollow(ctx context.Context, actorId, targetId primitive.ObjectID) error {
	if actorId == targetId {
		return fmt.Errorf("%w: cannot unfollow yourself", models.ErrValidation)
	}

	if err := us.userRepo.PullFollower(ctx, targetId, actorId); err != nil {
		return err
	}
	return us.userRepo.PullFollowing(ctx, actorId, targetId)
}

func (us *UserService) SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) error {
	return us.userRepo.SetBlocked(ctx, id, blocked)
}

func (us *UserService) SetAdmin(ctx context.Context, id primitive.ObjectID, isAdmin bool) error {
	return us.userRepo.SetAdmin(ctx, id, isAdmin)
}

// RequestVerification issues an account verification token and mails the
// raw token to the user. Re-requesting replaces any previous token.
func (us *UserService) RequestVerification(ctx context.Context, userId primitive.ObjectID) error {
	user, err := us.userRepo.GetUserByID(ctx, userId)
	if err != nil {
		return err
	}
	if err := guard.CheckNotBlocked(user); err != nil {
		return err
	}

	raw, hash, expires, err := us.tokens.Issue()
	if err != nil {
		return err
	}

	if err := us.userRepo.SetVerificationToken(ctx, userId, hash, expires); err != nil {
		return err
	}

	subject, plain, html := verificationEmail(us.frontendURL, raw)
	return us.mailer.Send(ctx, user.Email, subject, plain, html)
}

// VerifyAccount consumes a verification token. An unknown, expired, or
// already-consumed token fails with TokenExpiredOrInvalid.
func (us *UserService) VerifyAccount(ctx context.Context, rawToken string) (*models.PublicUser, error) {
	hash := helpers.HashToken(rawToken)
	user, err := us.userRepo.GetUserByVerificationToken(ctx, hash, us.tokens.Now())
	if err != nil {
		return nil, fmt.Errorf("%w", models.ErrTokenExpiredOrInvalid)
	}

	if err := us.userRepo.MarkAccountVerified(ctx, user.ID); err != nil {
		return nil, err
	}

	user.IsAccountVerified = true
	return user.Public(), nil
}

// ForgotPassword issues a reset token and mails it to the account's email.
func (us *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := us.userRepo.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}

	raw, hash, expires, err := us.tokens.Issue()
	if err != nil {
		return err
	}

	if err := us.userRepo.SetResetToken(ctx, user.ID, hash, expires); err != nil {
		return err
	}

	subject, plain, html := passwordResetEmail(us.frontendURL, raw)
	return us.mailer.Send(ctx, user.Email, subject, plain, html)
}

// ResetPassword consumes a reset token and stores the new password hash.
// The token is cleared in the same write, so it cannot be replayed.
func (us *UserService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	if !helpers.IsPasswordStrong(newPassword) {
		return fmt.Errorf("%w: password is not strong enough", models.ErrValidation)
	}

	hash := helpers.HashToken(rawToken)
	user, err := us.userRepo.GetUserByResetToken(ctx, hash, us.tokens.Now())
	if err != nil {
		return fmt.Errorf("%w", models.ErrTokenExpiredOrInvalid)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	return us.userRepo.SetPassword(ctx, user.ID, string(hashed))
}
