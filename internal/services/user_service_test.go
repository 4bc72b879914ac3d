package services

import (
	"context"
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/inkpost/server/internal/helpers"
	"github.com/inkpost/server/internal/models"
)

type testClock struct {
	now time.Time
}

func (tc *testClock) Advance(d time.Duration) { tc.now = tc.now.Add(d) }

func newTestUserService() (*UserService, *fakeUserRepo, *fakeMailer, *testClock) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{}
	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	tokens := &helpers.TokenSource{
		Rand: rand.Reader,
		Now:  func() time.Time { return clock.now },
	}
	svc := NewUserService(repo, tokens, mailer, "test-secret", "http://localhost:3000")
	return svc, repo, mailer, clock
}

func registerUser(t *testing.T, svc *UserService, email string) *models.PublicUser {
	t.Helper()
	user, err := svc.Register(context.Background(), &models.RegisterRequest{
		FirstName: "Alice",
		LastName:  "Mensah",
		Email:     email,
		Password:  "Sup3rSecret",
	})
	require.NoError(t, err)
	return user
}

// rawTokenFromMail pulls the raw token out of the emailed link.
func rawTokenFromMail(t *testing.T, m sentMail) string {
	t.Helper()
	parts := strings.Split(strings.TrimSpace(m.plain), "/")
	require.NotEmpty(t, parts)
	return parts[len(parts)-1]
}

func TestRegisterReturnsPublicProjection(t *testing.T) {
	svc, repo, _, _ := newTestUserService()

	user := registerUser(t, svc, "alice@example.com")

	assert.Equal(t, "alice@example.com", user.Email)
	assert.False(t, user.IsBlocked)
	assert.False(t, user.IsAccountVerified)

	// The stored record carries a bcrypt hash, never the plaintext
	stored, err := repo.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3rSecret", stored.Password)
	assert.NotEmpty(t, stored.Password)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestUserService()

	registerUser(t, svc, "alice@example.com")

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		FirstName: "Alice",
		LastName:  "Mensah",
		Email:     "alice@example.com",
		Password:  "Sup3rSecret",
	})
	assert.ErrorIs(t, err, models.ErrDuplicateAccount)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc, _, _, _ := newTestUserService()

	registerUser(t, svc, "alice@example.com")

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		FirstName: "Alice",
		LastName:  "Mensah",
		Email:     "  ALICE@Example.com ",
		Password:  "Sup3rSecret",
	})
	assert.ErrorIs(t, err, models.ErrDuplicateAccount)
}

func TestRegisterWeakPassword(t *testing.T) {
	svc, _, _, _ := newTestUserService()

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		FirstName: "Alice",
		LastName:  "Mensah",
		Email:     "alice@example.com",
		Password:  "alllowercase",
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestLoginSuccess(t *testing.T) {
	svc, _, _, _ := newTestUserService()
	registered := registerUser(t, svc, "alice@example.com")

	token, user, err := svc.Login(context.Background(), "alice@example.com", "Sup3rSecret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, registered.ID, user.ID)
}

func TestLoginWrongPasswordHasNoLockout(t *testing.T) {
	svc, _, _, _ := newTestUserService()
	registerUser(t, svc, "alice@example.com")

	for i := 0; i < 3; i++ {
		_, _, err := svc.Login(context.Background(), "alice@example.com", "wrong-password")
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	}

	// Three failed attempts do not lock the account
	_, _, err := svc.Login(context.Background(), "alice@example.com", "Sup3rSecret")
	assert.NoError(t, err)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestUserService()

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "Sup3rSecret")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestLoginBlockedUser(t *testing.T) {
	svc, repo, _, _ := newTestUserService()
	user := registerUser(t, svc, "alice@example.com")

	require.NoError(t, repo.SetBlocked(context.Background(), user.ID, true))

	_, _, err := svc.Login(context.Background(), "alice@example.com", "Sup3rSecret")
	assert.ErrorIs(t, err, models.ErrAccessBlocked)
}

func TestLoginBlockedAdminIsExempt(t *testing.T) {
	svc, repo, _, _ := newTestUserService()
	user := registerUser(t, svc, "admin@example.com")

	require.NoError(t, repo.SetAdmin(context.Background(), user.ID, true))
	require.NoError(t, repo.SetBlocked(context.Background(), user.ID, true))

	_, _, err := svc.Login(context.Background(), "admin@example.com", "Sup3rSecret")
	assert.NoError(t, err)
}

func TestFollowUpdatesBothEdges(t *testing.T) {
	svc, repo, _, _ := newTestUserService()
	alice := registerUser(t, svc, "alice@example.com")
	bob := registerUser(t, svc, "bob@example.com")

	require.NoError(t, svc.Follow(context.Background(), alice.ID, bob.ID))

	target, err := repo.GetUserByID(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Contains(t, target.Followers, alice.ID)

	actor, err := repo.GetUserByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Contains(t, actor.Following, bob.ID)
}

func TestFollowTwiceFails(t *testing.T) {
	svc, repo, _, _ := newTestUserService()
	alice := registerUser(t, svc, "alice@example.com")
	bob := registerUser(t, svc, "bob@example.com")

	require.NoError(t, svc.Follow(context.Background(), alice.ID, bob.ID))

	err := svc.Follow(context.Background(), alice.ID, bob.ID)
	assert.ErrorIs(t, err, models.ErrAlreadyFollowing)

	// State unchanged after the second call
	target, err := repo.GetUserByID(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Len(t, target.Followers, 1)

	actor, err := repo.GetUserByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Len(t, actor.Following, 1)
}

func TestSelfFollowRejected(t *testing.T) {
	svc, _, _, _ := newTestUserService()
	alice := registerUser(t, svc, "alice@example.com")

	err := svc.Follow(context.Background(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUnfollowIsIdempotent(t *testing.T) {
	svc, repo, _, _ := newTestUserService()
	alice := registerUser(t, svc, "alice@example.com")
	bob := registerUser(t, svc, "bob@example.com")

	// Unfollow without a prior follow is a no-op success
	assert.NoError(t, svc.Unfollow(context.Background(), alice.ID, bob.ID))

	require.NoError(t, svc.Follow(context.Background(), alice.ID, bob.ID))
	require.NoError(t, svc.Unfollow(context.Background(), alice.ID, bob.ID))
	assert.NoError(t, svc.Unfollow(context.Background(), alice.ID, bob.ID))

	target, err := repo.GetUserByID(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Empty(t, target.Followers)
}

func TestProfileViewRecordedOnce(t *testing.T) {
	svc, repo, _, _ := newTestUserService()
	alice := registerUser(t, svc, "alice@example.com")
	bob := registerUser(t, svc, "bob@example.com")

	_, err := svc.GetProfile(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.GetProfile(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	profile, err := repo.GetUserByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{bob.ID}, profile.ViewedBy)
}

func TestOwnProfileViewNotRecorded(t *testing.T) {
	svc, repo, _, _ := newTestUserService()
	alice := registerUser(t, svc, "alice@example.com")

	_, err := svc.GetProfile(context.Background(), alice.ID, alice.ID)
	require.NoError(t, err)

	profile, err := repo.GetUserByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.ViewedBy)
}

func TestAccountVerificationFlow(t *testing.T) {
	svc, repo, mailer, _ := newTestUserService()
	alice := registerUser(t, svc, "alice@example.com")

	require.NoError(t, svc.RequestVerification(context.Background(), alice.ID))
	require.Len(t, mailer.sent, 1)
	raw := rawTokenFromMail(t, mailer.sent[0])

	verified, err := svc.VerifyAccount(context.Background(), raw)
	require.NoError(t, err)
	assert.True(t, verified.IsAccountVerified)

	// Token is single use: the digest is cleared on consumption
	stored, err := repo.GetUserByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.AccountVerificationToken)

	_, err = svc.VerifyAccount(context.Background(), raw)
	assert.ErrorIs(t, err, models.ErrTokenExpiredOrInvalid)
}

func TestAccountVerificationExpiredToken(t *testing.T) {
	svc, _, mailer, clock := newTestUserService()
	alice := registerUser(t, svc, "alice@example.com")

	require.NoError(t, svc.RequestVerification(context.Background(), alice.ID))
	raw := rawTokenFromMail(t, mailer.sent[0])

	clock.Advance(11 * time.Minute)

	_, err := svc.VerifyAccount(context.Background(), raw)
	assert.ErrorIs(t, err, models.ErrTokenExpiredOrInvalid)
}

func TestVerifyAccountUnknownToken(t *testing.T) {
	svc, _, _, _ := newTestUserService()

	_, err := svc.VerifyAccount(context.Background(), "never-issued")
	assert.ErrorIs(t, err, models.ErrTokenExpiredOrInvalid)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, mailer, _ := newTestUserService()
	registerUser(t, svc, "alice@example.com")

	require.NoError(t, svc.ForgotPassword(context.Background(), "alice@example.com"))
	require.Len(t, mailer.sent, 1)
	raw := rawTokenFromMail(t, mailer.sent[0])

	require.NoError(t, svc.ResetPassword(context.Background(), raw, "N3wSecret9"))

	// Old password no longer works, new one does
	_, _, err := svc.Login(context.Background(), "alice@example.com", "Sup3rSecret")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	_, _, err = svc.Login(context.Background(), "alice@example.com", "N3wSecret9")
	assert.NoError(t, err)

	// Consumed token cannot be replayed
	err = svc.ResetPassword(context.Background(), raw, "An0therPass")
	assert.ErrorIs(t, err, models.ErrTokenExpiredOrInvalid)
}

func TestPasswordResetExpiredToken(t *testing.T) {
	svc, _, mailer, clock := newTestUserService()
	registerUser(t, svc, "alice@example.com")

	require.NoError(t, svc.ForgotPassword(context.Background(), "alice@example.com"))
	raw := rawTokenFromMail(t, mailer.sent[0])

	clock.Advance(helpers.TokenTTL + time.Second)

	err := svc.ResetPassword(context.Background(), raw, "N3wSecret9")
	assert.ErrorIs(t, err, models.ErrTokenExpiredOrInvalid)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc, _, mailer, _ := newTestUserService()

	err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, mailer.sent)
}
