package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/inkpost/server/internal/models"
)

// In-memory collaborators mirroring the Mongo repo semantics closely
// enough for service-level tests.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return nil, fmt.Errorf("%w: %s", models.ErrDuplicateAccount, user.Email)
		}
	}
	if err := user.BeforeCreate(); err != nil {
		return nil, err
	}
	cp := *user
	f.users[user.ID] = &cp
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user", models.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: user", models.ErrNotFound)
}

func (f *fakeUserRepo) GetUserByVerificationToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.AccountVerificationToken == tokenHash && u.AccountVerificationTokenExpires.After(now) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: user", models.ErrNotFound)
}

func (f *fakeUserRepo) GetUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.PasswordResetToken == tokenHash && u.PasswordResetExpires.After(now) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: user", models.ErrNotFound)
}

func (f *fakeUserRepo) ListUsers(ctx context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.User
	for _, u := range f.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user", models.ErrNotFound)
	}
	if v, ok := update["first_name"].(string); ok {
		u.FirstName = v
	}
	if v, ok := update["last_name"].(string); ok {
		u.LastName = v
	}
	if v, ok := update["bio"].(string); ok {
		u.Bio = v
	}
	if v, ok := update["profile_photo"].(string); ok {
		u.ProfilePhoto = v
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return fmt.Errorf("%w: user", models.ErrNotFound)
	}
	delete(f.users, id)
	return nil
}

func addToSet(set []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, existing := range set {
		if existing == id {
			return set
		}
	}
	return append(set, id)
}

func pullFromSet(set []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := set[:0]
	for _, existing := range set {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

func (f *fakeUserRepo) AppendFollower(ctx context.Context, targetId, actorId primitive.ObjectID) error {
	return f.mutate(targetId, func(u *models.User) { u.Followers = addToSet(u.Followers, actorId) })
}

func (f *fakeUserRepo) AppendFollowing(ctx context.Context, actorId, targetId primitive.ObjectID) error {
	return f.mutate(actorId, func(u *models.User) { u.Following = addToSet(u.Following, targetId) })
}

func (f *fakeUserRepo) PullFollower(ctx context.Context, targetId, actorId primitive.ObjectID) error {
	return f.mutate(targetId, func(u *models.User) { u.Followers = pullFromSet(u.Followers, actorId) })
}

func (f *fakeUserRepo) PullFollowing(ctx context.Context, actorId, targetId primitive.ObjectID) error {
	return f.mutate(actorId, func(u *models.User) { u.Following = pullFromSet(u.Following, targetId) })
}

func (f *fakeUserRepo) AppendViewedBy(ctx context.Context, profileId, viewerId primitive.ObjectID) error {
	return f.mutate(profileId, func(u *models.User) { u.ViewedBy = addToSet(u.ViewedBy, viewerId) })
}

func (f *fakeUserRepo) SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) error {
	return f.mutate(id, func(u *models.User) { u.IsBlocked = blocked })
}

func (f *fakeUserRepo) SetAdmin(ctx context.Context, id primitive.ObjectID, isAdmin bool) error {
	return f.mutate(id, func(u *models.User) { u.IsAdmin = isAdmin })
}

func (f *fakeUserRepo) SetVerificationToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error {
	return f.mutate(id, func(u *models.User) {
		u.AccountVerificationToken = tokenHash
		u.AccountVerificationTokenExpires = expires
	})
}

func (f *fakeUserRepo) MarkAccountVerified(ctx context.Context, id primitive.ObjectID) error {
	return f.mutate(id, func(u *models.User) {
		u.IsAccountVerified = true
		u.AccountVerificationToken = ""
		u.AccountVerificationTokenExpires = time.Time{}
	})
}

func (f *fakeUserRepo) SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error {
	return f.mutate(id, func(u *models.User) {
		u.PasswordResetToken = tokenHash
		u.PasswordResetExpires = expires
	})
}

func (f *fakeUserRepo) SetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return f.mutate(id, func(u *models.User) {
		u.Password = passwordHash
		u.PasswordResetToken = ""
		u.PasswordResetExpires = time.Time{}
	})
}

func (f *fakeUserRepo) mutate(id primitive.ObjectID, fn func(*models.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("%w: user", models.ErrNotFound)
	}
	fn(u)
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

type sentMail struct {
	to      string
	subject string
	plain   string
}

func (f *fakeMailer) Send(ctx context.Context, toEmail, subject, plainText, htmlContent string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: toEmail, subject: subject, plain: plainText})
	return nil
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[primitive.ObjectID]*models.Post)}
}

func (f *fakePostRepo) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := post.BeforeCreate(); err != nil {
		return nil, err
	}
	cp := *post
	f.posts[post.ID] = &cp
	return post, nil
}

func (f *fakePostRepo) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, fmt.Errorf("%w: post", models.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *fakePostRepo) ListPosts(ctx context.Context, offset, limit int) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Post
	for _, p := range f.posts {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakePostRepo) UpdatePost(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, fmt.Errorf("%w: post", models.ErrNotFound)
	}
	if v, ok := update["title"].(string); ok {
		p.Title = v
	}
	if v, ok := update["description"].(string); ok {
		p.Description = v
	}
	cp := *p
	return &cp, nil
}

func (f *fakePostRepo) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return fmt.Errorf("%w: post", models.ErrNotFound)
	}
	delete(f.posts, id)
	return nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[primitive.ObjectID]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[primitive.ObjectID]*models.Comment)}
}

func (f *fakeCommentRepo) CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := comment.BeforeCreate(); err != nil {
		return nil, err
	}
	cp := *comment
	f.comments[comment.ID] = &cp
	return comment, nil
}

func (f *fakeCommentRepo) GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return nil, fmt.Errorf("%w: comment", models.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCommentRepo) ListComments(ctx context.Context) ([]*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Comment
	for _, c := range f.comments {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeCommentRepo) UpdateComment(ctx context.Context, id primitive.ObjectID, description string) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return nil, fmt.Errorf("%w: comment", models.ErrNotFound)
	}
	c.Description = description
	cp := *c
	return &cp, nil
}

func (f *fakeCommentRepo) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[id]; !ok {
		return fmt.Errorf("%w: comment", models.ErrNotFound)
	}
	delete(f.comments, id)
	return nil
}

type fakeEmailRepo struct {
	mu    sync.Mutex
	saved []*models.EmailMessage
}

func (f *fakeEmailRepo) SaveEmailMessage(ctx context.Context, msg *models.EmailMessage) (*models.EmailMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := msg.BeforeCreate(); err != nil {
		return nil, err
	}
	f.saved = append(f.saved, msg)
	return msg, nil
}

type fakeUploader struct {
	url string
	err error
}

func (f *fakeUploader) Upload(ctx context.Context, localPath, folder string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}
