package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByVerificationToken(ctx context.Context, tokenHash string, now time.Time) (*User, error)
	GetUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error

	AppendFollower(ctx context.Context, targetId, actorId primitive.ObjectID) error
	AppendFollowing(ctx context.Context, actorId, targetId primitive.ObjectID) error
	PullFollower(ctx context.Context, targetId, actorId primitive.ObjectID) error
	PullFollowing(ctx context.Context, actorId, targetId primitive.ObjectID) error
	AppendViewedBy(ctx context.Context, profileId, viewerId primitive.ObjectID) error

	SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) error
	SetAdmin(ctx context.Context, id primitive.ObjectID, isAdmin bool) error

	SetVerificationToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error
	MarkAccountVerified(ctx context.Context, id primitive.ObjectID) error
	SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error
	SetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
}

func (mdb *MongodbRepo) CreateUser(ctx context.Context, user *User) (*User, error) {
	col, err := mdb.GetCollection(ctx, DBName, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if err := user.BeforeCreate(); err != nil {
		return nil, err
	}

	if _, err := col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAccount, user.Email)
		}
		return nil, fmt.Errorf("error inserting user: %v", err)
	}

	return user, nil
}

func (mdb *MongodbRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	return mdb.findUser(ctx, bson.M{"_id": id})
}

func (mdb *MongodbRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return mdb.findUser(ctx, bson.M{"email": email})
}

// GetUserByVerificationToken looks up the holder of an unexpired
// verification token digest. An expired or unknown digest is a NotFound.
func (mdb *MongodbRepo) GetUserByVerificationToken(ctx context.Context, tokenHash string, now time.Time) (*User, error) {
	return mdb.findUser(ctx, bson.M{
		"account_verification_token":         tokenHash,
		"account_verification_token_expires": bson.M{"$gt": now},
	})
}

func (mdb *MongodbRepo) GetUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*User, error) {
	return mdb.findUser(ctx, bson.M{
		"password_reset_token":   tokenHash,
		"password_reset_expires": bson.M{"$gt": now},
	})
}

func (mdb *MongodbRepo) findUser(ctx context.Context, filter bson.M) (*User, error) {
	col, err := mdb.GetCollection(ctx, DBName, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var user User
	if err := col.FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, fmt.Errorf("error finding user: %v", err)
	}

	return &user, nil
}

func (mdb *MongodbRepo) ListUsers(ctx context.Context) ([]*User, error) {
	col, err := mdb.GetCollection(ctx, DBName, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	cursor, err := col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("error finding users: %v", err)
	}
	defer cursor.Close(ctx)

	var users []*User
	for cursor.Next(ctx) {
		var user User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("error decoding user: %v", err)
		}
		users = append(users, &user)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return users, nil
}

func (mdb *MongodbRepo) UpdateUser(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*User, error) {
	col, err := mdb.GetCollection(ctx, DBName, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	update["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user User
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": update}, opts).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, fmt.Errorf("error updating user: %v", err)
	}

	return &user, nil
}

func (mdb *MongodbRepo) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DBName, UsersColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting user: %v", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: user", ErrNotFound)
	}

	return nil
}

// Follow edges are two independently stored arrays; each mutation below is
// a single-document write. Keeping both sides consistent is the service's
// job, not a transaction's.

func (mdb *MongodbRepo) AppendFollower(ctx context.Context, targetId, actorId primitive.ObjectID) error {
	return mdb.updateSetField(ctx, targetId, "$addToSet", "followers", actorId)
}

func (mdb *MongodbRepo) AppendFollowing(ctx context.Context, actorId, targetId primitive.ObjectID) error {
	return mdb.updateSetField(ctx, actorId, "$addToSet", "following", targetId)
}

func (mdb *MongodbRepo) PullFollower(ctx context.Context, targetId, actorId primitive.ObjectID) error {
	return mdb.updateSetField(ctx, targetId, "$pull", "followers", actorId)
}

func (mdb *MongodbRepo) PullFollowing(ctx context.Context, actorId, targetId primitive.ObjectID) error {
	return mdb.updateSetField(ctx, actorId, "$pull", "following", targetId)
}

// AppendViewedBy records a profile view. $addToSet keeps set semantics, so
// a repeat viewer is a no-op rather than a duplicate entry.
func (mdb *MongodbRepo) AppendViewedBy(ctx context.Context, profileId, viewerId primitive.ObjectID) error {
	return mdb.updateSetField(ctx, profileId, "$addToSet", "viewed_by", viewerId)
}

func (mdb *MongodbRepo) updateSetField(ctx context.Context, id primitive.ObjectID, op, field string, value primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DBName, UsersColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	update := bson.M{
		op:     bson.M{field: value},
		"$set": bson.M{"updated_at": time.Now()},
	}

	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("error updating %s: %v", field, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: user", ErrNotFound)
	}

	return nil
}

func (mdb *MongodbRepo) SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) error {
	return mdb.setFlag(ctx, id, "is_blocked", blocked)
}

func (mdb *MongodbRepo) SetAdmin(ctx context.Context, id primitive.ObjectID, isAdmin bool) error {
	return mdb.setFlag(ctx, id, "is_admin", isAdmin)
}

func (mdb *MongodbRepo) setFlag(ctx context.Context, id primitive.ObjectID, field string, value bool) error {
	col, err := mdb.GetCollection(ctx, DBName, UsersColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{field: value, "updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("error setting %s: %v", field, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: user", ErrNotFound)
	}

	return nil
}

func (mdb *MongodbRepo) SetVerificationToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error {
	col, err := mdb.GetCollection(ctx, DBName, UsersColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"account_verification_token":         tokenHash,
			"account_verification_token_expires": expires,
			"updated_at":                         time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("error setting verification token: %v", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: user", ErrNotFound)
	}

	return nil
}

// MarkAccountVerified flips the verified flag and unsets the token pair in
// one write, so a consumed token cannot be replayed.
func (mdb *MongodbRepo) MarkAccountVerified(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DBName, UsersColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"is_account_verified": true, "updated_at": time.Now()},
		"$unset": bson.M{
			"account_verification_token":         "",
			"account_verification_token_expires": "",
		},
	})
	if err != nil {
		return fmt.Errorf("error marking account verified: %v", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: user", ErrNotFound)
	}

	return nil
}

func (mdb *MongodbRepo) SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error {
	col, err := mdb.GetCollection(ctx, DBName, UsersColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"password_reset_token":   tokenHash,
			"password_reset_expires": expires,
			"updated_at":             time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("error setting reset token: %v", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: user", ErrNotFound)
	}

	return nil
}

// SetPassword stores the new hash and unsets the reset token pair in one
// write.
func (mdb *MongodbRepo) SetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	col, err := mdb.GetCollection(ctx, DBName, UsersColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"password": passwordHash, "updated_at": time.Now()},
		"$unset": bson.M{
			"password_reset_token":   "",
			"password_reset_expires": "",
		},
	})
	if err != nil {
		return fmt.Errorf("error setting password: %v", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: user", ErrNotFound)
	}

	return nil
}

// EnsureUserIndexes creates the unique email index the duplicate-account
// check relies on.
func (mdb *MongodbRepo) EnsureUserIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(ctx, DBName, UsersColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{
			Keys:    bson.D{{Key: "account_verification_token", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("verification_token_idx"),
		},
		{
			Keys:    bson.D{{Key: "password_reset_token", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("reset_token_idx"),
		},
	}

	if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("error creating indexes: %v", err)
	}

	return nil
}
