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

type PostRepo interface {
	CreatePost(ctx context.Context, post *Post) (*Post, error)
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*Post, error)
	ListPosts(ctx context.Context, offset, limit int) ([]*Post, error)
	UpdatePost(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*Post, error)
	DeletePost(ctx context.Context, id primitive.ObjectID) error
}

func (mdb *MongodbRepo) CreatePost(ctx context.Context, post *Post) (*Post, error) {
	col, err := mdb.GetCollection(ctx, DBName, PostsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if err := post.BeforeCreate(); err != nil {
		return nil, err
	}

	if _, err := col.InsertOne(ctx, post); err != nil {
		return nil, fmt.Errorf("error inserting post: %v", err)
	}

	return post, nil
}

func (mdb *MongodbRepo) GetPostByID(ctx context.Context, id primitive.ObjectID) (*Post, error) {
	col, err := mdb.GetCollection(ctx, DBName, PostsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var post Post
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: post", ErrNotFound)
		}
		return nil, fmt.Errorf("error finding post: %v", err)
	}

	return &post, nil
}

func (mdb *MongodbRepo) ListPosts(ctx context.Context, offset, limit int) ([]*Post, error) {
	col, err := mdb.GetCollection(ctx, DBName, PostsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding posts: %v", err)
	}
	defer cursor.Close(ctx)

	var posts []*Post
	for cursor.Next(ctx) {
		var post Post
		if err := cursor.Decode(&post); err != nil {
			return nil, fmt.Errorf("error decoding post: %v", err)
		}
		posts = append(posts, &post)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return posts, nil
}

func (mdb *MongodbRepo) UpdatePost(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*Post, error) {
	col, err := mdb.GetCollection(ctx, DBName, PostsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	update["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post Post
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": update}, opts).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: post", ErrNotFound)
		}
		return nil, fmt.Errorf("error updating post: %v", err)
	}

	return &post, nil
}

func (mdb *MongodbRepo) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DBName, PostsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting post: %v", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: post", ErrNotFound)
	}

	// Comments referencing this post are left in place; there is no
	// cascade policy for orphaned comments.
	return nil
}
