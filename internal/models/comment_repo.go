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

type CommentRepo interface {
	CreateComment(ctx context.Context, comment *Comment) (*Comment, error)
	GetCommentByID(ctx context.Context, id primitive.ObjectID) (*Comment, error)
	ListComments(ctx context.Context) ([]*Comment, error)
	UpdateComment(ctx context.Context, id primitive.ObjectID, description string) (*Comment, error)
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
}

func (mdb *MongodbRepo) CreateComment(ctx context.Context, comment *Comment) (*Comment, error) {
	col, err := mdb.GetCollection(ctx, DBName, CommentsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if err := comment.BeforeCreate(); err != nil {
		return nil, err
	}

	if _, err := col.InsertOne(ctx, comment); err != nil {
		return nil, fmt.Errorf("error inserting comment: %v", err)
	}

	return comment, nil
}

func (mdb *MongodbRepo) GetCommentByID(ctx context.Context, id primitive.ObjectID) (*Comment, error) {
	col, err := mdb.GetCollection(ctx, DBName, CommentsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var comment Comment
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: comment", ErrNotFound)
		}
		return nil, fmt.Errorf("error finding comment: %v", err)
	}

	return &comment, nil
}

func (mdb *MongodbRepo) ListComments(ctx context.Context) ([]*Comment, error) {
	col, err := mdb.GetCollection(ctx, DBName, CommentsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	cursor, err := col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("error finding comments: %v", err)
	}
	defer cursor.Close(ctx)

	var comments []*Comment
	for cursor.Next(ctx) {
		var comment Comment
		if err := cursor.Decode(&comment); err != nil {
			return nil, fmt.Errorf("error decoding comment: %v", err)
		}
		comments = append(comments, &comment)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return comments, nil
}

func (mdb *MongodbRepo) UpdateComment(ctx context.Context, id primitive.ObjectID, description string) (*Comment, error) {
	col, err := mdb.GetCollection(ctx, DBName, CommentsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var comment Comment
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"description": description, "updated_at": time.Now()},
	}, opts).Decode(&comment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: comment", ErrNotFound)
		}
		return nil, fmt.Errorf("error updating comment: %v", err)
	}

	return &comment, nil
}

func (mdb *MongodbRepo) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DBName, CommentsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting comment: %v", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: comment", ErrNotFound)
	}

	return nil
}
