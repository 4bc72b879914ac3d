package models

import (
	"context"
	"fmt"
)

type EmailRepo interface {
	SaveEmailMessage(ctx context.Context, msg *EmailMessage) (*EmailMessage, error)
}

func (mdb *MongodbRepo) SaveEmailMessage(ctx context.Context, msg *EmailMessage) (*EmailMessage, error) {
	col, err := mdb.GetCollection(ctx, DBName, EmailsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if err := msg.BeforeCreate(); err != nil {
		return nil, err
	}

	if _, err := col.InsertOne(ctx, msg); err != nil {
		return nil, fmt.Errorf("error inserting email message: %v", err)
	}

	return msg, nil
}
