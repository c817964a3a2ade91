package db

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// client is the process-wide Firestore client, built once.
var (
	client     *firestore.Client
	clientErr  error
	clientOnce sync.Once
)

// InitFirestore initializes and returns a Firestore client from base64
// encoded service-account credentials.
func InitFirestore(ctx context.Context, encodedCreds string) (*firestore.Client, error) {
	clientOnce.Do(func() {
		creds, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			clientErr = fmt.Errorf("decode Firestore credentials: %w", err)
			return
		}

		// Initialize Firebase App
		opt := option.WithCredentialsJSON(creds)
		app, err := firebase.NewApp(ctx, nil, opt)
		if err != nil {
			clientErr = fmt.Errorf("initialize Firebase app: %w", err)
			return
		}

		client, err = app.Firestore(ctx)
		if err != nil {
			clientErr = fmt.Errorf("get Firestore client: %w", err)
			return
		}
		log.Info().Msg("Firestore initialized successfully")
	})

	return client, clientErr
}

// FirestoreStore is the DocumentStore backed by Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Write(ctx context.Context, collection, documentID string, record Record) error {
	_, err := s.client.Collection(collection).Doc(documentID).Set(ctx, map[string]interface{}(record))
	if err != nil {
		return fmt.Errorf("write %s/%s: %w", collection, documentID, err)
	}
	log.Debug().Str("collection", collection).Str("doc", documentID).Msg("document written")
	return nil
}

func (s *FirestoreStore) Read(ctx context.Context, collection, documentID string) (Record, error) {
	doc, err := s.client.Collection(collection).Doc(documentID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s/%s: %w", collection, documentID, err)
	}
	return Record(doc.Data()), nil
}

func (s *FirestoreStore) ReadLatest(ctx context.Context, collection, orderField string) (Record, error) {
	iter := s.client.Collection(collection).
		OrderBy(orderField, firestore.Desc). // latest first
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read latest %s by %s: %w", collection, orderField, err)
	}
	return Record(doc.Data()), nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
