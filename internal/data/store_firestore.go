package data

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements DocumentStore on Firestore. Each collection
// maps onto a top level Firestore collection of the same name.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Insert(ctx context.Context, collection, id string, doc Document) error {
	_, err := s.client.Collection(collection).Doc(id).Create(ctx, map[string]any(doc))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return ErrDuplicateRecord
		}
		return fmt.Errorf("failed to create %s document: %w", collection, err)
	}
	return nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrGeneralRecordNotFound
		}
		return nil, fmt.Errorf("failed to get %s document: %w", collection, err)
	}
	return Document(snap.Data()), nil
}

func (s *FirestoreStore) Replace(ctx context.Context, collection, id string, doc Document) error {
	ref := s.client.Collection(collection).Doc(id)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Set(ref, map[string]any(doc))
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrGeneralRecordNotFound
		}
		return fmt.Errorf("failed to replace %s document: %w", collection, err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	ref := s.client.Collection(collection).Doc(id)
	_, err := ref.Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrGeneralRecordNotFound
		}
		return fmt.Errorf("failed to delete %s document: %w", collection, err)
	}
	return nil
}

func (s *FirestoreStore) Find(ctx context.Context, collection string, q Query) ([]Document, error) {
	query := s.client.Collection(collection).Query
	for _, f := range q.Filters {
		query = query.Where(f.Field, f.Op, f.Value)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", collection, err)
		}
		docs = append(docs, Document(snap.Data()))
	}
	return docs, nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
