package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore adapts a Cloud Firestore database to the Store interface.
// Composite indexes are required for the equality + order-by queries the
// memory and gift services issue; plain equality queries need none.
type FirestoreStore struct {
	client *firestore.Client
}

// OpenFirestore connects to the Firestore database of the given project.
func OpenFirestore(ctx context.Context, projectID string, logger *zap.Logger, opts ...option.ClientOption) (*FirestoreStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firestore project id is required")
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("firestore store initialized", zap.String("project_id", projectID))
	}

	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	snapshot, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return snapshot.Data(), nil
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, data)
	return err
}

func (s *FirestoreStore) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	// MergeAll would upsert; Merge is defined to fail on absent documents.
	document := s.client.Collection(collection).Doc(id)
	_, err := document.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	_, err = document.Set(ctx, fields, firestore.MergeAll)
	return err
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	// Firestore deletes are idempotent: removing an absent document succeeds.
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	return err
}

func (s *FirestoreStore) Query(ctx context.Context, collection string, query Query) ([]Document, error) {
	firestoreQuery := s.client.Collection(collection).Query
	for _, filter := range query.Filters {
		firestoreQuery = firestoreQuery.Where(filter.Field, "==", filter.Value)
	}
	if query.OrderBy != "" {
		direction := firestore.Asc
		if query.Direction == Descending {
			direction = firestore.Desc
		}
		firestoreQuery = firestoreQuery.OrderBy(query.OrderBy, direction)
	}

	snapshots, err := firestoreQuery.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	documents := make([]Document, 0, len(snapshots))
	for _, snapshot := range snapshots {
		documents = append(documents, Document{ID: snapshot.Ref.ID, Data: snapshot.Data()})
	}
	return documents, nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
