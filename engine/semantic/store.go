// Package semantic owns all Qdrant operations for the FAQ collection:
// collection administration, point upserts at ingest time, and k-NN search
// at query time.
package semantic

import (
	"context"
	"crypto/tls"
	"fmt"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/CampusAI/faqbot-mvp/engine/domain"
)

// FAQStore is the sole owner of all Qdrant operations.
type FAQStore struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
}

// apiKeyCreds injects the Qdrant api-key header on every RPC.
type apiKeyCreds struct {
	key string
}

func (c apiKeyCreds) GetRequestMetadata(_ context.Context, _ ...string) (map[string]string, error) {
	return map[string]string{"api-key": c.key}, nil
}

func (c apiKeyCreds) RequireTransportSecurity() bool { return true }

// New creates an FAQStore connected to Qdrant at the given gRPC address.
// An empty apiKey selects local, unauthenticated mode; a non-empty apiKey
// selects remote mode with TLS and per-RPC api-key credentials.
func New(addr, collection, apiKey string) (*FAQStore, error) {
	var opts []grpc.DialOption
	if apiKey == "" {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	} else {
		opts = append(opts,
			grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})),
			grpc.WithPerRPCCredentials(apiKeyCreds{key: apiKey}),
		)
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("semantic: dial qdrant %s: %w", addr, err)
	}
	return &FAQStore{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
	}, nil
}

// NewWithClients builds an FAQStore from pre-built clients. Used in tests.
func NewWithClients(points pb.PointsClient, collections pb.CollectionsClient, collection string) *FAQStore {
	return &FAQStore{points: points, collections: collections, collection: collection}
}

// Close closes the underlying gRPC connection.
func (s *FAQStore) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// EnsureCollection creates the collection if it doesn't exist.
func (s *FAQStore) EnsureCollection(ctx context.Context, dims int) error {
	list, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("semantic: list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == s.collection {
			return nil
		}
	}
	return s.createCollection(ctx, dims)
}

// RecreateCollection drops the collection if present and creates it fresh.
// FAQ records are immutable once stored; re-ingestion replaces the whole set.
func (s *FAQStore) RecreateCollection(ctx context.Context, dims int) error {
	list, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("semantic: list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == s.collection {
			if _, err := s.collections.Delete(ctx, &pb.DeleteCollection{CollectionName: s.collection}); err != nil {
				return fmt.Errorf("semantic: delete collection %s: %w", s.collection, err)
			}
			break
		}
	}
	return s.createCollection(ctx, dims)
}

func (s *FAQStore) createCollection(ctx context.Context, dims int) error {
	_, err := s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dims),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("semantic: create collection %s: %w", s.collection, err)
	}
	return nil
}

// Upsert stores FAQ points into Qdrant. Called by cmd/ingest.
func (s *FAQStore) Upsert(ctx context.Context, points []FAQPoint) error {
	if len(points) == 0 {
		return nil
	}

	pts := make([]*pb.PointStruct, len(points))
	for i, p := range points {
		pts[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: p.ID},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: p.Vector},
				},
			},
			Payload: map[string]*pb.Value{
				"question": {Kind: &pb.Value_StringValue{StringValue: p.FAQ.Question}},
				"answer":   {Kind: &pb.Value_StringValue{StringValue: p.FAQ.Answer}},
			},
		}
	}

	wait := true
	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         pts,
	})
	if err != nil {
		return fmt.Errorf("semantic: upsert %d points: %w", len(points), err)
	}
	return nil
}

// Search performs k-NN similarity search over the FAQ collection, returning
// at most topK matches ordered most-similar first. Zero hits yield an empty
// slice, not an error.
func (s *FAQStore) Search(ctx context.Context, vector []float32, topK int) ([]domain.Match, error) {
	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: s.collection,
		Vector:         vector,
		Limit:          uint64(topK),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("semantic: search: %w", err)
	}

	matches := make([]domain.Match, len(resp.GetResult()))
	for i, r := range resp.GetResult() {
		m := domain.Match{Score: r.GetScore()}
		for k, val := range r.GetPayload() {
			switch k {
			case "question":
				m.Question = val.GetStringValue()
			case "answer":
				m.Answer = val.GetStringValue()
			}
		}
		matches[i] = m
	}
	return matches, nil
}
