// Package redis provides a vector store adapter backed by Redis with
// the RediSearch vector search module.
package redis

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/papermind-ai/papermind/internal/core/domain"
	"github.com/papermind-ai/papermind/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default index configuration.
const (
	DefaultIndexName      = "papermind-vectors"
	DefaultKeyPrefix      = "vec:"
	defaultEFConstruction = 200
	defaultM              = 16

	// maxDeleteBatch bounds one FT.SEARCH page during deletion.
	maxDeleteBatch = 1000
)

// Field names in the Redis hash.
const (
	fieldText     = "text"
	fieldVector   = "vector"
	fieldOwner    = "owner"
	fieldDocument = "document"
	fieldMetadata = "metadata"
)

// Config holds Redis connection and index configuration.
type Config struct {
	// Addr is the Redis server address (default: localhost:6379).
	Addr string

	// Password is the Redis password (optional).
	Password string

	// DB is the Redis database number.
	DB int

	// IndexName is the RediSearch index name (default: papermind-vectors).
	IndexName string

	// Dimensions is the embedding vector size (required).
	Dimensions int

	// EFConstruction and M tune the HNSW graph build.
	EFConstruction int
	M              int
}

// Store is a Redis-backed vector store. Vectors live in hashes under a
// common key prefix; an HNSW index over them carries owner and document
// TAG fields so searches are filtered server-side.
type Store struct {
	client    *goredis.Client
	indexName string
	keyPrefix string

	mu           sync.Mutex
	indexCreated bool
}

// NewStore creates a Redis vector store and ensures the search index exists.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("redis: vector dimensions are required: %w", domain.ErrInvalidConfiguration)
	}
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	if cfg.IndexName == "" {
		cfg.IndexName = DefaultIndexName
	}
	if cfg.EFConstruction <= 0 {
		cfg.EFConstruction = defaultEFConstruction
	}
	if cfg.M <= 0 {
		cfg.M = defaultM
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: connect: %w", err)
	}

	s := &Store{
		client:    client,
		indexName: cfg.IndexName,
		keyPrefix: DefaultKeyPrefix,
	}

	if err := s.ensureIndex(ctx, cfg); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: create vector index: %w", err)
	}

	return s, nil
}

// ensureIndex creates the HNSW vector index if it doesn't exist.
func (s *Store) ensureIndex(ctx context.Context, cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.client.Do(ctx, "FT.INFO", s.indexName).Result(); err == nil {
		s.indexCreated = true
		return nil
	}

	_, err := s.client.Do(ctx, "FT.CREATE", s.indexName,
		"ON", "HASH",
		"PREFIX", "1", s.keyPrefix,
		"SCHEMA",
		fieldVector, "VECTOR", "HNSW", "10",
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(cfg.Dimensions),
		"DISTANCE_METRIC", "COSINE",
		"EF_CONSTRUCTION", strconv.Itoa(cfg.EFConstruction),
		"M", strconv.Itoa(cfg.M),
		fieldText, "TEXT",
		fieldOwner, "TAG",
		fieldDocument, "TAG",
	).Result()
	if err != nil {
		return err
	}

	s.indexCreated = true
	return nil
}

// Upsert writes vectors to the store. Writing an existing ID replaces
// the stored hash wholesale.
func (s *Store) Upsert(ctx context.Context, vectors []domain.IndexedVector) error {
	if len(vectors) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, v := range vectors {
		metadataJSON, err := json.Marshal(v.Metadata)
		if err != nil {
			return fmt.Errorf("redis: marshal metadata: %w", err)
		}

		pipe.HSet(ctx, s.keyPrefix+v.ID,
			fieldText, v.Text,
			fieldVector, encodeVector(v.Embedding),
			fieldOwner, escapeTag(v.OwnerID),
			fieldDocument, escapeTag(v.DocumentID),
			fieldMetadata, metadataJSON,
		)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: upsert vectors: %w", err)
	}
	return nil
}

// Search returns up to k passages matching the filter, ordered by
// descending similarity. The owner tag is always part of the query;
// the document tag narrows it when set.
func (s *Store) Search(ctx context.Context, embedding []float32, filter domain.VectorFilter, k int) ([]domain.Passage, error) {
	if filter.OwnerID == "" {
		return nil, fmt.Errorf("redis: owner filter is required: %w", domain.ErrInvalidInput)
	}
	if k <= 0 {
		return []domain.Passage{}, nil
	}

	pre := fmt.Sprintf("@%s:{%s}", fieldOwner, escapeTag(filter.OwnerID))
	if filter.DocumentID != "" {
		pre += fmt.Sprintf(" @%s:{%s}", fieldDocument, escapeTag(filter.DocumentID))
	}
	query := fmt.Sprintf("(%s)=>[KNN %d @%s $query_vector AS score]", pre, k, fieldVector)

	result, err := s.client.Do(ctx, "FT.SEARCH", s.indexName, query,
		"PARAMS", "2", "query_vector", encodeVector(embedding),
		"RETURN", "2", fieldText, "score",
		"SORTBY", "score",
		"LIMIT", "0", strconv.Itoa(k),
		"DIALECT", "2",
	).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: vector search: %w", err)
	}

	return parseSearchResults(result)
}

// DeleteByDocument removes every vector tagged with the document.
// Documents that never reached the index delete cleanly as a no-op.
func (s *Store) DeleteByDocument(ctx context.Context, documentID string) error {
	if documentID == "" {
		return fmt.Errorf("redis: document id is required: %w", domain.ErrInvalidInput)
	}

	query := fmt.Sprintf("@%s:{%s}", fieldDocument, escapeTag(documentID))

	for {
		result, err := s.client.Do(ctx, "FT.SEARCH", s.indexName, query,
			"NOCONTENT",
			"LIMIT", "0", strconv.Itoa(maxDeleteBatch),
		).Result()
		if err != nil {
			return fmt.Errorf("redis: find document vectors: %w", err)
		}

		keys := parseResultKeys(result)
		if len(keys) == 0 {
			return nil
		}

		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("redis: delete document vectors: %w", err)
		}

		if len(keys) < maxDeleteBatch {
			return nil
		}
	}
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// encodeVector packs float32s little-endian, the layout RediSearch
// expects for FLOAT32 vector fields.
func encodeVector(vector []float32) []byte {
	buf := make([]byte, len(vector)*4)
	for i, f := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// escapeTag escapes characters that RediSearch treats as TAG syntax.
func escapeTag(value string) string {
	replacer := strings.NewReplacer(
		",", "\\,",
		".", "\\.",
		"<", "\\<",
		">", "\\>",
		"{", "\\{",
		"}", "\\}",
		"[", "\\[",
		"]", "\\]",
		"\"", "\\\"",
		"'", "\\'",
		":", "\\:",
		";", "\\;",
		"!", "\\!",
		"@", "\\@",
		"#", "\\#",
		"$", "\\$",
		"%", "\\%",
		"^", "\\^",
		"&", "\\&",
		"*", "\\*",
		"(", "\\(",
		")", "\\)",
		"-", "\\-",
		"+", "\\+",
		"=", "\\=",
		"~", "\\~",
		" ", "\\ ",
	)
	return replacer.Replace(value)
}

// parseSearchResults converts an FT.SEARCH reply into passages. The
// reply is a list: a count, then alternating key and field-value pairs.
func parseSearchResults(result interface{}) ([]domain.Passage, error) {
	values, ok := result.([]interface{})
	if !ok {
		return nil, fmt.Errorf("redis: unexpected search reply format")
	}
	if len(values) < 2 {
		return []domain.Passage{}, nil
	}

	var passages []domain.Passage
	for i := 1; i+1 < len(values); i += 2 {
		fields, ok := values[i+1].([]interface{})
		if !ok {
			continue
		}

		var passage domain.Passage
		for j := 0; j+1 < len(fields); j += 2 {
			name, ok := fields[j].(string)
			if !ok {
				continue
			}
			value, ok := fields[j+1].(string)
			if !ok {
				continue
			}

			switch name {
			case fieldText:
				passage.Text = value
			case "score":
				// KNN reports cosine distance; flip to similarity
				// so ordering matches the in-memory store.
				if distance, err := strconv.ParseFloat(value, 64); err == nil {
					passage.Score = 1 - distance
				}
			}
		}

		passages = append(passages, passage)
	}

	return passages, nil
}

// parseResultKeys extracts hash keys from a NOCONTENT search reply.
func parseResultKeys(result interface{}) []string {
	values, ok := result.([]interface{})
	if !ok || len(values) < 2 {
		return nil
	}

	var keys []string
	for i := 1; i < len(values); i++ {
		if key, ok := values[i].(string); ok {
			keys = append(keys, key)
		}
	}
	return keys
}
