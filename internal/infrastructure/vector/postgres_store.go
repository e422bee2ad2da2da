package vector

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"SEOScanner/internal/domain"
	"SEOScanner/internal/ports"
)

const candidateLimit = 200

// PostgresStore is the append-only similarity index over prior analyses.
// Each analysis is stored as a flattened document plus its term-frequency
// vector; FindSimilar ranks stored cases by cosine similarity against the
// query. Rows are never updated or deleted through this pipeline.
type PostgresStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.SimilaritySearch = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const schema = `CREATE TABLE IF NOT EXISTS analysis_cases (
	id         BIGSERIAL PRIMARY KEY,
	category   TEXT NOT NULL,
	content    TEXT NOT NULL,
	terms      TEXT[] NOT NULL,
	weights    FLOAT8[] NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (category, content)
)`

// EnsureSchema creates the backing table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// AddEmbeddings appends one analysis case. Inserts are idempotent-safe to
// retry: a duplicate document for the same category is a no-op.
func (s *PostgresStore) AddEmbeddings(ctx context.Context, data map[string]any, category string) error {
	if s.db == nil {
		return nil
	}

	document := flattenDocument(data)
	if document == "" {
		return nil
	}
	terms, weights := termVector(document)

	query, args, err := s.builder.
		Insert("analysis_cases").
		Columns("category", "content", "terms", "weights").
		Values(category, document, pq.StringArray(terms), pq.Float64Array(weights)).
		Suffix("ON CONFLICT (category, content) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert case: %w", err)
	}
	return nil
}

// FindSimilar returns up to n stored cases ranked by cosine similarity
// against the query data.
func (s *PostgresStore) FindSimilar(ctx context.Context, query map[string]any, n int) ([]domain.SimilarCase, error) {
	if s.db == nil {
		return nil, nil
	}
	if n <= 0 {
		n = 5
	}

	queryTerms, queryWeights := termVector(flattenDocument(query))
	queryVector := asVector(queryTerms, queryWeights)

	sqlQuery, args, err := s.builder.
		Select("category", "content", "terms", "weights").
		From("analysis_cases").
		OrderBy("created_at DESC").
		Limit(candidateLimit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}
	defer rows.Close()

	var cases []domain.SimilarCase
	for rows.Next() {
		var (
			category string
			content  string
			terms    pq.StringArray
			weights  pq.Float64Array
		)
		if err := rows.Scan(&category, &content, &terms, &weights); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}

		cases = append(cases, domain.SimilarCase{
			Content:         content,
			Category:        category,
			SimilarityScore: Cosine(queryVector, asVector(terms, weights)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	sort.SliceStable(cases, func(i, j int) bool {
		return cases[i].SimilarityScore > cases[j].SimilarityScore
	})
	if len(cases) > n {
		cases = cases[:n]
	}
	for i := range cases {
		cases[i].Rank = i + 1
	}
	return cases, nil
}

// flattenDocument renders nested analysis data as sorted "key: value"
// lines, one per leaf.
func flattenDocument(data map[string]any) string {
	var lines []string
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for key, value := range m {
			label := key
			if prefix != "" {
				label = prefix + "." + key
			}
			if nested, ok := value.(map[string]any); ok {
				walk(label, nested)
				continue
			}
			lines = append(lines, fmt.Sprintf("%s: %v", label, value))
		}
	}
	walk("", data)
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

// termVector computes the normalized term-frequency vector of a document.
// Arrays come back parallel (term i weighs weights[i]) to suit the
// postgres array columns.
func termVector(document string) ([]string, []float64) {
	freq := map[string]float64{}
	total := 0.0
	for _, token := range strings.Fields(strings.ToLower(document)) {
		token = strings.Trim(token, ".,:;!?\"'()[]{}")
		if len(token) < 3 {
			continue
		}
		freq[token]++
		total++
	}
	if total == 0 {
		return nil, nil
	}

	terms := make([]string, 0, len(freq))
	for term := range freq {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	weights := make([]float64, len(terms))
	for i, term := range terms {
		weights[i] = freq[term] / total
	}
	return terms, weights
}

func asVector(terms []string, weights []float64) map[string]float64 {
	vector := make(map[string]float64, len(terms))
	for i, term := range terms {
		if i < len(weights) {
			vector[term] = weights[i]
		}
	}
	return vector
}

// Cosine computes cosine similarity between two sparse term vectors.
// Empty vectors score zero.
func Cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	dot := 0.0
	for term, weight := range a {
		dot += weight * b[term]
	}
	if dot == 0 {
		return 0
	}

	normA := 0.0
	for _, weight := range a {
		normA += weight * weight
	}
	normB := 0.0
	for _, weight := range b {
		normB += weight * weight
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
