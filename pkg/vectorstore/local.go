package vectorstore

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"
)

// vectorsMagic marks the binary vector artifact so a stale or foreign file is
// rejected on load instead of being reinterpreted as garbage rows.
const vectorsMagic = "PTSPVEC1"

const normEpsilon = 1e-9

// LocalStore is an in-memory cosine-similarity store with flat-file
// persistence: a packed float32 matrix next to a JSON document index. Rows in
// the matrix and entries in the index are coupled by position, so both files
// are always written together and validated against each other on load.
type LocalStore struct {
	mu          sync.RWMutex
	vectorsPath string
	docsPath    string

	dim     int
	vectors [][]float32
	norms   []float64
	texts   []string
	metas   []Metadata
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore creates an empty store backed by the given artifact paths.
// The vector dimension is established by the first Add or Load.
func NewLocalStore(vectorsPath, docsPath string) *LocalStore {
	return &LocalStore{
		vectorsPath: vectorsPath,
		docsPath:    docsPath,
	}
}

// Add appends vectors with their texts and metadata. The three slices must be
// the same length, and every vector must match the store's dimension once one
// is established.
func (s *LocalStore) Add(ctx context.Context, vectors [][]float32, texts []string, metas []Metadata) error {
	if len(vectors) != len(texts) || len(texts) != len(metas) {
		return fmt.Errorf("mismatched batch: %d vectors, %d texts, %d metadata entries", len(vectors), len(texts), len(metas))
	}
	if len(vectors) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dim == 0 {
		s.dim = len(vectors[0])
	}
	for _, v := range vectors {
		if len(v) != s.dim {
			return dimensionError(s.dim, len(v))
		}
	}

	for i, v := range vectors {
		row := make([]float32, len(v))
		copy(row, v)
		s.vectors = append(s.vectors, row)
		s.norms = append(s.norms, vectorNorm(row))
		s.texts = append(s.texts, texts[i])
		s.metas = append(s.metas, metas[i])
	}
	return nil
}

// Search returns up to k hits ordered by cosine similarity, highest first.
// Ties keep insertion order. An empty store yields an empty slice.
func (s *LocalStore) Search(ctx context.Context, query []float32, k int) ([]SearchHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.vectors) == 0 {
		return []SearchHit{}, nil
	}
	if len(query) != s.dim {
		return nil, dimensionError(s.dim, len(query))
	}
	if k <= 0 {
		return []SearchHit{}, nil
	}
	if k > len(s.vectors) {
		k = len(s.vectors)
	}

	qNorm := vectorNorm(query)
	type scored struct {
		idx int
		sim float64
	}
	scores := make([]scored, len(s.vectors))
	for i, v := range s.vectors {
		scores[i] = scored{idx: i, sim: cosine(query, v, qNorm, s.norms[i])}
	}
	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].sim > scores[b].sim
	})

	hits := make([]SearchHit, 0, k)
	for _, sc := range scores[:k] {
		hits = append(hits, SearchHit{
			Text:       s.texts[sc.idx],
			Meta:       s.metas[sc.idx],
			Similarity: sc.sim,
		})
	}
	return hits, nil
}

// Count reports the number of stored chunks.
func (s *LocalStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.texts)), nil
}

// Dimension returns the established vector dimension, 0 when the store is
// still empty.
func (s *LocalStore) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dim
}

// Snapshot returns copies of the stored texts and metadata in insertion
// order, for offline inspection tools.
func (s *LocalStore) Snapshot() ([]string, []Metadata) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	texts := make([]string, len(s.texts))
	copy(texts, s.texts)
	metas := make([]Metadata, len(s.metas))
	copy(metas, s.metas)
	return texts, metas
}

type docsFile struct {
	Texts []string   `json:"texts"`
	Meta  []Metadata `json:"meta"`
}

// Save writes both artifacts. The vector file is a small header (magic,
// dimension, row count) followed by packed little-endian float32 rows; the
// document index is JSON with texts and metadata in matching positions.
func (s *LocalStore) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Create(s.vectorsPath)
	if err != nil {
		return fmt.Errorf("create vector file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write([]byte(vectorsMagic)); err != nil {
		return fmt.Errorf("write vector header: %w", err)
	}
	header := make([]byte, 8)
	binary.LittleEndian.PutUint32(header[0:4], uint32(s.dim))
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(s.vectors)))
	if _, err := f.Write(header); err != nil {
		return fmt.Errorf("write vector header: %w", err)
	}

	row := make([]byte, 4*s.dim)
	for _, v := range s.vectors {
		for i, x := range v {
			binary.LittleEndian.PutUint32(row[4*i:], math.Float32bits(x))
		}
		if _, err := f.Write(row); err != nil {
			return fmt.Errorf("write vector row: %w", err)
		}
	}

	docs, err := json.Marshal(docsFile{Texts: s.texts, Meta: s.metas})
	if err != nil {
		return fmt.Errorf("encode document index: %w", err)
	}
	if err := os.WriteFile(s.docsPath, docs, 0o644); err != nil {
		return fmt.Errorf("write document index: %w", err)
	}
	return nil
}

// Load replaces the store contents with the persisted artifacts. A missing
// pair of files leaves the store empty without error; a row-count disagreement
// between the two files returns ErrCorruptIndex.
func (s *LocalStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.vectorsPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read vector file: %w", err)
	}
	if len(raw) < len(vectorsMagic)+8 {
		return fmt.Errorf("vector file %s is truncated", s.vectorsPath)
	}
	if string(raw[:len(vectorsMagic)]) != vectorsMagic {
		return fmt.Errorf("vector file %s has unknown format", s.vectorsPath)
	}
	body := raw[len(vectorsMagic):]
	dim := int(binary.LittleEndian.Uint32(body[0:4]))
	count := int(binary.LittleEndian.Uint32(body[4:8]))
	body = body[8:]
	if dim <= 0 {
		return fmt.Errorf("vector file %s declares dimension %d", s.vectorsPath, dim)
	}
	if len(body) != count*dim*4 {
		return fmt.Errorf("vector file %s: expected %d rows of dimension %d, found %d bytes", s.vectorsPath, count, dim, len(body))
	}

	vectors := make([][]float32, count)
	norms := make([]float64, count)
	for i := 0; i < count; i++ {
		row := make([]float32, dim)
		for j := 0; j < dim; j++ {
			bits := binary.LittleEndian.Uint32(body[(i*dim+j)*4:])
			row[j] = math.Float32frombits(bits)
		}
		vectors[i] = row
		norms[i] = vectorNorm(row)
	}

	docsRaw, err := os.ReadFile(s.docsPath)
	if err != nil {
		return fmt.Errorf("read document index: %w", err)
	}
	var docs docsFile
	if err := json.Unmarshal(docsRaw, &docs); err != nil {
		return fmt.Errorf("decode document index: %w", err)
	}
	if len(docs.Texts) != count || len(docs.Meta) != count {
		return fmt.Errorf("%w: %d vectors, %d texts, %d metadata entries", ErrCorruptIndex, count, len(docs.Texts), len(docs.Meta))
	}

	s.dim = dim
	s.vectors = vectors
	s.norms = norms
	s.texts = docs.Texts
	s.metas = docs.Meta
	return nil
}

func vectorNorm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func cosine(q, v []float32, qNorm, vNorm float64) float64 {
	var dot float64
	for i := range q {
		dot += float64(q[i]) * float64(v[i])
	}
	return dot / (qNorm*vNorm + normEpsilon)
}
