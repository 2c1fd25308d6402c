// Package artifact persists the derived recommendation artifacts: the mined
// rule table, the item index, and the trained embedding matrix.
package artifact

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/hearthside/cartfill/internal/domain"
)

// File names inside the data directory.
const (
	rulesFile      = "rules.json"
	itemIndexFile  = "item_index.json"
	embeddingsFile = "embeddings.bin"
)

var requiredFiles = []string{rulesFile, itemIndexFile, embeddingsFile}

// indexFileBody is the persisted form of the item index plus the embedding
// dimensionality needed to decode embeddings.bin.
type indexFileBody struct {
	Dim   int      `json:"dim"`
	Items []string `json:"items"`
}

// Store reads and writes derived artifacts under a single directory.
type Store struct {
	dir string
}

// NewStore creates an artifact store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Missing returns the names of required artifacts absent from the directory.
func (s *Store) Missing() []string {
	var missing []string
	for _, name := range requiredFiles {
		if _, err := os.Stat(filepath.Join(s.dir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	return missing
}

// SaveRules persists the rule table as JSON.
func (s *Store) SaveRules(rules domain.RuleTable) error {
	data, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("marshal rules: %w", err)
	}
	if err := s.write(rulesFile, data); err != nil {
		return err
	}
	return nil
}

// LoadRules reads the rule table.
func (s *Store) LoadRules() (domain.RuleTable, error) {
	data, err := s.read(rulesFile)
	if err != nil {
		return nil, err
	}
	var rules domain.RuleTable
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", rulesFile, domain.ErrArtifactCorrupt, err)
	}
	return rules, nil
}

// SaveEmbeddings persists the item index and the embedding matrix.
// Vectors are stored as little-endian float32 rows in index order.
func (s *Store) SaveEmbeddings(index *domain.ItemIndex, vecs domain.Vectors) error {
	if len(vecs) != index.Len() {
		return fmt.Errorf("embedding count %d does not match index size %d", len(vecs), index.Len())
	}

	body, err := json.Marshal(indexFileBody{Dim: vecs.Dim(), Items: index.Items()})
	if err != nil {
		return fmt.Errorf("marshal item index: %w", err)
	}
	if err := s.write(itemIndexFile, body); err != nil {
		return err
	}

	dim := vecs.Dim()
	buf := make([]byte, 0, len(vecs)*dim*4)
	for i, row := range vecs {
		if len(row) != dim {
			return fmt.Errorf("embedding row %d has dim %d, want %d", i, len(row), dim)
		}
		for _, f := range row {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
	}
	return s.write(embeddingsFile, buf)
}

// LoadEmbeddings reads the item index and embedding matrix, validating that
// every indexed item has exactly one vector.
func (s *Store) LoadEmbeddings() (*domain.ItemIndex, domain.Vectors, error) {
	body, err := s.read(itemIndexFile)
	if err != nil {
		return nil, nil, err
	}
	var meta indexFileBody
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, nil, fmt.Errorf("%s: %w: %w", itemIndexFile, domain.ErrArtifactCorrupt, err)
	}
	if meta.Dim <= 0 {
		return nil, nil, fmt.Errorf("%s: invalid dim %d: %w", itemIndexFile, meta.Dim, domain.ErrArtifactCorrupt)
	}
	index, err := domain.ReconstructItemIndex(meta.Items)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w: %w", itemIndexFile, domain.ErrArtifactCorrupt, err)
	}

	raw, err := s.read(embeddingsFile)
	if err != nil {
		return nil, nil, err
	}
	rowBytes := meta.Dim * 4
	if rowBytes == 0 || len(raw)%rowBytes != 0 || len(raw)/rowBytes != index.Len() {
		return nil, nil, fmt.Errorf("%s: %d bytes does not hold %d rows of dim %d: %w",
			embeddingsFile, len(raw), index.Len(), meta.Dim, domain.ErrArtifactCorrupt)
	}

	vecs := make(domain.Vectors, index.Len())
	for i := range vecs {
		row := make([]float32, meta.Dim)
		off := i * rowBytes
		for d := range row {
			row[d] = math.Float32frombits(binary.LittleEndian.Uint32(raw[off+d*4:]))
		}
		vecs[i] = row
	}
	return index, vecs, nil
}

func (s *Store) read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", name, domain.ErrArtifactMissing)
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func (s *Store) write(name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
