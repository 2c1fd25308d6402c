package engine

import (
	"context"

	"github.com/hearthside/cartfill/internal/dataset"
	"github.com/hearthside/cartfill/internal/domain"
	"github.com/hearthside/cartfill/internal/embedding"
)

// ArtifactStore persists and loads the derived recommendation artifacts.
type ArtifactStore interface {
	Missing() []string
	SaveRules(rules domain.RuleTable) error
	LoadRules() (domain.RuleTable, error)
	SaveEmbeddings(index *domain.ItemIndex, vecs domain.Vectors) error
	LoadEmbeddings() (*domain.ItemIndex, domain.Vectors, error)
}

// DatasetStore reads and writes the raw transaction dataset.
type DatasetStore interface {
	Missing() []string
	WriteAll(d *dataset.Data) error
	LoadAll() (*dataset.Data, error)
}

// Trainer produces one embedding vector per item index from labeled pairs.
type Trainer interface {
	Train(ctx context.Context, numItems int, pairs []embedding.Pair) (domain.Vectors, error)
}
