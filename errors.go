package cartfill

import "github.com/hearthside/cartfill/internal/domain"

// Re-exported sentinel errors for errors.Is checks by embedding callers.
var (
	ErrArtifactMissing  = domain.ErrArtifactMissing
	ErrArtifactCorrupt  = domain.ErrArtifactCorrupt
	ErrBootstrapFailed  = domain.ErrBootstrapFailed
	ErrCustomerNotFound = domain.ErrCustomerNotFound
)
