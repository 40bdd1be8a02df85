package buyers

import "context"

// ListFilter narrows a list query. Zero values mean "no filter". Search is a
// free-text match over name, email and phone; the remaining fields are exact
// matches on the canonical stored form.
type ListFilter struct {
	Search       string
	City         string
	PropertyType string
	Status       string
	Timeline     string
	Limit        int
	Offset       int
}

// Repository defines owner-scoped storage for buyer leads. Every operation
// takes the owner identity explicitly; there is no ambient session state.
type Repository interface {
	List(ctx context.Context, ownerID string, filter ListFilter) ([]Buyer, error)
	Create(ctx context.Context, ownerID string, in *BuyerInput) (*Buyer, error)
	GetByID(ctx context.Context, id, ownerID string) (*Buyer, error)
	Update(ctx context.Context, id, ownerID string, in *BuyerInput) (*Buyer, error)
	Delete(ctx context.Context, id, ownerID string) error
	Stats(ctx context.Context, ownerID string) (*Stats, error)
}
