package commands

import (
	"context"

	"harmonyscope/internal/domain"
	"harmonyscope/internal/ports"
)

// TypeCatalogCommand lists the change and object types present in the store
type TypeCatalogCommand struct {
	sessions ports.SessionFactory
}

// NewTypeCatalogCommand creates a new TypeCatalogCommand
func NewTypeCatalogCommand(sessions ports.SessionFactory) *TypeCatalogCommand {
	return &TypeCatalogCommand{sessions: sessions}
}

// Execute runs the type catalog command
func (c *TypeCatalogCommand) Execute(ctx context.Context) (*domain.TypeCatalog, error) {
	session, err := c.sessions.OpenSession(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	types, err := session.QueryChangeTypes(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewTypeCatalog(types), nil
}
