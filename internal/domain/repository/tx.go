package repository

import "context"

// Repositories conjunto de repositorios atados a una misma transacción.
type Repositories struct {
	Attributes   AttributeRepository
	Categories   CategoryRepository
	Aliases      AliasRepository
	Inbox        InboxRepository
	Entities     SupplierEntityRepository
	Prices       PriceRepository
	SourceValues SourceValueRepository
	Links        LinkRepository
	Values       AttributeValueRepository
	Entries      CatalogEntryRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si devuelve nil, Rollback si no.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repositories) error) error
}
