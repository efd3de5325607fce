// Package memory implementa los puertos de persistencia en memoria. Se usa con
// STORAGE_DRIVER=memory (desarrollo) y en los tests de la capa de aplicación.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

type state struct {
	attributes   map[string]entity.AttributeDefinition
	categories   map[string]entity.Category
	bindings     map[string]entity.CategoryAttributeBinding // categoryID|attributeID
	aliases      map[string]entity.AliasEntry               // label|supplierID
	inbox        map[string]entity.InboxItem
	entities     map[string]entity.SupplierEntity
	prices       map[string]entity.PriceRecord // entityID|classification
	sourceValues map[string]entity.SourceValue
	links        map[string]entity.EntityLink // por SupplierEntityID
	values       map[string]entity.AttributeValue // entryID|attributeID|sourceKey
	entries      map[string]entity.CatalogEntry
}

func newState() state {
	return state{
		attributes:   map[string]entity.AttributeDefinition{},
		categories:   map[string]entity.Category{},
		bindings:     map[string]entity.CategoryAttributeBinding{},
		aliases:      map[string]entity.AliasEntry{},
		inbox:        map[string]entity.InboxItem{},
		entities:     map[string]entity.SupplierEntity{},
		prices:       map[string]entity.PriceRecord{},
		sourceValues: map[string]entity.SourceValue{},
		links:        map[string]entity.EntityLink{},
		values:       map[string]entity.AttributeValue{},
		entries:      map[string]entity.CatalogEntry{},
	}
}

// clone copia superficial de los mapas; los valores guardados nunca se mutan en sitio.
func (s state) clone() state {
	return state{
		attributes:   copyMap(s.attributes),
		categories:   copyMap(s.categories),
		bindings:     copyMap(s.bindings),
		aliases:      copyMap(s.aliases),
		inbox:        copyMap(s.inbox),
		entities:     copyMap(s.entities),
		prices:       copyMap(s.prices),
		sourceValues: copyMap(s.sourceValues),
		links:        copyMap(s.links),
		values:       copyMap(s.values),
		entries:      copyMap(s.entries),
	}
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Store almacén en memoria protegido por un único mutex.
type Store struct {
	mu sync.Mutex
	st state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Repositories repositorios fuera de transacción (cada llamada toma el lock).
func (s *Store) Repositories() repository.Repositories {
	return s.repos(false)
}

func (s *Store) repos(tx bool) repository.Repositories {
	b := base{s: s, tx: tx}
	return repository.Repositories{
		Attributes:   &AttributeRepo{b},
		Categories:   &CategoryRepo{b},
		Aliases:      &AliasRepo{b},
		Inbox:        &InboxRepo{b},
		Entities:     &SupplierEntityRepo{b},
		Prices:       &PriceRepo{b},
		SourceValues: &SourceValueRepo{b},
		Links:        &LinkRepo{b},
		Values:       &AttributeValueRepo{b},
		Entries:      &CatalogEntryRepo{b},
	}
}

type base struct {
	s  *Store
	tx bool
}

func (b base) do(fn func(st *state) error) error {
	if !b.tx {
		b.s.mu.Lock()
		defer b.s.mu.Unlock()
	}
	return fn(&b.s.st)
}

// TxRunner transacciones en memoria: serializa con el lock del almacén y restaura
// la instantánea si fn falla.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con repositorios atados a la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snapshot := r.s.st.clone()
	if err := fn(r.s.repos(true)); err != nil {
		r.s.st = snapshot
		return err
	}
	return nil
}
