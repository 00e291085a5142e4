package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/recepcion-activa/internal/application/billing"
	"github.com/jhoicas/recepcion-activa/internal/domain/repository"
)

var _ billing.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las operaciones de lectura-modificación sobre el almacén en memoria.
// No hay rollback: fn debe validar antes de escribir.
type TxRunner struct {
	mu   sync.Mutex
	repo *InvoiceRepo
}

// NewTxRunner construye el runner sobre el almacén dado.
func NewTxRunner(repo *InvoiceRepo) *TxRunner {
	return &TxRunner{repo: repo}
}

// Run ejecuta fn en exclusión mutua con el resto de llamadas a Run.
func (r *TxRunner) Run(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.repo)
}
