package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/openledger/bookkeeper/internal/core/ports/repositories"
)

// RepositoryContainer bundles all pgsql repositories sharing one pool.
type RepositoryContainer struct {
	Account   portsrepo.AccountRepositoryFacade
	Journal   portsrepo.JournalRepositoryFacade
	Reporting portsrepo.ReportingRepositoryFacade
}

// NewRepositoryContainer wires the repositories over a shared pool.
func NewRepositoryContainer(pool *pgxpool.Pool) *RepositoryContainer {
	accountRepo := NewAccountRepository(pool)
	return &RepositoryContainer{
		Account:   accountRepo,
		Journal:   NewJournalRepository(pool, accountRepo),
		Reporting: NewReportingRepository(pool),
	}
}
