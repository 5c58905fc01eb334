package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/parmiserp/ledger_engine/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the pgx-backed repositories over one shared
// connection pool. The document repository borrows the account repository's
// transactional support so posting can lock and adjust account rows inside its
// own transaction.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	return portsrepo.RepositoryProvider{
		AccountRepo:   accountRepo,
		HierarchyRepo: newPgxHierarchyRepository(dbPool),
		FiscalRepo:    newPgxFiscalRepository(dbPool),
		DocumentRepo:  newPgxDocumentRepository(dbPool, accountRepo),
		BalanceRepo:   newPgxBalanceRepository(dbPool),
		CompanyRepo:   newPgxCompanyRepository(dbPool),
	}
}
