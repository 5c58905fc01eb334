package services

import (
	portsrepo "github.com/parmiserp/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/parmiserp/ledger_engine/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Company = NewCompanyService(repos.CompanyRepo)
	container.Account = NewAccountService(repos.AccountRepo)
	container.Hierarchy = NewHierarchyService(repos.HierarchyRepo, repos.AccountRepo)
	container.Fiscal = NewFiscalService(repos.FiscalRepo)

	// The document service leans on the account service for path resolution
	// and on the fiscal service for year resolution.
	container.Document = NewDocumentService(repos.DocumentRepo, repos.AccountRepo, container.Account, container.Fiscal)

	container.Balance = NewBalanceService(repos.BalanceRepo, repos.AccountRepo, repos.FiscalRepo)

	return container
}
