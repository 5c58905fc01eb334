package repositories

// RepositoryProvider bundles every repository facade for wiring
type RepositoryProvider struct {
	AccountRepo   AccountRepositoryFacade
	HierarchyRepo HierarchyRepositoryFacade
	FiscalRepo    FiscalRepositoryFacade
	DocumentRepo  DocumentRepositoryFacade
	BalanceRepo   BalanceRepositoryFacade
	CompanyRepo   CompanyRepositoryFacade
}
