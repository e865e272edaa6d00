package services

// ServiceContainer holds the service facades the boundary layer wires
// handlers against.
type ServiceContainer struct {
	LedgerEntry LedgerEntrySvcFacade
	Action      ActionSvcFacade
}
