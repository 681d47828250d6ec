// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Clause search is exact: the candidate clauses for the filtered scope are
// loaded from the ClauseStore and scored in memory, so query cost grows
// linearly with the number of indexed clauses in scope.
package services
