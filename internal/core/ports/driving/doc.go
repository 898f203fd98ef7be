// Package driving defines the interfaces through which external actors
// drive the core (primary ports in hexagonal architecture).
//
// The CLI, TUI and MCP adapters depend on these interfaces; the core
// services implement them.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package, any driven port implementation
package driving
