/*
Package ports defines the driven ports (interfaces) for the abacus engine.

These interfaces decouple the calculator core from external implementations, allowing
sessions to be hosted on various storage backends and served over several transports.

# Key Interfaces

  - Calculator: The engine surface consumed by the HTTP, MCP and terminal hosts.
  - StateStore: Responsible for persisting and loading session State.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
  - TapeArchive: Stores exported history tapes.
*/
package ports
