/*
Package ports defines the driven ports (interfaces) used by Lama.

These interfaces decouple the core logic from external implementations, so the
solver adapter can run against a fake process runner in tests and materials
can be kept in memory or in Redis.

# Key Interfaces

  - ProcessRunner: spawns a child process and captures its output.
  - MaterialStore: persists validated materials by name.
*/
package ports
