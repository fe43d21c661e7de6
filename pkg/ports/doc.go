/*
Package ports defines the driven ports (interfaces) of the studio tooling.

These interfaces decouple the CLI and the editor-support server from concrete storage
and transport, so each can be swapped or faked in tests.

# Key Interfaces

  - FlowLoader: loads a UserFlowConfig by name (memory, JSON/YAML file, backend).
  - LocaleStore: persists the user's UI locale preference (memory, YAML file, Redis).
  - PrefilledSource: supplies the backend's prefilled message catalog to the default-config factory.
*/
package ports
