/*
Package ports defines the driven ports (interfaces) for the switchboard engine.

These interfaces decouple the dialogue core from external implementations, so
the engine works with any language-model backend, session store or workflow
source.

# Key Interfaces

  - TextGenerator: the delegate used by model-backed extraction and classification.
  - SessionStore: persists session snapshots between requests.
  - DistributedLocker: coordinates concurrent access to a session across replicas.
  - WorkflowRepository: named workflow documents (memory library, directory).
*/
package ports
