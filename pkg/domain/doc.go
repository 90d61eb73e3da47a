/*
Package domain contains the core domain models of the Stylist session engine.

It defines the onboarding steps, the conversation messages, the outfit catalog
and the lifecycle events emitted while a session progresses. This package is kept
pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Step: One stage of the fixed five-stage onboarding sequence.
  - Message: An immutable entry of the append-only conversation log.
  - Turn: The {role, content} pair exchanged with an AI collaborator.
  - Outfit: An entry of the static reference catalog.
  - Snapshot: A read-only view of a session handed to presentation layers.
*/
package domain
