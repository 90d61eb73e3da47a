/*
Package ports defines the driven ports (interfaces) for the Stylist session engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to work with various storage backends and AI collaborators.

# Key Interfaces

  - KVStore: Durable string-keyed storage holding the persisted session slots.
  - Replier: The AI collaborator mapping a conversation history to a reply.
  - Transcriber: Turns a recorded voice note into text (stubbed by default).
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
*/
package ports
