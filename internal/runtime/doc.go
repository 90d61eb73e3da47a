/*
Package runtime holds the conversation state of a guided styling session.

A Session combines the step machine, the append-only conversation log, the
liked-outfit tracker and the response dispatcher. All mutations are serialized by
one mutex and written through to a ports.KVStore in three slots.
*/
package runtime
