// Package audit composes the resource-reference pipeline: load a document, scan it
// for href/src references, classify them, encode the report and persist it.
//
// One Auditor is safe for concurrent use; each Run is an independent pipeline that
// shares no mutable state with other runs.
package audit
