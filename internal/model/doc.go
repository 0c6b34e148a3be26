// Package model defines the core data structures for image metadata
// inspection: reports, findings, and severity levels.
//
// These types are shared between the inspector, the report writers,
// and the history database. They contain no behavior beyond simple
// accessors so they can be serialized freely.
package model
