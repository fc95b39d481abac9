// Package application defines the grant application document: its scalar
// fields, its repeating groups and the pure mutation functions over it.
//
// Mutations return new Document values. Readers holding an older Document
// keep seeing exactly what they were handed.
package application
