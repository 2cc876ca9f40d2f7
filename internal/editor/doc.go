// Package editor keeps the working copy of page sections for admin editing sessions.
//
// A Store is loaded once when the dashboard opens and then receives edits
// through content.Apply. Nothing reaches the database until Save is called
// for one section id; a second Save for an id whose previous save has not
// returned yet is rejected with ErrSaveInFlight.
package editor
