// Package main provides the entry point of folio, a single page portfolio site.
// Its content lives in schema-less JSON sections which admins edit in place
// from a server rendered dashboard. The application uses fiber for http,
// gorm for persistence and a pluggable blob store for image uploads.
package main
