// Package export renders ranges of journal entries into standalone HTML
// documents.
//
// The exporter is read-only: it consumes ranged entry reads plus
// per-entry mood and tag lookups through the narrow EntryReader
// interface and never writes to the store. Entry content is treated as
// markdown and rendered with goldmark; titles, mood names and tag names
// are HTML-escaped.
package export
