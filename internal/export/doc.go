// Package export renders shared documents to PDF through headless Chrome.
//
// The browser is launched lazily on the first export and reused afterwards;
// concurrent exports share it through separate tabs, bounded by a slot
// count derived from GOMAXPROCS.
package export
