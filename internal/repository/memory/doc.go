// Package memory provides in-memory repositories. They back the server when
// no database is configured and are used by service and handler tests.
package memory
