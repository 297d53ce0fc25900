// Command shelf manages a sectioned watch list from the terminal.
//
// Every invocation loads the library from the configured backend, applies
// one operation through the session engine and writes the result back.
// Catalog lookups use TMDB when an api key is configured.
package main
