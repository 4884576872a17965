// Package database provides SQLite-backed persistence for
// investigation cases. Cases are stored as JSON blobs alongside typed
// metadata columns so listings never deserialize full cases.
package database
