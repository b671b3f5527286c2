// Package file persists workflows and session snapshots on the local filesystem.
//
// Every write goes through a temporary file in the destination directory
// followed by a rename, so readers never observe a partially written file.
package file
