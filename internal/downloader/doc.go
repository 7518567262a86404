// Package downloader implements the per-photo step of a harvest: skip if
// present, fetch, validate the payload size, save.
package downloader
