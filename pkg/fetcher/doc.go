// Package fetcher issues the GET requests of a harvest run.
//
// Pages come from the archive host and are returned as text whatever their
// status; photos come from the asset host and are returned as bytes together
// with their status. Redirect responses are answered by issuing the
// identical request again after the configured delay, up to the configured
// limit. Every request waits on the rate limiter and is
// bounded by the configured timeout. Transport failures are returned as
// network errors from pkg/errors.
package fetcher
