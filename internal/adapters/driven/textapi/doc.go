// Package textapi is the HTTP client for the remote text API. It implements
// driven.ContentSource and driven.TOCSource.
//
// Transient failures (transport errors, 408, 429 and 5xx) are retried with
// linear backoff and then surfaced as *domain.NetworkError. A 404 becomes a
// *domain.NotFoundError; any other 4xx is an *APIError.
package textapi
