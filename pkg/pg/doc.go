// Package pg bootstraps the PostgreSQL layer on the pgx/v5 driver: connection
// pooling with startup retries, goose schema migrations, a health check for
// readiness probes and common error classification helpers.
//
// Configuration comes from environment variables via the Config struct, so
// pool limits and migration paths can be tuned per environment without code
// changes. The credential store relies on IsNotFoundError and
// IsDuplicateKeyError for consistent error handling over raw pgx errors.
package pg
