// Package domain contains the core business entities and errors for the
// papermind ingestion and retrieval pipeline. It has no dependencies on
// adapters or external services.
package domain
