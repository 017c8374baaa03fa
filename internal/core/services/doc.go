// Package services contains the application core: the tenant-scoped vector
// index, the ingestion pipeline, context retrieval, and the generation
// services layered on top of retrieval. Services depend only on domain
// types and driven ports; adapters are injected by the composition root.
package services
