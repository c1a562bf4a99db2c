// Package apiguard answers natural-language questions over a corpus of
// scraped API documentation. It crawls documentation sites, splits the
// content into overlapping chunks, indexes chunk embeddings for
// nearest-neighbor search, and grounds a generative model on the retrieved
// chunks to answer questions with source citations.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, goquery/).
package apiguard
