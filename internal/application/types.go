package application

import "wintertree/internal/domain"

// Re-export domain types for use by adapters
type (
	Chunk       = domain.Chunk
	ChunkStatus = domain.ChunkStatus
	ChunkMeta   = domain.ChunkMeta
	Concept     = domain.Concept
	PeriodKey   = domain.PeriodKey
	Tree        = domain.Tree
)

const (
	ChunkPending  = domain.ChunkPending
	ChunkScanning = domain.ChunkScanning
	ChunkDone     = domain.ChunkDone
)
