// Package bam holds the BAM-layer helpers SuperNovo's pileup machinery is
// built on: the Shard/coordinate types the providers iterate over, a free
// pool for sam.Record reuse, flag/clip/base accessors, and unsafe casts for
// the packed seq encoding.
package bam
