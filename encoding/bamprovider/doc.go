// Package bamprovider reads an indexed BAM file through arbitrary
// genomic-coordinate windows.
//
// Provider is the interface for reading BAM data; BAMProvider is its only
// production implementation. The pileup cache is the main consumer: it
// builds an ad-hoc Shard for each candidate window and hands it to
// Provider.NewIterator.
package bamprovider
