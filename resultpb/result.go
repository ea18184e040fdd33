// Package resultpb defines the wire schema for SuperNovo's snapshot and
// checkpoint files. These messages are hand-maintained (there is no .proto
// source/protoc step in this repository) but marshal through
// gogo/protobuf/proto's reflection-based encoder like any other
// protobuf-tagged struct, giving the on-disk format the same
// forward/backward-compatible wire semantics (unknown-field skipping,
// optional-field defaulting) a protoc-generated message would have.
package resultpb

// Sample is one sample's numeric fields of interest at a result's
// position, framed relative to the child's A1/A2 so parent fields are
// comparable across samples.
type Sample struct {
	SampleId             string  `protobuf:"bytes,1,opt,name=sample_id,proto3" json:"sample_id,omitempty"`
	A1WeightedDepth      float64 `protobuf:"fixed64,2,opt,name=a1_weighted_depth,proto3" json:"a1_weighted_depth,omitempty"`
	A2WeightedDepth      float64 `protobuf:"fixed64,3,opt,name=a2_weighted_depth,proto3" json:"a2_weighted_depth,omitempty"`
	A1RawDepth           int32   `protobuf:"varint,4,opt,name=a1_raw_depth,proto3" json:"a1_raw_depth,omitempty"`
	A2RawDepth           int32   `protobuf:"varint,5,opt,name=a2_raw_depth,proto3" json:"a2_raw_depth,omitempty"`
	A1ClippedCount       int32   `protobuf:"varint,6,opt,name=a1_clipped_count,proto3" json:"a1_clipped_count,omitempty"`
	A2ClippedCount       int32   `protobuf:"varint,7,opt,name=a2_clipped_count,proto3" json:"a2_clipped_count,omitempty"`
	A1EndPositionCount   int32   `protobuf:"varint,8,opt,name=a1_end_position_count,proto3" json:"a1_end_position_count,omitempty"`
	A2EndPositionCount   int32   `protobuf:"varint,9,opt,name=a2_end_position_count,proto3" json:"a2_end_position_count,omitempty"`
	A1MismapCount        int32   `protobuf:"varint,10,opt,name=a1_mismap_count,proto3" json:"a1_mismap_count,omitempty"`
	A2MismapCount        int32   `protobuf:"varint,11,opt,name=a2_mismap_count,proto3" json:"a2_mismap_count,omitempty"`
	A1UnmappedMateCount  int32   `protobuf:"varint,12,opt,name=a1_unmapped_mate_count,proto3" json:"a1_unmapped_mate_count,omitempty"`
	A2UnmappedMateCount  int32   `protobuf:"varint,13,opt,name=a2_unmapped_mate_count,proto3" json:"a2_unmapped_mate_count,omitempty"`
}

func (m *Sample) Reset()         { *m = Sample{} }
func (m *Sample) String() string { return protoCompactString(m) }
func (*Sample) ProtoMessage()    {}

// DeNovoResult is the wire form of result.DeNovoResult: a reference
// position, the haplotype neighborhood summary, one Sample per
// participating sample, and the annotator's output fields, which are empty
// until the annotation stage runs.
type DeNovoResult struct {
	Contig   string `protobuf:"bytes,1,opt,name=contig,proto3" json:"contig,omitempty"`
	Pos      int64  `protobuf:"varint,2,opt,name=pos,proto3" json:"pos,omitempty"`
	Ref      string `protobuf:"bytes,3,opt,name=ref,proto3" json:"ref,omitempty"`
	Alt      string `protobuf:"bytes,4,opt,name=alt,proto3" json:"alt,omitempty"`

	OtherVariants    int32     `protobuf:"varint,5,opt,name=other_variants,proto3" json:"other_variants,omitempty"`
	OtherTriallelics int32     `protobuf:"varint,6,opt,name=other_triallelics,proto3" json:"other_triallelics,omitempty"`
	OtherBiallelics  int32     `protobuf:"varint,7,opt,name=other_biallelics,proto3" json:"other_biallelics,omitempty"`
	AdjacentDeNovos  int32     `protobuf:"varint,8,opt,name=adjacent_de_novos,proto3" json:"adjacent_de_novos,omitempty"`
	OtherDeNovos     int32     `protobuf:"varint,9,opt,name=other_de_novos,proto3" json:"other_de_novos,omitempty"`
	Concordances     []float64 `protobuf:"fixed64,10,rep,name=concordances,proto3" json:"concordances,omitempty"`

	Samples []*Sample `protobuf:"bytes,11,rep,name=samples,proto3" json:"samples,omitempty"`

	SuperNovo      bool   `protobuf:"varint,12,opt,name=super_novo,proto3" json:"super_novo,omitempty"`
	SnpeffGene     string `protobuf:"bytes,13,opt,name=snpeff_gene,proto3" json:"snpeff_gene,omitempty"`
	SnpeffImpact   string `protobuf:"bytes,14,opt,name=snpeff_impact,proto3" json:"snpeff_impact,omitempty"`
	DnIsRef        bool   `protobuf:"varint,15,opt,name=dn_is_ref,proto3" json:"dn_is_ref,omitempty"`
}

func (m *DeNovoResult) Reset()         { *m = DeNovoResult{} }
func (m *DeNovoResult) String() string { return protoCompactString(m) }
func (*DeNovoResult) ProtoMessage()    {}

// Snapshot is the header message written to both the final
// `.SuperNovoResultList.ser.gz` snapshot and the periodic
// `.ser.gz_CHUNKED` checkpoint. FormatVersion lets a future revision
// detect and reject (or migrate) an older on-disk schema instead of
// silently misreading it.
type Snapshot struct {
	FormatVersion int32           `protobuf:"varint,1,opt,name=format_version,proto3" json:"format_version,omitempty"`
	Results       []*DeNovoResult `protobuf:"bytes,2,rep,name=results,proto3" json:"results,omitempty"`
}

func (m *Snapshot) Reset()         { *m = Snapshot{} }
func (m *Snapshot) String() string { return protoCompactString(m) }
func (*Snapshot) ProtoMessage()    {}

// CurrentFormatVersion is the Snapshot.FormatVersion this package reads and
// writes. Bump it, and teach Load to reject or migrate older versions, on
// any incompatible schema change.
const CurrentFormatVersion = 1
