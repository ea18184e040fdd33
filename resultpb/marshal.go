package resultpb

import "github.com/gogo/protobuf/proto"

// protoCompactString renders m via gogo/protobuf's reflection-based text
// formatter, satisfying the proto.Message.String contract without a
// generated String method.
func protoCompactString(m proto.Message) string {
	return proto.CompactTextString(m)
}
