package result

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"os"
	"strings"

	"github.com/gogo/protobuf/proto"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/supernovo/genome"
	"github.com/grailbio/supernovo/resultpb"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// writeStream gzip-compresses a length-prefixed (varint) stream of
// proto-marshaled DeNovoResult messages, preceded by a Snapshot header
// message carrying the format version.
func writeStream(w io.Writer, results []DeNovoResult) error {
	gz := gzip.NewWriter(w)
	bw := bufio.NewWriter(gz)

	header := &resultpb.Snapshot{FormatVersion: resultpb.CurrentFormatVersion}
	if err := writeMessage(bw, header); err != nil {
		return errors.Wrap(err, "result: writing snapshot header")
	}
	for _, r := range results {
		if err := writeMessage(bw, r.ToProto()); err != nil {
			return errors.Wrap(err, "result: writing record")
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "result: flushing stream")
	}
	return gz.Close()
}

func writeMessage(w io.Writer, m proto.Message) error {
	buf, err := proto.Marshal(m)
	if err != nil {
		return err
	}
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(buf)))
	if _, err := w.Write(lenBuf[:n]); err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

func readMessage(r *bufio.Reader, m proto.Message) error {
	size, err := binary.ReadUvarint(r)
	if err != nil {
		return err
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	return proto.Unmarshal(buf, m)
}

// readStream is the inverse of writeStream. It rejects a stream whose
// format version it does not recognize rather than silently misreading it.
func readStream(r io.Reader) ([]DeNovoResult, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "result: opening gzip stream")
	}
	defer gz.Close()
	br := bufio.NewReader(gz)

	var header resultpb.Snapshot
	if err := readMessage(br, &header); err != nil {
		return nil, errors.Wrap(err, "result: reading snapshot header")
	}
	if header.FormatVersion != resultpb.CurrentFormatVersion {
		return nil, errors.Errorf("result: snapshot format version %d unsupported (want %d)", header.FormatVersion, resultpb.CurrentFormatVersion)
	}

	var out []DeNovoResult
	for {
		var pb resultpb.DeNovoResult
		err := readMessage(br, &pb)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "result: reading record")
		}
		out = append(out, FromProto(&pb))
	}
	return out, nil
}

// Save writes results to path. On a local filesystem it writes a temp file
// and renames it into place so a reader never observes a partially written
// snapshot; the rename is the commit point. Cloud-backed paths (s3://...)
// already commit atomically on Close (the Writer is a single PUT or a
// completed multipart upload), so they are written in place.
func Save(ctx context.Context, path string, results []DeNovoResult) error {
	tmpPath := path
	if !isCloudPath(path) {
		tmpPath = path + ".tmp"
	}
	out, err := file.Create(ctx, tmpPath)
	if err != nil {
		return errors.Wrapf(err, "result: creating %s", tmpPath)
	}
	if err := writeStream(out.Writer(ctx), results); err != nil {
		_ = out.Close(ctx) // best effort; the write error is what matters
		return errors.Wrapf(err, "result: writing %s", tmpPath)
	}
	if err := out.Close(ctx); err != nil {
		return errors.Wrapf(err, "result: closing %s", tmpPath)
	}
	if tmpPath != path {
		if err := os.Rename(tmpPath, path); err != nil {
			return errors.Wrapf(err, "result: renaming %s to %s", tmpPath, path)
		}
	}
	return nil
}

// isCloudPath reports whether path names a non-local backend (s3://...),
// for which grailbio/base/file has no Rename.
func isCloudPath(path string) bool {
	return strings.Contains(path, "://")
}

// Load reads a snapshot or checkpoint previously written by Save. A
// missing file is not an error: it returns (nil, nil), so a first run with
// no prior state starts cleanly from empty.
func Load(ctx context.Context, path string) ([]DeNovoResult, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "result: opening %s", path)
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil {
			log.Error.Printf("result: closing %s: %v", path, cerr)
		}
	}()
	return readStream(in.Reader(ctx))
}

// SnapshotPath and CheckpointPath derive the snapshot filenames from the
// user-supplied output stem.
func SnapshotPath(outputStem string) string   { return outputStem + ".SuperNovoResultList.ser.gz" }
func CheckpointPath(outputStem string) string { return SnapshotPath(outputStem) + "_CHUNKED" }

// ByPosition sorts results by (contig, position) using dict's contig
// order, for deterministic output regardless of evaluation order.
func ByPosition(results []DeNovoResult, dict *genome.Dictionary) {
	sortResults(results, dict)
}
