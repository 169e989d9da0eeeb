package binary

import (
	"github.com/kristiker/keyvalues3/errs"
	"github.com/kristiker/keyvalues3/internal/lane"
	"github.com/kristiker/keyvalues3/wire"
)

// lanes holds one V1-V5 lane group: the bucketed sub-streams a decompressed
// payload is split into, consumed independently as the recursive reader
// walks the type stream. short is nil before V4. blobSizes is a queue,
// drained front-to-back as blobs are encountered in document order.
type lanes struct {
	byte        *lane.Buffer
	short       *lane.Buffer
	int         *lane.Buffer
	double      *lane.Buffer
	types       *lane.Buffer
	memberCount *lane.Buffer
	blob        *lane.Buffer
	strings     []string
	blobSizes   []int
}

func (l *lanes) nextBlobSize() (int, error) {
	if len(l.blobSizes) == 0 {
		return 0, errs.NewTruncatedInput(0, 4)
	}
	n := l.blobSizes[0]
	l.blobSizes = l.blobSizes[1:]

	return n, nil
}

func (l *lanes) stringAt(idx int32) (string, error) {
	if idx == -1 {
		return "", nil
	}
	if idx < 0 || int(idx) >= len(l.strings) {
		return "", errs.NewStringIndexOutOfRange(idx, len(l.strings))
	}

	return l.strings[idx], nil
}

// readStringTable reads a u32 count followed by that many NUL-terminated
// UTF-8 strings, the shape shared by V1-V4.
func readStringTable(r *lane.Buffer) ([]string, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make([]string, count)
	for i := range out {
		s, err := r.ReadCString()
		if err != nil {
			return nil, err
		}
		out[i] = s
	}

	return out, nil
}

// readBlobSizeTable reads blockCount u32 blob sizes and then requires the
// 0xFFEEDD00 sentinel right after them, as found between the string/types
// region and the blob stream in V2+.
func readBlobSizeTable(r *lane.Buffer, blockCount int) ([]int, error) {
	sizes := make([]int, 0, blockCount)
	for i := 0; i < blockCount; i++ {
		v, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, int(v))
	}
	sentinel, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if sentinel != wire.BlobSentinel {
		return nil, errs.NewBadSentinel(r.Tell()-4, wire.BlobSentinel, sentinel)
	}

	return sizes, nil
}
