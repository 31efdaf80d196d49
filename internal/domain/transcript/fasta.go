package transcript

import (
	"fmt"
	"strings"
)

// FASTA is a single-record sequence file ready to be served as an attachment.
type FASTA struct {
	Filename string
	Body     []byte
}

var filenameReplacer = strings.NewReplacer(" ", "_", "/", "_", `\`, "_")

// NewFASTA builds the ">header\nsequence\n" payload and a filesystem-safe filename derived from
// the first whitespace-delimited token of the header.
func NewFASTA(record SequenceRecord) FASTA {
	body := make([]byte, 0, len(record.Header)+len(record.Sequence)+3)
	body = append(body, '>')
	body = append(body, record.Header...)
	body = append(body, '\n')
	body = append(body, record.Sequence...)
	body = append(body, '\n')

	return FASTA{
		Filename: Filename(record.ID, record.Header) + ".fasta",
		Body:     body,
	}
}

// Filename returns the download base name for a header, without extension.
func Filename(id int64, header string) string {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return fmt.Sprintf("transcript_%d", id)
	}
	return filenameReplacer.Replace(fields[0])
}
