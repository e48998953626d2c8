package split

import (
	"io"
	"os"

	"github.com/geoknoesis/rdfsplit/rdf"
)

// source couples an open input file with its format reader.
type source struct {
	path   string
	format rdf.Format
	file   *os.File
	reader rdf.Reader
}

func openSource(path string, format rdf.Format) (*source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	reader, err := rdf.NewReader(file, format)
	if err != nil {
		file.Close()
		return nil, err
	}
	return &source{path: path, format: format, file: file, reader: reader}, nil
}

func (s *source) Next() (rdf.Statement, error) { return s.reader.Next() }

func (s *source) Preamble() rdf.Preamble { return s.reader.Preamble() }

func (s *source) Close() error {
	rerr := s.reader.Close()
	ferr := s.file.Close()
	if rerr != nil {
		return rerr
	}
	return ferr
}

// countStatements runs a full discard pass over the input and returns
// the statement total together with the complete preamble. File-count
// mode needs both before any chunk can be sized, and the preamble from
// this pass covers declarations appearing anywhere in the document.
func countStatements(path string, format rdf.Format) (int, rdf.Preamble, error) {
	src, err := openSource(path, format)
	if err != nil {
		return 0, rdf.Preamble{}, err
	}
	defer src.Close()

	total := 0
	for {
		_, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, rdf.Preamble{}, err
		}
		total++
	}
	return total, src.Preamble().Clone(), nil
}
