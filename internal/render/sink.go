package render

import (
	"io"
	"os"

	"skillkit/internal/pipeline"
)

// StreamSink writes rendered output to an already-open stream, normally
// stdout. The stream is not closed; it belongs to the caller.
type StreamSink struct {
	W    io.Writer
	Name string
}

// Stdout returns a sink for standard output.
func Stdout() *StreamSink {
	return &StreamSink{W: os.Stdout, Name: "stdout"}
}

// Commit implements pipeline.Sink
func (s *StreamSink) Commit(data []byte) error {
	if _, err := s.W.Write(data); err != nil {
		return pipeline.IOFailed(err, "failed to write to %s", s.Name)
	}
	return nil
}

// Target implements pipeline.Sink
func (s *StreamSink) Target() string {
	return s.Name
}

// FileSink writes rendered output to a file path. The file is created only
// at commit time, after rendering succeeded, and is closed on every exit
// path so a pipeline failure never leaves a dangling handle or partial file.
type FileSink struct {
	Path string
}

// Commit implements pipeline.Sink
func (s *FileSink) Commit(data []byte) error {
	f, err := os.Create(s.Path)
	if err != nil {
		return pipeline.IOFailed(err, "failed to create output file %s", s.Path)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return pipeline.IOFailed(err, "failed to write output file %s", s.Path)
	}
	if err := f.Close(); err != nil {
		return pipeline.IOFailed(err, "failed to close output file %s", s.Path)
	}
	return nil
}

// Target implements pipeline.Sink
func (s *FileSink) Target() string {
	return s.Path
}

// SinkFor returns a file sink when an output path was supplied and a stdout
// sink otherwise.
func SinkFor(outputPath string) pipeline.Sink {
	if outputPath == "" {
		return Stdout()
	}
	return &FileSink{Path: outputPath}
}
