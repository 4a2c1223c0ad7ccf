package config

import (
	"github.com/go-sif/redact/storage"
)

// Settings are the validated, immutable parameters of a redaction job
type Settings struct {
	pathScheme     string
	inputPath      string
	outputPath     string
	encryptColumns []string
	input          storage.Location
	output         storage.Location
	delimiter      rune
	nullValue      string
	emptyValue     string
	inputNilValue  string
	comment        rune
	lazyQuotes     bool
	header         bool
	compression    string
	workers        int
	partitionSize  int
	logLevel       string
	logFile        string
	warnings       []string
	notices        []string
}

// PathScheme returns the storage scheme shared by the input and output paths, as configured
func (s *Settings) PathScheme() string {
	return s.pathScheme
}

// InputPath returns the input path, as configured
func (s *Settings) InputPath() string {
	return s.inputPath
}

// OutputPath returns the output path, as configured
func (s *Settings) OutputPath() string {
	return s.outputPath
}

// EncryptColumns returns the names of the columns to encrypt, in order
func (s *Settings) EncryptColumns() []string {
	return append([]string(nil), s.encryptColumns...)
}

// InputLocation returns the resolved input location
func (s *Settings) InputLocation() storage.Location {
	return s.input
}

// OutputLocation returns the resolved output location
func (s *Settings) OutputLocation() storage.Location {
	return s.output
}

// Delimiter returns the column separator used for reading and writing
func (s *Settings) Delimiter() rune {
	return s.delimiter
}

// NullValue returns the text written for nil cells
func (s *Settings) NullValue() string {
	return s.nullValue
}

// EmptyValue returns the text written for empty cells
func (s *Settings) EmptyValue() string {
	return s.emptyValue
}

// InputNilValue returns the input text which is read as nil
func (s *Settings) InputNilValue() string {
	return s.inputNilValue
}

// Header returns true iff output files should begin with a header row
func (s *Settings) Header() bool {
	return s.header
}

// Compression returns the output compression, "none" or "lz4"
func (s *Settings) Compression() string {
	return s.compression
}

// Workers returns the requested number of workers. 0 means one per CPU.
func (s *Settings) Workers() int {
	return s.workers
}

// PartitionSize returns the maximum number of rows in a Partition
func (s *Settings) PartitionSize() int {
	return s.partitionSize
}

// LogLevel returns the logging level
func (s *Settings) LogLevel() string {
	return s.logLevel
}

// LogFile returns the file to log to, or "" to log to stderr
func (s *Settings) LogFile() string {
	return s.logFile
}

// Comment returns the character which starts comment lines in the input, or 0 if there is none
func (s *Settings) Comment() rune {
	return s.comment
}

// LazyQuotes returns true iff stray quotes are tolerated in the input
func (s *Settings) LazyQuotes() bool {
	return s.lazyQuotes
}

// Notices returns remarks about defaulted Settings, worth logging at info level
func (s *Settings) Notices() []string {
	return append([]string(nil), s.notices...)
}

// Warnings returns problems with the Settings which do not prevent a run
func (s *Settings) Warnings() []string {
	return append([]string(nil), s.warnings...)
}
