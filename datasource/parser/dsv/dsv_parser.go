package dsv

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/go-sif/redact"
	"github.com/go-sif/redact/schema"
)

// ParserConf configures a DSV Parser
type ParserConf struct {
	PartitionSize int    // The maximum number of rows per Partition. Defaults to 1024.
	Delimiter     rune   // The delimiter separating columns in the file. Defaults to ,
	Comment       rune   // Lines beginning with the comment character are ignored. Cannot be equal to the Delimiter. Defaults to no comment character.
	NilValue      string // A special string which represents nil values in the dataset. Defaults to "" (the empty string).
	LazyQuotes    bool   // If true, a quote may appear in an unquoted field and a non-doubled quote may appear in a quoted field.
}

// Parser produces partitions from DSV data. The first record of
// every file is its header, and every column holds text.
type Parser struct {
	conf *ParserConf
}

// CreateParser returns a new DSV Parser
func CreateParser(conf *ParserConf) *Parser {
	if conf.PartitionSize == 0 {
		conf.PartitionSize = 1024
	}
	if conf.Delimiter == 0 {
		conf.Delimiter = ','
	}
	return &Parser{conf: conf}
}

// PartitionSize returns the maximum size in rows of Partitions produced by this Parser
func (p *Parser) PartitionSize() int {
	return p.conf.PartitionSize
}

// NilValue returns the text which this Parser reads as nil
func (p *Parser) NilValue() string {
	return p.conf.NilValue
}

// Parse parses DSV data to produce Partitions
func (p *Parser) Parse(r io.Reader, onIteratorEnd func()) (redact.PartitionIterator, error) {
	// start parsing by creating a reader
	reader := csv.NewReader(r)
	reader.Comma = p.conf.Delimiter
	reader.Comment = p.conf.Comment
	reader.LazyQuotes = p.conf.LazyQuotes

	// the header defines the schema
	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file has no header row")
	} else if err != nil {
		return nil, err
	}
	s, err := schema.CreateSchemaFromNames(header...)
	if err != nil {
		return nil, fmt.Errorf("invalid header: %w", err)
	}
	reader.FieldsPerRecord = len(header)
	reader.ReuseRecord = true

	iterator := &dsvFilePartitionIterator{
		parser:       p,
		reader:       reader,
		hasNext:      true,
		schema:       s,
		endListeners: []func(){},
	}
	if onIteratorEnd != nil {
		iterator.OnEnd(onIteratorEnd)
	}
	return iterator, nil
}
