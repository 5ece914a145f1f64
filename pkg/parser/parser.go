package parser

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/bisegni/jframe/pkg/frame"
)

// ValueKey is the key a non-object JSON value is stored under when it is read as a record
const ValueKey = "value"

const maxLineSize = 16 * 1024 * 1024

// Parser handles reading JSON and JSONL files
type Parser struct {
	source  io.ReadCloser
	isJSONL bool

	// Stateful readers
	decoder   *json.Decoder
	scanner   *bufio.Scanner
	bufReader *bufio.Reader

	startArrayChecked bool
	inArray           bool
}

// NewParser creates a new parser for the given file
// Special cases:
// - Empty string or "-" reads from stdin
// - Strings starting with '{' or '[' are treated as inline JSON
func NewParser(filename string) (*Parser, error) {
	var source io.ReadCloser
	var isJSONL bool

	trimmed := strings.TrimSpace(filename)
	switch {
	case len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '['):
		source = io.NopCloser(strings.NewReader(trimmed))
	case filename == "" || filename == "-":
		source = io.NopCloser(os.Stdin)
	default:
		file, err := os.Open(filename)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open file")
		}
		source = file
		// Try to detect if it's JSONL by checking file extension
		isJSONL = strings.HasSuffix(filename, ".jsonl") || strings.HasSuffix(filename, ".ndjson")
	}

	p := &Parser{
		source:  source,
		isJSONL: isJSONL,
	}
	p.initReader()
	return p, nil
}

func (p *Parser) initReader() {
	if p.isJSONL {
		p.scanner = bufio.NewScanner(p.source)
		p.scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	} else {
		// Use bufio.Reader to allow peeking
		p.bufReader = bufio.NewReader(p.source)
		p.decoder = json.NewDecoder(p.bufReader)
		p.decoder.UseNumber()
	}
}

// Close closes the underlying source
func (p *Parser) Close() error {
	return p.source.Close()
}

// IsJSONL returns whether the parser is treating the file as JSONL
func (p *Parser) IsJSONL() bool {
	return p.isJSONL
}

// Read reads the next record. It returns io.EOF once the input is exhausted.
func (p *Parser) Read() (frame.OrderedMap, error) {
	if p.isJSONL {
		for p.scanner.Scan() {
			line := strings.TrimSpace(p.scanner.Text())
			if len(line) == 0 {
				continue
			}
			dec := json.NewDecoder(strings.NewReader(line))
			dec.UseNumber()
			v, err := frame.DecodeJSONValue(dec)
			if err != nil {
				return nil, errors.Wrap(err, "failed to parse JSONL record")
			}
			return toRecord(v), nil
		}
		if err := p.scanner.Err(); err != nil {
			return nil, errors.Wrap(err, "error reading JSONL input")
		}
		return nil, io.EOF
	}

	// Standard JSON Streaming Logic
	if !p.startArrayChecked {
		c, err := p.peekNonSpace()
		if err != nil {
			return nil, err
		}
		if c == '[' {
			if _, err := p.decoder.Token(); err != nil {
				return nil, errors.Wrap(err, "failed to read array start")
			}
			p.inArray = true
		}
		p.startArrayChecked = true
	}

	if p.inArray {
		if !p.decoder.More() {
			t, err := p.decoder.Token()
			if err != nil {
				return nil, errors.Wrap(err, "failed to read array end")
			}
			if delim, ok := t.(json.Delim); ok && delim == ']' {
				p.inArray = false
				return nil, io.EOF
			}
			return nil, errors.Errorf("expected array end, got %v", t)
		}
	}

	v, err := frame.DecodeJSONValue(p.decoder)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.Wrap(err, "failed to decode JSON record")
	}
	return toRecord(v), nil
}

func (p *Parser) peekNonSpace() (byte, error) {
	for {
		b, err := p.bufReader.Peek(1)
		if err != nil {
			return 0, err
		}
		c := b[0]
		if c == ' ' || c == '\n' || c == '\t' || c == '\r' {
			p.bufReader.ReadByte() // consume whitespace
			continue
		}
		return c, nil
	}
}

func toRecord(v interface{}) frame.OrderedMap {
	if om, ok := v.(frame.OrderedMap); ok {
		return om
	}
	return frame.OrderedMap{{Key: ValueKey, Val: v}}
}

// ReadAll reads all remaining records
func (p *Parser) ReadAll() ([]frame.OrderedMap, error) {
	var records []frame.OrderedMap
	for {
		rec, err := p.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

// ForEachRecord processes each record with the given function
func (p *Parser) ForEachRecord(fn func(frame.OrderedMap) error) error {
	for {
		rec, err := p.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

// LoadTable reads every record of filename into a table. Columns appear in the order
// their keys are first seen.
func LoadTable(filename string) (*frame.Table, error) {
	p, err := NewParser(filename)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	records, err := p.ReadAll()
	if err != nil {
		return nil, err
	}
	log.Debugf("loaded %d records (jsonl=%v)", len(records), p.IsJSONL())
	return frame.FromRecords(records)
}

// WriteJSONL writes records as JSON Lines
func WriteJSONL(w io.Writer, records []frame.OrderedMap, pretty bool) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			return err
		}
	}
	return nil
}
