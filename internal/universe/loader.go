package universe

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/physics"
)

var ErrMalformedUniverse = errors.New("universe: malformed universe file")

const fieldsPerRecord = 8

// number is a float64 column written in shortest 'g' form.
type number float64

func (n number) MarshalCSV() (string, error) {
	return strconv.FormatFloat(float64(n), 'g', -1, 64), nil
}

func (n *number) UnmarshalCSV(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = number(v)
	return nil
}

// record is one tab-separated body line: mass, radius, position, velocity.
type record struct {
	Mass   number `csv:"mass"`
	Radius number `csv:"radius"`
	PosX   number `csv:"pos_x"`
	PosY   number `csv:"pos_y"`
	PosZ   number `csv:"pos_z"`
	VelX   number `csv:"vel_x"`
	VelY   number `csv:"vel_y"`
	VelZ   number `csv:"vel_z"`
}

func (r *record) body() *physics.Body {
	return physics.NewBody(
		float64(r.Mass),
		float64(r.Radius),
		dynamo.NewVector3(float64(r.PosX), float64(r.PosY), float64(r.PosZ)),
		dynamo.NewVector3(float64(r.VelX), float64(r.VelY), float64(r.VelZ)),
	)
}

func toRecord(b *physics.Body) *record {
	return &record{
		Mass:   number(b.Mass),
		Radius: number(b.Radius),
		PosX:   number(b.Position.X),
		PosY:   number(b.Position.Y),
		PosZ:   number(b.Position.Z),
		VelX:   number(b.Velocity.X),
		VelY:   number(b.Velocity.Y),
		VelZ:   number(b.Velocity.Z),
	}
}

// Load reads a universe file from disk.
func Load(path string) ([]*physics.Body, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening universe: %w", err)
	}
	defer f.Close()

	bodies, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bodies, nil
}

// Parse reads a body count on the first line, an optional header line, and
// exactly that many tab-separated records. Any deviation fails the whole
// parse; no partial universe is returned.
func Parse(r io.Reader) ([]*physics.Body, error) {
	br := bufio.NewReader(r)
	first, err := br.ReadString('\n')
	if err != nil && (err != io.EOF || first == "") {
		return nil, fmt.Errorf("%w: missing body count", ErrMalformedUniverse)
	}
	count, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil || count < 0 {
		return nil, fmt.Errorf("%w: invalid body count %q", ErrMalformedUniverse, strings.TrimSpace(first))
	}

	cr := csv.NewReader(br)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1

	in := &recordReader{r: cr}
	if err := in.skipHeader(); err != nil {
		return nil, err
	}

	var records []*record
	err = gocsv.UnmarshalCSVWithoutHeaders(in, &records)
	switch {
	case err == nil, errors.Is(err, gocsv.ErrEmptyCSVFile):
	case errors.Is(err, ErrMalformedUniverse):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %w", ErrMalformedUniverse, err)
	}
	if len(records) != count {
		return nil, fmt.Errorf("%w: header declares %d bodies, found %d", ErrMalformedUniverse, count, len(records))
	}

	bodies := make([]*physics.Body, len(records))
	for i, rec := range records {
		bodies[i] = rec.body()
	}
	return bodies, nil
}

// recordReader feeds csv rows to gocsv, holding back a peeked first row.
// Rows are checked here so errors carry the line number of the file, which
// starts with the count line.
type recordReader struct {
	r          *csv.Reader
	peeked     []string
	peekedLine int
}

// skipHeader consumes the first row if it is a header: a row none of whose
// fields parse as a number.
func (rr *recordReader) skipHeader() error {
	row, line, err := rr.next()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	for _, field := range row {
		if _, err := strconv.ParseFloat(strings.TrimSpace(field), 64); err == nil {
			rr.peeked, rr.peekedLine = row, line
			return nil
		}
	}
	return nil
}

func (rr *recordReader) next() ([]string, int, error) {
	row, err := rr.r.Read()
	if err == io.EOF {
		return nil, 0, err
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrMalformedUniverse, err)
	}
	line, _ := rr.r.FieldPos(0)
	return row, line + 1, nil
}

func (rr *recordReader) Read() ([]string, error) {
	row, line := rr.peeked, rr.peekedLine
	if row != nil {
		rr.peeked = nil
	} else {
		var err error
		if row, line, err = rr.next(); err != nil {
			return nil, err
		}
	}
	if len(row) != fieldsPerRecord {
		return nil, fmt.Errorf("%w: line %d has %d fields, want %d", ErrMalformedUniverse, line, len(row), fieldsPerRecord)
	}
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
		if _, err := strconv.ParseFloat(row[i], 64); err != nil {
			return nil, fmt.Errorf("%w: line %d field %d: invalid number %q", ErrMalformedUniverse, line, i+1, row[i])
		}
	}
	return row, nil
}

func (rr *recordReader) ReadAll() ([][]string, error) {
	var rows [][]string
	for {
		row, err := rr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}
