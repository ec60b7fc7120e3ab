package record

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"kartei/internal/services"
)

// LoadResult carries the outcome of ingesting one CSV file. Rejected rows do
// not abort the load; they are reported alongside the accepted records so a
// run can proceed with what parsed cleanly.
type LoadResult struct {
	Records  []Record
	Rejected []*ValidationError
}

// LoadFile reads a source CSV for the given record type. The header row must
// name the type's intrinsic fields in order; trailing media columns
// (pre-populated audio or image references) are accepted when they match the
// type's declared media fields.
func LoadFile(path string, typ Type) (LoadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return LoadResult{}, services.Wrap(services.ErrConfiguration, "record", "open csv", fmt.Sprintf("cannot open %s", path), err)
	}
	defer file.Close()
	result, err := Load(file, typ)
	if err != nil {
		return LoadResult{}, services.Wrap(services.ErrValidation, "record", "load csv", fmt.Sprintf("parse %s", path), err)
	}
	return result, nil
}

// Load reads CSV rows for the given record type from r.
func Load(r io.Reader, typ Type) (LoadResult, error) {
	intrinsic := FieldNames(typ)
	if intrinsic == nil {
		return LoadResult{}, fmt.Errorf("unknown record type %q", typ)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return LoadResult{}, fmt.Errorf("empty file: missing header row")
	}
	if err != nil {
		return LoadResult{}, fmt.Errorf("read header: %w", err)
	}
	mediaColumns, err := checkHeader(typ, header, intrinsic)
	if err != nil {
		return LoadResult{}, err
	}

	expected := len(intrinsic) + len(mediaColumns)
	var result LoadResult
	for rowNum := 2; ; rowNum++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Rejected = append(result.Rejected, &ValidationError{
				Type: typ, Row: rowNum, Reason: fmt.Sprintf("malformed row: %v", err),
			})
			continue
		}
		if len(row) != expected {
			result.Rejected = append(result.Rejected, &ValidationError{
				Type: typ, Row: rowNum, Expected: expected, Actual: len(row),
			})
			continue
		}
		rec, err := New(typ, rowNum, row[:len(intrinsic)])
		if err != nil {
			var verr *ValidationError
			if vr, ok := err.(*ValidationError); ok {
				verr = vr
			} else {
				verr = &ValidationError{Type: typ, Row: rowNum, Reason: err.Error()}
			}
			result.Rejected = append(result.Rejected, verr)
			continue
		}
		if len(mediaColumns) > 0 {
			media := make(map[string]string, len(mediaColumns))
			for i, name := range mediaColumns {
				media[name] = row[len(intrinsic)+i]
			}
			if rec, err = rec.WithMedia(media); err != nil {
				result.Rejected = append(result.Rejected, err.(*ValidationError))
				continue
			}
		}
		result.Records = append(result.Records, rec)
	}
	return result, nil
}

// checkHeader validates the header row against the type schema and returns
// the names of any trailing media columns present in the file.
func checkHeader(typ Type, header, intrinsic []string) ([]string, error) {
	if len(header) < len(intrinsic) {
		return nil, fmt.Errorf("header has %d columns, type %s requires at least %d (%s)",
			len(header), typ, len(intrinsic), strings.Join(intrinsic, ", "))
	}
	for i, want := range intrinsic {
		if got := strings.TrimSpace(header[i]); !strings.EqualFold(got, want) {
			return nil, fmt.Errorf("header column %d is %q, expected %q", i+1, got, want)
		}
	}
	allowed := make(map[string]string)
	for _, name := range MediaFieldNames(typ) {
		allowed[strings.ToLower(name)] = name
	}
	var media []string
	for _, raw := range header[len(intrinsic):] {
		name, ok := allowed[strings.ToLower(strings.TrimSpace(raw))]
		if !ok {
			return nil, fmt.Errorf("header column %q is not an intrinsic or media field of type %s", strings.TrimSpace(raw), typ)
		}
		media = append(media, name)
	}
	return media, nil
}
