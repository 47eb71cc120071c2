// Package dictionary encodes, decodes and maps the binary dictionary files
// searched by wordfuzz.
//
// Both formats start with a single header byte holding the length of the
// longest word in the file. FormatFixed stores every word in a zero padded
// record of MaxWordLength+1 bytes, giving random access by index.
// FormatVariable stores [length][bytes] records in one or more runs, each
// closed by a zero length marker. Runs are laid out in equal windows so a
// reader can jump straight to run i.
package dictionary

import (
	"fmt"
	"strings"
)

// FileFormat identifies one of the on-disk dictionary encodings.
type FileFormat int

const (
	FormatAuto     FileFormat = iota // Detect from file structure
	FormatFixed                      // Zero padded fixed width records
	FormatVariable                   // Length prefixed records in runs
)

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Name        string
	Description string
	MinSize     int // Minimum valid file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatFixed: {
		Format:      FormatFixed,
		Name:        "fixed",
		Description: "Fixed Width Dictionary",
		MinSize:     1, // header only, zero records
	},
	FormatVariable: {
		Format:      FormatVariable,
		Name:        "variable",
		Description: "Length Prefixed Dictionary",
		MinSize:     2, // header + terminator of a single empty run
	},
}

// String returns the flag/config spelling of the format.
func (f FileFormat) String() string {
	if f == FormatAuto {
		return "auto"
	}
	if info, ok := supportedFormats[f]; ok {
		return info.Name
	}
	return fmt.Sprintf("FileFormat(%d)", int(f))
}

// ParseFormat maps "auto", "fixed" or "variable" (and the short forms "fw",
// "var") to a FileFormat.
func ParseFormat(s string) (FileFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "fixed", "fw":
		return FormatFixed, nil
	case "variable", "var":
		return FormatVariable, nil
	}
	return FormatAuto, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// ListSupportedFormats returns all concrete formats in a stable order
func ListSupportedFormats() []FormatInfo {
	return []FormatInfo{supportedFormats[FormatFixed], supportedFormats[FormatVariable]}
}

// validateHeader checks the single header byte shared by both formats.
func validateHeader(data []byte, format FileFormat) error {
	info := supportedFormats[format]
	if len(data) < info.MinSize {
		return fmt.Errorf("%w: %d bytes is too small for %s (minimum: %d bytes)",
			ErrMalformedHeader, len(data), info.Description, info.MinSize)
	}
	if data[0] == 0 {
		return fmt.Errorf("%w: max word length is zero", ErrMalformedHeader)
	}
	return nil
}

// validateFixed checks that the body splits into whole records and that every
// record is a run of non-zero word bytes followed only by zero padding.
func validateFixed(data []byte) error {
	if err := validateHeader(data, FormatFixed); err != nil {
		return err
	}
	stride := int(data[0]) + 1
	body := data[1:]
	if len(body)%stride != 0 {
		return fmt.Errorf("%w: body of %d bytes is not a multiple of record size %d",
			ErrCorruptRecord, len(body), stride)
	}
	for off := 0; off < len(body); off += stride {
		rec := body[off : off+stride]
		padded := false
		for _, c := range rec {
			if c == 0 {
				padded = true
			} else if padded {
				return fmt.Errorf("%w: record %d has data after its terminator", ErrCorruptRecord, off/stride)
			}
		}
		if rec[stride-1] != 0 {
			return fmt.Errorf("%w: record %d is not terminated", ErrCorruptRecord, off/stride)
		}
	}
	return nil
}

// detectFormat validates data against each concrete format, fixed first.
func detectFormat(data []byte) (FileFormat, error) {
	if err := validateFixed(data); err == nil {
		return FormatFixed, nil
	}
	if err := validateHeader(data, FormatVariable); err == nil {
		if _, err := detectRuns(data); err == nil {
			return FormatVariable, nil
		}
	}
	return FormatAuto, fmt.Errorf("%w: data matches neither fixed nor variable layout", ErrUnknownFormat)
}
