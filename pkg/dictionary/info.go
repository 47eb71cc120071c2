package dictionary

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// Info summarizes a mapped dictionary.
type Info struct {
	Format        string `json:"format"`
	Description   string `json:"description"`
	MaxWordLength int    `json:"max_word_length"`
	Records       int    `json:"records"`
	Runs          int    `json:"runs,omitempty"`
	Size          int    `json:"size"`
	Fingerprint   string `json:"fingerprint"`
}

// Info reports the dictionary's layout and a 16 hex character xxh3
// fingerprint of its bytes, handy for checking two hosts carry the same file.
func (d *Dictionary) Info() Info {
	desc := ""
	if fi, ok := GetFormatInfo(d.format); ok {
		desc = fi.Description
	}
	return Info{
		Format:        d.format.String(),
		Description:   desc,
		MaxWordLength: d.maxLen,
		Records:       d.records,
		Runs:          d.runs,
		Size:          len(d.data),
		Fingerprint:   fmt.Sprintf("%016x", xxh3.Hash(d.data)),
	}
}
