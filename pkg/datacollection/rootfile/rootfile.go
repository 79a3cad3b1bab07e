// Package rootfile encodes and decodes the JSON root document that describes
// one saved cycle: its time, domain count, and where the mesh and field files
// of every domain live.
//
// The layout is fixed for compatibility with existing readers:
//
//	{
//	  "dsets": {
//	    "main": {
//	      "cycle": 3,
//	      "domains": 4,
//	      "fields": {
//	        "pressure": {
//	          "path": "run_000003/pressure.%06d",
//	          "tags": {"assoc": "nodes", "comps": "1"}
//	        }
//	      },
//	      "mesh": {
//	        "path": "run_000003/mesh.%06d",
//	        "tags": {"max_lods": "32", "spatial_dim": "2", "topo_dim": "2"}
//	      },
//	      "time": 0.25
//	    }
//	  }
//	}
//
// Tag values are decimal strings, cycle/time/domains are JSON numbers, and
// "fields" is left out entirely when there are no fields.
package rootfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Extension is the file extension of root documents, without the dot.
const Extension = "mfem_root"

// Tag keys used in the document.
const (
	TagSpatialDim  = "spatial_dim"
	TagTopoDim     = "topo_dim"
	TagMaxLODs     = "max_lods"
	TagAssociation = "assoc"
	TagComponents  = "comps"
)

// CycleSeparator joins a collection name and its padded cycle number.
const CycleSeparator = "_"

// ErrSchema indicates a document that is valid JSON but not a root document.
var ErrSchema = errors.New("invalid root document")

// Document is the decoded content of a root file.
type Document struct {
	Cycle   int
	Time    float64
	Domains int
	Mesh    MeshEntry
	Fields  map[string]FieldEntry
}

// MeshEntry locates the per-domain mesh files.
type MeshEntry struct {
	Path       string
	SpatialDim int
	TopoDim    int
	MaxLODs    int
}

// FieldEntry locates the per-domain files of one field.
type FieldEntry struct {
	Path        string
	Association string
	Components  int
}

// Name recovers the collection name from the mesh path.
func (d Document) Name() (string, error) {
	return NameFromPath(d.Mesh.Path)
}

type wireFile struct {
	Dsets *wireDsets `json:"dsets"`
}

type wireDsets struct {
	Main *wireMain `json:"main"`
}

// Struct fields are in key order so output matches a sorted-key writer.
type wireMain struct {
	Cycle   *float64             `json:"cycle"`
	Domains *float64             `json:"domains"`
	Fields  map[string]wireEntry `json:"fields,omitempty"`
	Mesh    *wireEntry           `json:"mesh"`
	Time    *float64             `json:"time"`
}

type wireEntry struct {
	Path *string           `json:"path"`
	Tags map[string]string `json:"tags"`
}

// Encode renders doc as an indented root document.
func Encode(doc Document) ([]byte, error) {
	cycle := float64(doc.Cycle)
	domains := float64(doc.Domains)
	t := doc.Time
	meshPath := doc.Mesh.Path

	main := &wireMain{
		Cycle:   &cycle,
		Domains: &domains,
		Time:    &t,
		Mesh: &wireEntry{
			Path: &meshPath,
			Tags: map[string]string{
				TagSpatialDim: strconv.Itoa(doc.Mesh.SpatialDim),
				TagTopoDim:    strconv.Itoa(doc.Mesh.TopoDim),
				TagMaxLODs:    strconv.Itoa(doc.Mesh.MaxLODs),
			},
		},
	}

	if len(doc.Fields) > 0 {
		main.Fields = make(map[string]wireEntry, len(doc.Fields))
		for name, f := range doc.Fields {
			path := f.Path
			main.Fields[name] = wireEntry{
				Path: &path,
				Tags: map[string]string{
					TagAssociation: f.Association,
					TagComponents:  strconv.Itoa(f.Components),
				},
			}
		}
	}

	data, err := json.MarshalIndent(wireFile{Dsets: &wireDsets{Main: main}}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode root document: %w", err)
	}
	return data, nil
}

// Decode parses a root document. A missing or empty "fields" object both
// decode to a document without fields.
func Decode(data []byte) (Document, error) {
	var wf wireFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return Document{}, fmt.Errorf("parse root document: %w", err)
	}
	if wf.Dsets == nil || wf.Dsets.Main == nil {
		return Document{}, fmt.Errorf("%w: missing dsets.main", ErrSchema)
	}
	m := wf.Dsets.Main

	var doc Document
	var err error
	if doc.Cycle, err = integer("cycle", m.Cycle); err != nil {
		return Document{}, err
	}
	if doc.Domains, err = integer("domains", m.Domains); err != nil {
		return Document{}, err
	}
	if m.Time == nil {
		return Document{}, fmt.Errorf("%w: missing time", ErrSchema)
	}
	doc.Time = *m.Time

	if m.Mesh == nil || m.Mesh.Path == nil {
		return Document{}, fmt.Errorf("%w: missing mesh path", ErrSchema)
	}
	doc.Mesh.Path = *m.Mesh.Path
	if doc.Mesh.SpatialDim, err = intTag("mesh", m.Mesh.Tags, TagSpatialDim); err != nil {
		return Document{}, err
	}
	if doc.Mesh.TopoDim, err = intTag("mesh", m.Mesh.Tags, TagTopoDim); err != nil {
		return Document{}, err
	}
	if doc.Mesh.MaxLODs, err = intTag("mesh", m.Mesh.Tags, TagMaxLODs); err != nil {
		return Document{}, err
	}

	if len(m.Fields) > 0 {
		doc.Fields = make(map[string]FieldEntry, len(m.Fields))
		for name, f := range m.Fields {
			entry := FieldEntry{}
			if f.Path != nil {
				entry.Path = *f.Path
			}
			assoc, ok := f.Tags[TagAssociation]
			if !ok {
				return Document{}, fmt.Errorf("%w: field %q missing tag %s", ErrSchema, name, TagAssociation)
			}
			entry.Association = assoc
			if entry.Components, err = intTag("field "+strconv.Quote(name), f.Tags, TagComponents); err != nil {
				return Document{}, err
			}
			doc.Fields[name] = entry
		}
	}

	return doc, nil
}

// FileTemplate returns "dir/base.%0Nd", the per-domain file pattern stored
// in a root document.
func FileTemplate(dir, base string, padDigits int) string {
	return dir + "/" + base + ".%0" + strconv.Itoa(padDigits) + "d"
}

// NameFromPath extracts the collection name from a path template such as
// "run_000003/mesh.%06d". The name is the leading directory cut at its last
// cycle separator, so names that themselves contain "_" survive.
func NameFromPath(path string) (string, error) {
	dir, _, _ := strings.Cut(path, "/")
	i := strings.LastIndex(dir, CycleSeparator)
	if i < 0 {
		return "", fmt.Errorf("%w: mesh path %q has no cycle separator", ErrSchema, path)
	}
	return dir[:i], nil
}

func integer(key string, v *float64) (int, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: missing %s", ErrSchema, key)
	}
	if *v != math.Trunc(*v) {
		return 0, fmt.Errorf("%w: %s is not an integer: %v", ErrSchema, key, *v)
	}
	return int(*v), nil
}

func intTag(owner string, tags map[string]string, key string) (int, error) {
	s, ok := tags[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s missing tag %s", ErrSchema, owner, key)
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %s tag %s: %v", ErrSchema, owner, key, err)
	}
	return n, nil
}
