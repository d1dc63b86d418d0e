package filestore

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/della/internal/domain"
	"gopkg.in/yaml.v3"
)

// Format names a task file encoding.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath derives the format from a file extension.
// A missing extension means TOML.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case "", ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// taskDoc is the serialized form of one task and its subtree.
type taskDoc struct {
	Content  string    `toml:"content" yaml:"content" json:"content"`
	DueDate  string    `toml:"due_date" yaml:"due_date" json:"due_date"`
	UniqueID string    `toml:"unique_id,omitempty" yaml:"unique_id,omitempty" json:"unique_id,omitempty"`
	Subtasks []taskDoc `toml:"subtasks,omitempty" yaml:"subtasks,omitempty" json:"subtasks,omitempty"`
}

type metaDoc struct {
	Timestamp int64 `toml:"timestamp" yaml:"timestamp" json:"timestamp"`
	Version   int   `toml:"version" yaml:"version" json:"version"`
}

// fileDoc is the top-level document: the root task plus the meta header.
type fileDoc struct {
	Content  string    `toml:"content" yaml:"content" json:"content"`
	DueDate  string    `toml:"due_date" yaml:"due_date" json:"due_date"`
	UniqueID string    `toml:"unique_id,omitempty" yaml:"unique_id,omitempty" json:"unique_id,omitempty"`
	Meta     metaDoc   `toml:"meta" yaml:"meta" json:"meta"`
	Subtasks []taskDoc `toml:"subtasks,omitempty" yaml:"subtasks,omitempty" json:"subtasks,omitempty"`
}

// Ensure Codec implements domain.TaskCodec.
var _ domain.TaskCodec = (*Codec)(nil)

// Codec encodes trees in one Format.
type Codec struct {
	format Format
}

// NewCodec creates a Codec for format.
func NewCodec(format Format) (*Codec, error) {
	switch format {
	case FormatTOML, FormatYAML, FormatJSON:
		return &Codec{format: format}, nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}
}

// Format returns the codec's format.
func (c *Codec) Format() Format {
	return c.format
}

// Encode serializes tree with meta.
func (c *Codec) Encode(tree *domain.Tree, meta domain.Meta) ([]byte, error) {
	root := tree.Root()
	doc := fileDoc{
		Content:  root.Content(),
		DueDate:  root.Due().String(),
		UniqueID: root.UniqueID(),
		Meta:     metaDoc{Timestamp: meta.Timestamp, Version: meta.Version},
		Subtasks: encodeChildren(root),
	}

	var (
		data []byte
		err  error
	)
	switch c.format {
	case FormatYAML:
		data, err = yaml.Marshal(&doc)
	case FormatJSON:
		data, err = json.MarshalIndent(&doc, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	default:
		data, err = toml.Marshal(&doc)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.format, err)
	}
	return data, nil
}

func encodeChildren(t *domain.Task) []taskDoc {
	children := t.Children()
	if len(children) == 0 {
		return nil
	}
	docs := make([]taskDoc, len(children))
	for i, c := range children {
		docs[i] = taskDoc{
			Content:  c.Content(),
			DueDate:  c.Due().String(),
			UniqueID: c.UniqueID(),
			Subtasks: encodeChildren(c),
		}
	}
	return docs
}

// Decode rebuilds a tree from data. Duplicate unique ids are rejected.
func (c *Codec) Decode(data []byte) (*domain.Tree, domain.Meta, error) {
	var doc fileDoc
	var err error
	switch c.format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	default:
		err = toml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, domain.Meta{}, fmt.Errorf("decode %s: %w", c.format, err)
	}

	tree := domain.NewTree()
	root := tree.Root()
	if doc.DueDate != "" {
		due, err := domain.ParseDate(doc.DueDate)
		if err != nil {
			return nil, domain.Meta{}, fmt.Errorf("decode root: %w", err)
		}
		_ = tree.SetDue(root, due)
	}
	if doc.UniqueID != "" {
		if err := tree.AssignID(root, doc.UniqueID); err != nil {
			return nil, domain.Meta{}, fmt.Errorf("decode root: %w", err)
		}
	}
	if err := decodeChildren(tree, root, doc.Subtasks, "subtasks"); err != nil {
		return nil, domain.Meta{}, err
	}

	return tree, domain.Meta{Timestamp: doc.Meta.Timestamp, Version: doc.Meta.Version}, nil
}

func decodeChildren(tree *domain.Tree, parent *domain.Task, docs []taskDoc, where string) error {
	for i, d := range docs {
		loc := fmt.Sprintf("%s[%d]", where, i)
		due, err := domain.ParseDate(d.DueDate)
		if err != nil {
			return fmt.Errorf("decode %s: %w", loc, err)
		}
		task, err := tree.AddTask(d.Content, parent, due)
		if err != nil {
			return fmt.Errorf("decode %s: %w", loc, err)
		}
		if d.UniqueID != "" {
			if err := tree.AssignID(task, d.UniqueID); err != nil {
				return fmt.Errorf("decode %s: %w", loc, err)
			}
		}
		if err := decodeChildren(tree, task, d.Subtasks, loc+".subtasks"); err != nil {
			return err
		}
	}
	return nil
}
