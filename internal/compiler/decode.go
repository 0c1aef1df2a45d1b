package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/biancatoto3/blockstep/pkg/domain"
)

// Workspace files use the Blockly serialization shape: a top-level "blocks"
// object with a languageVersion and the block forest, where nested blocks
// are wrapped in {"block": ...} containers. The YAML format carries the same
// structure.

type workspaceFile struct {
	Blocks blockForest `json:"blocks" mapstructure:"blocks"`
}

type blockForest struct {
	LanguageVersion int          `json:"languageVersion" mapstructure:"languageVersion"`
	Blocks          []*blockNode `json:"blocks" mapstructure:"blocks"`
}

type blockNode struct {
	Type   string                   `json:"type" mapstructure:"type"`
	ID     string                   `json:"id" mapstructure:"id"`
	Fields map[string]any           `json:"fields" mapstructure:"fields"`
	Inputs map[string]*blockWrapper `json:"inputs" mapstructure:"inputs"`
	Next   *blockWrapper            `json:"next" mapstructure:"next"`
}

// blockWrapper mirrors Blockly's connection container. Editors serialize
// shadow blocks for unfilled slots; we accept them in place of real blocks.
type blockWrapper struct {
	Block  *blockNode `json:"block" mapstructure:"block"`
	Shadow *blockNode `json:"shadow" mapstructure:"shadow"`
}

func (w *blockWrapper) resolve() *blockNode {
	if w == nil {
		return nil
	}
	if w.Block != nil {
		return w.Block
	}
	return w.Shadow
}

func (n *blockNode) toDomain() *domain.Block {
	if n == nil {
		return nil
	}
	b := &domain.Block{
		Type:   n.Type,
		ID:     n.ID,
		Fields: n.Fields,
		Next:   n.Next.resolve().toDomain(),
	}
	if len(n.Inputs) > 0 {
		b.Inputs = make(map[string]*domain.Block, len(n.Inputs))
		for name, in := range n.Inputs {
			b.Inputs[name] = in.resolve().toDomain()
		}
	}
	return b
}

func (f workspaceFile) toDomain() *domain.Workspace {
	ws := &domain.Workspace{}
	for _, n := range f.Blocks.Blocks {
		if b := n.toDomain(); b != nil {
			ws.Blocks = append(ws.Blocks, b)
		}
	}
	return ws
}

// DecodeJSON parses a Blockly workspace JSON document.
func DecodeJSON(data []byte) (*domain.Workspace, error) {
	var file workspaceFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse workspace JSON: %w", err)
	}
	return file.toDomain(), nil
}

// DecodeYAML parses the YAML rendition of the same structure.
func DecodeYAML(data []byte) (*domain.Workspace, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse workspace YAML: %w", err)
	}
	var file workspaceFile
	if err := mapstructure.Decode(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to decode workspace YAML: %w", err)
	}
	return file.toDomain(), nil
}

// Decode sniffs the format: documents starting with '{' are JSON, everything
// else is treated as YAML.
func Decode(data []byte) (*domain.Workspace, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return DecodeJSON(data)
	}
	return DecodeYAML(data)
}

// DecodeFile reads and decodes a workspace file, choosing the format by
// extension and falling back to sniffing.
func DecodeFile(path string) (*domain.Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DecodeJSON(data)
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return Decode(data)
	}
}
