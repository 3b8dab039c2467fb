// Package snapshot serializes finished graphs with msgpack and caches them on
// disk by content digest.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"graphir/internal/ir"
)

// SchemaVersion is bumped whenever Payload changes shape.
const SchemaVersion uint16 = 1

// Digest is the SHA-256 of an encoded payload.
type Digest [sha256.Size]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports whether d was never set.
func (d Digest) IsZero() bool { return d == Digest{} }

// Payload is the serialized form of a graph. Field order is part of the
// format: two graphs built by the same operations encode to the same bytes.
type Payload struct {
	Schema uint16
	Root   ir.BlockID
	Nodes  []ir.Node
	Vars   []ir.Variable
	Blocks []ir.Block
	Funcs  []ir.Function
}

// FromGraph copies the tables of g into a payload.
func FromGraph(g *ir.Graph) (*Payload, error) {
	if err := ir.Validate(g); err != nil {
		return nil, fmt.Errorf("snapshot of invalid graph: %w", err)
	}
	p := &Payload{
		Schema: SchemaVersion,
		Root:   g.Root,
		Nodes:  g.Nodes,
		Vars:   make([]ir.Variable, len(g.Vars)),
		Blocks: make([]ir.Block, len(g.Blocks)),
		Funcs:  make([]ir.Function, len(g.Funcs)),
	}
	for i, v := range g.Vars {
		p.Vars[i] = *v
	}
	for i, b := range g.Blocks {
		p.Blocks[i] = *b
	}
	for i, f := range g.Funcs {
		p.Funcs[i] = *f
	}
	return p, nil
}

// Graph rebuilds a read-only graph that can be dumped and evaluated.
func (p *Payload) Graph() (*ir.Graph, error) {
	if p.Schema != SchemaVersion {
		return nil, fmt.Errorf("snapshot schema %d, want %d", p.Schema, SchemaVersion)
	}
	vars := make([]*ir.Variable, len(p.Vars))
	for i := range p.Vars {
		vars[i] = &p.Vars[i]
	}
	blocks := make([]*ir.Block, len(p.Blocks))
	for i := range p.Blocks {
		blocks[i] = &p.Blocks[i]
	}
	funcs := make([]*ir.Function, len(p.Funcs))
	for i := range p.Funcs {
		funcs[i] = &p.Funcs[i]
	}
	g, err := ir.Assemble(p.Nodes, vars, blocks, funcs, p.Root)
	if err != nil {
		return nil, fmt.Errorf("snapshot does not hold a valid graph: %w", err)
	}
	return g, nil
}

// Encode serializes g.
func Encode(g *ir.Graph) ([]byte, error) {
	p, err := FromGraph(g)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(p)
}

// Decode parses bytes produced by Encode.
func Decode(data []byte) (*Payload, error) {
	var p Payload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &p, nil
}

// DigestOf encodes g and hashes the result.
func DigestOf(g *ir.Graph) (Digest, []byte, error) {
	data, err := Encode(g)
	if err != nil {
		return Digest{}, nil, err
	}
	return sha256.Sum256(data), data, nil
}
