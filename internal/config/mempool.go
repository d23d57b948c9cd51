package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mitchellh/mapstructure"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/quantum-warriors/uservalidator/pkg/mempool"
)

// mempoolConfigSchema constrains the mempool allowlist document to a list of
// {id, allowlist} objects, the same defensive load-time validation the
// teacher reserves for its reputation/override JSON payloads before
// trusting their shape.
const mempoolConfigSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "allowlist"],
		"properties": {
			"id": {"type": "string", "pattern": "^0x[0-9a-fA-F]{64}$"},
			"allowlist": {"type": "array", "items": {"type": "string"}}
		}
	}
}`

type mempoolEntry struct {
	ID        string   `mapstructure:"id"`
	Allowlist []string `mapstructure:"allowlist"`
}

// LoadMempoolDirectory reads and validates the mempool allowlist document at
// path, returning the assembled mempool.Directory. An empty path returns an
// empty directory rather than an error, since a deployment may legitimately
// run with no configured mempools.
func LoadMempoolDirectory(path string) (mempool.Directory, error) {
	if path == "" {
		return mempool.Directory{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read mempool config %s: %w", path, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("mempool-config.json", strings.NewReader(mempoolConfigSchema)); err != nil {
		return nil, fmt.Errorf("config: compile mempool schema: %w", err)
	}
	schema, err := compiler.Compile("mempool-config.json")
	if err != nil {
		return nil, fmt.Errorf("config: compile mempool schema: %w", err)
	}

	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("config: parse mempool config %s: %w", path, err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("config: mempool config %s failed schema validation: %w", path, err)
	}

	var entries []mempoolEntry
	if err := mapstructure.Decode(raw, &entries); err != nil {
		return nil, fmt.Errorf("config: decode mempool config %s: %w", path, err)
	}

	dir := make(mempool.Directory, len(entries))
	for _, entry := range entries {
		id := common.HexToHash(entry.ID)
		dir[id] = mempool.NewConfig(id, entry.Allowlist)
	}
	return dir, nil
}
