package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/julianstephens/dayglow/internal/storage"
)

type ImportCmd struct {
	File string `arg:"" type:"existingfile" help:"JSON object of browser local storage keys and values."`
}

func (c *ImportCmd) Run(ctx *Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	values, err := decodeLegacyExport(data)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}

	res, err := storage.ImportLegacy(ctx.Store, values)
	if err != nil {
		return fmt.Errorf("import failed after %d key(s): %w", res.Imported, err)
	}
	ctx.printf("%s Imported %d key(s)\n", okStyle.Render("✓"), res.Imported)
	if len(res.Skipped) > 0 {
		slices.Sort(res.Skipped)
		ctx.printf("Skipped unknown keys: %s\n", strings.Join(res.Skipped, ", "))
	}
	return nil
}

// decodeLegacyExport flattens a JSON object into strings. String values are
// kept as-is; numbers, booleans and nested values keep their JSON text.
func decodeLegacyExport(data []byte) (map[string]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out[k] = s
			continue
		}
		out[k] = string(bytes.TrimSpace(v))
	}
	return out, nil
}
