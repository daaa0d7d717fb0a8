package config

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Schema reflects the JSON schema of the configuration file format.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
	}
	schema := reflector.Reflect(new(Config))
	schema.Title = "Elementals Board Configuration"
	schema.Description = "Board size, pacing, stall policy and generator case table."
	requireNonNegativeWeight(schema)
	return schema
}

// The reflector drops a zero minimum from tags, so the weight bound is set
// directly on the reflected Case definition.
func requireNonNegativeWeight(schema *jsonschema.Schema) {
	def, ok := schema.Definitions["Case"]
	if !ok || def.Properties == nil {
		return
	}
	prop, ok := def.Properties.Get("weight")
	if !ok {
		return
	}
	weight, ok := prop.(*jsonschema.Schema)
	if !ok {
		return
	}
	if weight.Extras == nil {
		weight.Extras = map[string]interface{}{}
	}
	weight.Extras["minimum"] = 0
}

// SchemaJSON renders Schema as indented JSON with a trailing newline.
func SchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return append(data, '\n'), nil
}
