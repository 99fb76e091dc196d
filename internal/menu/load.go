package menu

import (
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

const catalogSchema = `{
  "type": "object",
  "required": ["info", "categories", "services"],
  "properties": {
    "info": {
      "type": "object",
      "required": ["name", "phone"],
      "properties": {
        "name":  {"type": "string", "minLength": 1},
        "phone": {"type": "string", "minLength": 1}
      }
    },
    "categories": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "items"],
        "properties": {
          "name":  {"type": "string", "minLength": 1},
          "items": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["name", "price_cents"],
              "properties": {
                "name":        {"type": "string", "minLength": 1},
                "price_cents": {"type": "integer", "minimum": 0}
              }
            }
          }
        }
      }
    },
    "combos": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["name", "price_cents"],
        "properties": {
          "name":        {"type": "string", "minLength": 1},
          "price_cents": {"type": "integer", "minimum": 0}
        }
      }
    },
    "services": {
      "type": "object",
      "properties": {
        "delivery": {
          "type": "object",
          "properties": {
            "fee_cents":        {"type": "integer", "minimum": 0},
            "minimum_cents":    {"type": "integer", "minimum": 0},
            "free_above_cents": {"type": "integer", "minimum": 0}
          }
        },
        "takeaway": {
          "type": "object",
          "properties": {
            "discount_percent": {"type": "integer", "minimum": 0, "maximum": 100}
          }
        }
      }
    }
  }
}`

// ValidationError lists every schema violation of a catalog.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "invalid menu: " + strings.Join(e.Errors, "; ")
}

// Load reads a YAML catalog from path and validates it.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a YAML catalog and validates it.
func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	if c.Currency == "" {
		c.Currency = "EUR"
	}
	return &c, nil
}

// Validate checks a catalog against the catalog JSON schema.
func Validate(c *Catalog) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(catalogSchema),
		gojsonschema.NewGoLoader(c),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return &ValidationError{Errors: msgs}
}
