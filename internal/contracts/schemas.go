package contracts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"listing-service/schemas"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	kindEvent   = "Event"
	kindDataset = "Dataset"
)

var (
	loadOnce        sync.Once
	loadErr         error
	compiledSchemas map[string]*jsonschema.Schema
)

// Load компилирует все встроенные схемы. Повторные вызовы возвращают результат первого.
func Load() error {
	loadOnce.Do(func() {
		compiledSchemas, loadErr = compileAll(schemas.SchemasFS)
	})
	return loadErr
}

func compileAll(fsys fs.FS) (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string
	for _, root := range []string{"events", "datasets"} {
		err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".json") {
				return nil
			}
			file, err := fsys.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()
			// все схемы добавляются до компиляции, чтобы работали $ref между ними
			if err := compiler.AddResource(path, file); err != nil {
				return fmt.Errorf("failed to add schema resource %s: %w", path, err)
			}
			paths = append(paths, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking schemas in %s: %w", root, err)
		}
	}

	compiled := make(map[string]*jsonschema.Schema, len(paths))
	for _, path := range paths {
		schema, err := compiler.Compile(path)
		if err != nil {
			return nil, fmt.Errorf("could not compile schema %s: %w", path, err)
		}
		key := KeyFromPath(path)
		if key == "" {
			return nil, fmt.Errorf("schema path %s does not match <kind>/<name>/v<N>.json", path)
		}
		compiled[key] = schema
	}
	return compiled, nil
}

// KeyFromPath переводит "events/user-activity/v1.json" в "UserActivityEvent/1.0.0",
// а "datasets/property-catalog/v1.json" в "PropertyCatalogDataset/1.0.0".
func KeyFromPath(path string) string {
	parts := strings.Split(strings.TrimSuffix(path, ".json"), "/")
	if len(parts) != 3 || !strings.HasPrefix(parts[2], "v") {
		return ""
	}

	var suffix string
	switch parts[0] {
	case "events":
		suffix = kindEvent
	case "datasets":
		suffix = kindDataset
	default:
		return ""
	}

	caser := cases.Title(language.English)
	var name strings.Builder
	for _, p := range strings.Split(parts[1], "-") {
		name.WriteString(caser.String(p))
	}
	name.WriteString(suffix)

	version := strings.TrimPrefix(parts[2], "v") + ".0.0"
	return name.String() + "/" + version
}

func validate(key string, body []byte) error {
	if err := Load(); err != nil {
		return err
	}
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema '%s' not found", key)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("body is not a valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}

// ValidateEvent проверяет тело события по схеме eventType/eventVersion
// (например "UserActivityEvent", "1.0.0").
func ValidateEvent(eventType, eventVersion string, body []byte) error {
	return validate(eventType+"/"+eventVersion, body)
}

// ValidateDataset проверяет набор данных (например "PropertyCatalogDataset", "1.0.0").
func ValidateDataset(name, version string, body []byte) error {
	return validate(name+"/"+version, body)
}
