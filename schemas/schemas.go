package schemas

import "embed"

// SchemasFS - JSON-схемы событий (events/) и наборов данных (datasets/).
//
//go:embed events datasets
var SchemasFS embed.FS
