// Package api embeds the OpenAPI specification served at /api/docs.
package api

import _ "embed"

//go:embed openapi.yaml
var OpenAPISpec []byte
