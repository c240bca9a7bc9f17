// Package openapi embeds the API specification served by the HTTP layer.
package openapi

import _ "embed"

//go:embed openapi.yaml
var Spec []byte
