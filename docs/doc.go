// Package docs holds the OpenAPI annotations for the mapscrape HTTP API.
//
// mapscrape API
//
//	@title			mapscrape API
//	@version		1.0
//	@description	Business list search backed by Gemini with Google Maps grounding, with CSV export.
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http
package docs

//go:generate swag init -g ../cmd/mapscrape/serve.go -o ./swagger --parseDependency --parseInternal
