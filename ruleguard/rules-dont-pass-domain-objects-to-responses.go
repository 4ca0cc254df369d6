//go:build ruleguard
// +build ruleguard

package ruleguard

import (
	"github.com/quasilyte/go-ruleguard/dsl"
)

func domainObjectsInResponses(m dsl.Matcher) {
	m.Import("github.com/gaqzi/employee-reviews/internal/reviewing")

	// The reviewing.Review fields are unexported so encoding one directly
	// sends back an empty object. Convert it to the handler's ReviewBasic first.
	//
	// To work on this use ruleguard directly: ruleguard -rules ruleguard/rules-dont-pass-domain-objects-to-responses.go ./internal/...
	m.Match(`platformhttp.JSON($h, $status, $val)`).
		Where(m["val"].Type.Is(`*reviewing.Review`) || m["val"].Type.Is(`[]*reviewing.Review`)).
		Report(`passing reviewing.Review straight into a JSON response. Use: convertToHttpObject($val)`)
}
