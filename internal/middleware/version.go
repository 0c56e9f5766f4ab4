package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// APIVersion is the version of the command API this build serves
	APIVersion = "1.0.0"
	// HeaderAPIVersion carries the requested and served API versions
	HeaderAPIVersion = "X-Api-Version"
	// localAPIVersion is the fiber.Locals key holding the requested version
	localAPIVersion = "apiVersion"
)

// VersionMiddleware parses the X-Api-Version request header, stores the
// normalized version in Locals and reports the served version in the response
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(localAPIVersion, normalizeVersion(c.Get(HeaderAPIVersion, APIVersion)))
		c.Set(HeaderAPIVersion, APIVersion)
		return c.Next()
	}
}

// normalizeVersion expands major or major.minor aliases, e.g. "1" and "1.0"
// both become "1.0.0"
func normalizeVersion(version string) string {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	if version == "" {
		return APIVersion
	}
	switch strings.Count(version, ".") {
	case 0:
		return version + ".0.0"
	case 1:
		return version + ".0"
	}
	return version
}
