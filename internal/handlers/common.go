// common.go
//
// A multi-tenant shopping list data service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jam-build-shoplist.
// jam-build-shoplist is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jam-build-shoplist is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jam-build-shoplist.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-shoplist/internal/identity"
	"github.com/localnerve/jam-build-shoplist/internal/middleware"
	"github.com/localnerve/jam-build-shoplist/internal/services"
	"github.com/localnerve/jam-build-shoplist/internal/types"
	"github.com/localnerve/jam-build-shoplist/internal/validation"
)

// callerOf returns the identity stored by the authentication middleware
func callerOf(c *fiber.Ctx) identity.Identity {
	id, _ := c.Locals(middleware.LocalIdentity).(identity.Identity)
	return id
}

// parseDtoIn extracts, validates and normalizes the command input. The
// returned error map carries any unsupported-key warning, also on failure.
func parseDtoIn(c *fiber.Ctx, command string, shape validation.Shape) (validation.Values, types.ErrorMap, error) {
	errorMap := types.ErrorMap{}

	raw, err := rawDtoIn(c)
	if err != nil {
		return nil, errorMap, err
	}

	values, report := validation.Validate(shape, raw)
	if len(report.UnsupportedKeys) > 0 {
		errorMap.AddWarning(command, "unsupportedKeys", "DtoIn contains unsupported keys.", map[string]any{
			"unsupportedKeyList": report.UnsupportedKeys,
		})
	}
	if !report.Valid() {
		return nil, errorMap, types.InvalidDtoIn(report.ParamMap())
	}
	return values, errorMap, nil
}

// rawDtoIn reads the JSON body for POST and PATCH, and the query string
// otherwise
func rawDtoIn(c *fiber.Ctx) (map[string]any, error) {
	switch c.Method() {
	case fiber.MethodPost, fiber.MethodPatch:
		return bodyDtoIn(c.Body())
	}
	return queryDtoIn(c.Queries()), nil
}

func bodyDtoIn(body []byte) (map[string]any, error) {
	raw := map[string]any{}
	if len(bytes.TrimSpace(body)) == 0 {
		return raw, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return nil, types.InvalidDtoIn(map[string]any{
			"invalidTypeKeyMap": map[string]string{"dtoIn": "object"},
			"reason":            "Request body must be a JSON object.",
		})
	}
	return raw, nil
}

// queryDtoIn builds a dtoIn from query parameters. Dotted keys such as
// pageInfo.pageSize build nested objects.
func queryDtoIn(query map[string]string) map[string]any {
	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	raw := map[string]any{}
	for _, key := range keys {
		path := strings.Split(key, ".")
		node := raw
		for _, part := range path[:len(path)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[part] = child
			}
			node = child
		}
		leaf := path[len(path)-1]
		if _, isObject := node[leaf].(map[string]any); !isObject {
			node[leaf] = query[key]
		}
	}
	return raw
}

// pageRequest reads the normalized pageInfo object
func pageRequest(values validation.Values) services.PageRequest {
	pageInfo := values.Object("pageInfo")
	return services.PageRequest{
		PageIndex: pageInfo.Int("pageIndex"),
		PageSize:  pageInfo.Int("pageSize"),
	}
}
