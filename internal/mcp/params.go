package mcp

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ResolveLibraryIDParams are the arguments of resolve-library-id.
type ResolveLibraryIDParams struct {
	LibraryName string `json:"libraryName"`
}

// GetLibraryDocsParams are the arguments of get-library-docs. Tokens is
// accepted as either a JSON number or a numeric string; see UnmarshalJSON.
type GetLibraryDocsParams struct {
	LibraryID     string `json:"context7CompatibleLibraryID"`
	Topic         string `json:"topic,omitempty"`
	Tokens        int    `json:"tokens,omitempty"`
	Lang          string `json:"lang,omitempty"`
	PythonVersion string `json:"pythonVersion,omitempty"`
}

// UnmarshalJSON accepts a string-typed tokens value and coerces it to an
// integer before the regular decode runs.
func (p *GetLibraryDocsParams) UnmarshalJSON(data []byte) error {
	type Alias GetLibraryDocsParams // avoids recursing into this method

	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if tokensRaw, ok := raw["tokens"]; ok {
		trimmed := strings.TrimSpace(string(tokensRaw))
		if strings.HasPrefix(trimmed, `"`) {
			var s string
			if err := json.Unmarshal(tokensRaw, &s); err != nil {
				return err
			}
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return fmt.Errorf("tokens must be a number, got %q", s)
			}
			raw["tokens"] = json.RawMessage(strconv.Itoa(n))
		}
	}

	normalized, err := json.Marshal(raw)
	if err != nil {
		return err
	}

	aux := (*Alias)(p)
	return json.Unmarshal(normalized, aux)
}
