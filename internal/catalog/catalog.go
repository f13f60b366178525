// Package catalog holds the capability records served by /v1/login: which
// editor-side functions (completion, diff edits, highlight, chat) the
// server can run, and for which models.
package catalog

// Record describes one capability: an invokable function, the models that
// support it, and a serializable descriptor handed to clients.
type Record struct {
	// Function name clients invoke, e.g. "highlight".
	Function string `json:"function_name" yaml:"function"`
	// Models this record applies to.
	Models []string `json:"model" yaml:"models"`
	// Client-facing descriptor, serialized as-is into the login document.
	Meta map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// LoginResponse is the document returned by GET /v1/login.
type LoginResponse struct {
	Account            string                    `json:"account"`
	Retcode            string                    `json:"retcode"`
	FunctionsToday     int                       `json:"longthink-functions-today"`
	Functions          map[string]map[string]any `json:"longthink-functions-today-v2"`
	Filters            []string                  `json:"longthink-filters"`
	ChatV1Style        bool                      `json:"chat-v1-style"`
}

// Defaults returns the built-in capability records.
func Defaults() []Record {
	return []Record{
		{
			Function: "completion",
			Models:   []string{"CONTRASTcode"},
			Meta: map[string]any{
				"label":         "Code Completion",
				"type":          "completion",
				"supports_echo": true,
			},
		},
		{
			Function: "diff-anywhere",
			Models:   []string{"CONTRASTcode"},
			Meta: map[string]any{
				"label":     "Edit Anywhere",
				"type":      "diff",
				"max_edits": 4,
			},
		},
		{
			Function: "edit-selection",
			Models:   []string{"CONTRASTcode"},
			Meta: map[string]any{
				"label": "Edit Selection",
				"type":  "diff",
			},
		},
		{
			Function: "highlight",
			Models:   []string{"CONTRASTcode"},
			Meta: map[string]any{
				"label": "Highlight",
				"type":  "diff",
			},
		},
		{
			Function: "chat",
			Models:   []string{"chat"},
			Meta: map[string]any{
				"label": "Chat",
				"type":  "chat",
			},
		},
	}
}

// Filter keeps the records whose model list intersects filterCaps and
// shapes each into its login descriptor, keyed by function name. The
// descriptor is a copy: is_liked/likes/third_party are stamped in and the
// model field is rewritten to the loaded model.
func Filter(records []Record, filterCaps []string, modelName string) map[string]map[string]any {
	caps := make(map[string]bool, len(filterCaps))
	for _, c := range filterCaps {
		caps[c] = true
	}
	accum := make(map[string]map[string]any)
	for _, rec := range records {
		match := false
		for _, m := range rec.Models {
			if caps[m] {
				match = true
				break
			}
		}
		if !match {
			continue
		}
		j := make(map[string]any, len(rec.Meta)+5)
		for k, v := range rec.Meta {
			j[k] = v
		}
		j["function_name"] = rec.Function
		j["is_liked"] = false
		j["likes"] = 0
		j["third_party"] = false
		j["model"] = modelName
		accum[rec.Function] = j
	}
	return accum
}

// FilterCaps extracts the filter_caps list from a model capability
// dictionary, tolerating both []string and JSON-decoded []any.
func FilterCaps(modelDict map[string]any) []string {
	raw, ok := modelDict["filter_caps"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Login assembles the full login document for the given capability set.
func Login(records []Record, filterCaps []string, modelName string) LoginResponse {
	return LoginResponse{
		Account:        "self-hosted",
		Retcode:        "OK",
		FunctionsToday: 1,
		Functions:      Filter(records, filterCaps, modelName),
		Filters:        []string{},
		ChatV1Style:    true,
	}
}
