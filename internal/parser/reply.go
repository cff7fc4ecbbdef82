package parser

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fadilmartias/resume-profiler/internal/model"
	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/gjson"
)

const fence = "```"

// stripFence removes a single markdown code fence around the reply. The
// opening fence must start a line and be unlabeled or labeled json. The
// payload may begin on the fence line itself, and a missing closing fence
// means the payload runs to the end. Anything else is returned trimmed and
// unchanged.
func stripFence(reply string) string {
	trimmed := strings.TrimSpace(reply)
	lines := strings.Split(trimmed, "\n")

	for i, line := range lines {
		l := strings.TrimSpace(line)
		if !strings.HasPrefix(l, fence) {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(l, fence))
		if len(rest) >= 4 && strings.EqualFold(rest[:4], "json") {
			rest = strings.TrimSpace(rest[4:])
		}
		switch {
		case rest == "":
			return fencedBody(lines[i+1:])
		case rest[0] == '{' || rest[0] == '[':
			return fencedBody(append([]string{rest}, lines[i+1:]...))
		}
		return trimmed
	}
	return trimmed
}

// fencedBody returns body up to its closing fence: the last line that is
// the fence alone or ends with it. Without one the whole body is payload.
func fencedBody(body []string) string {
	for i := len(body) - 1; i >= 0; i-- {
		l := strings.TrimSpace(body[i])
		if !strings.HasSuffix(l, fence) {
			continue
		}
		kept := append(body[:i:i], strings.TrimSuffix(l, fence))
		return strings.TrimSpace(strings.Join(kept, "\n"))
	}
	return strings.TrimSpace(strings.Join(body, "\n"))
}

// decodeReply turns the model reply into a profile. Each field is decoded
// on its own and leniently; a field that cannot be coerced is left at its
// default instead of failing the whole reply.
func decodeReply(reply string) (*model.ExtractedProfile, error) {
	body := stripFence(reply)
	if body == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrMalformedReply)
	}
	if !gjson.Valid(body) {
		return nil, fmt.Errorf("%w: reply is not valid JSON", ErrMalformedReply)
	}
	if !gjson.Parse(body).IsObject() {
		return nil, fmt.Errorf("%w: reply is not a JSON object", ErrMalformedReply)
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedReply, err)
	}

	profile := model.NewExtractedProfile()

	for _, name := range model.ScalarFields {
		v, ok := raw[name]
		if !ok {
			continue
		}
		profile.MarkPresent(name)
		_ = profile.SetScalar(name, decodeScalar(v))
	}

	for _, name := range model.ListFields {
		if name == model.FieldPublications {
			continue
		}
		v, ok := raw[name]
		if !ok {
			continue
		}
		profile.MarkPresent(name)
		_ = profile.SetList(name, decodeStrings(v))
	}

	for _, name := range model.EntryFields {
		v, ok := raw[name]
		if !ok {
			continue
		}
		profile.MarkPresent(name)
		_ = profile.SetEntries(name, decodeEntries(v))
	}

	// Publications come back either as titles or as structured records.
	if v, ok := raw[model.FieldPublications]; ok {
		titles, details := splitPublications(v)
		profile.MarkPresent(model.FieldPublications)
		profile.MarkPresent(model.FieldPublicationDetails)
		_ = profile.SetList(model.FieldPublications, titles)
		_ = profile.SetEntries(model.FieldPublicationDetails, append(profile.PublicationDetails, details...))
	}

	return profile, nil
}

func decodeScalar(v any) *string {
	if v == nil {
		return nil
	}
	var s string
	if err := mapstructure.WeakDecode(v, &s); err != nil {
		items := decodeStrings(v)
		if len(items) == 0 {
			return nil
		}
		s = strings.Join(items, ", ")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func decodeStrings(v any) []string {
	out := []string{}
	if v == nil {
		return out
	}
	items, ok := v.([]any)
	if !ok {
		items = []any{v}
	}
	for _, item := range items {
		if m, isMap := item.(map[string]any); isMap {
			if s := flattenObject(m); s != "" {
				out = append(out, s)
			}
			continue
		}
		var s string
		if err := mapstructure.WeakDecode(item, &s); err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// flattenObject renders an object that arrived where a string was expected
// as its non-empty values in key order.
func flattenObject(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		var s string
		if err := mapstructure.WeakDecode(m[k], &s); err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func decodeEntries(v any) []model.Entry {
	out := []model.Entry{}
	var items []any
	switch val := v.(type) {
	case nil:
		return out
	case []any:
		items = val
	default:
		items = []any{val}
	}
	for _, item := range items {
		switch it := item.(type) {
		case map[string]any:
			if e := model.NormalizeEntry(it); len(e) > 0 {
				out = append(out, e)
			}
		case string:
			if s := strings.TrimSpace(it); s != "" {
				out = append(out, model.Entry{"description": s})
			}
		}
	}
	return out
}

func splitPublications(v any) ([]string, []model.Entry) {
	titles := []string{}
	details := []model.Entry{}
	items, ok := v.([]any)
	if !ok {
		if v == nil {
			return titles, details
		}
		items = []any{v}
	}
	for _, item := range items {
		if m, isMap := item.(map[string]any); isMap {
			if e := model.NormalizeEntry(m); len(e) > 0 {
				details = append(details, e)
			}
			continue
		}
		var s string
		if err := mapstructure.WeakDecode(item, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				titles = append(titles, s)
			}
		}
	}
	return titles, details
}
