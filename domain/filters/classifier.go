// Package filters partitions a unified filter state into the subset the
// upstream data source can evaluate natively and the subset that must
// be computed locally against the synthesized graph, and derives a
// deterministic cache key from the server-pushable subset.
package filters

import (
	"sort"
	"strings"
)

// NoFilterKey is the distinguished cache key when no server-side
// filters are active.
const NoFilterKey = "no-filters"

// Allowlists of server-filterable fields per entity type. Anything not
// listed here is never promoted to a server-side filter, no matter what
// the client sends.
var (
	serverFilterableTiers    = map[string]bool{"Core": true, "Secondary": true, "Tertiary": true}
	serverFilterableTypes    = map[string]bool{"Player": true, "NPC": true}
	serverFilterableActs     = map[string]bool{"Act 0": true, "Act 1": true, "Act 2": true}
	serverFilterableEditedIn = map[string]bool{"week": true, "month": true}
)

// ExtractServerSideFilters reads only the fields known to be
// server-filterable for each entity type; everything else is silently
// excluded and left for client-side evaluation.
func ExtractServerSideFilters(characters CharacterFilters, puzzles PuzzleFilters, content ContentFilters) ServerSideFilters {
	out := ServerSideFilters{}

	out.Characters.Tiers = selectedAllowed(characters.SelectedTiers, serverFilterableTiers)
	if serverFilterableTypes[characters.CharacterType] {
		out.Characters.Type = characters.CharacterType
	}

	out.Puzzles.Acts = selectedAllowed(puzzles.SelectedActs, serverFilterableActs)

	out.Elements.Status = selectedKeys(content.ContentStatus)
	out.Elements.BasicTypes = selectedKeys(content.ElementBasicTypes)
	if serverFilterableEditedIn[content.LastEditedRange] {
		out.Elements.LastEdited = content.LastEditedRange
	}

	return out
}

// ExtractClientSideFilters returns the residue that cannot be pushed
// upstream.
func ExtractClientSideFilters(state FilterState) ClientSideFilters {
	return ClientSideFilters{
		Search:              strings.TrimSpace(state.Search),
		CompletionStatus:    state.Puzzles.CompletionStatus,
		SelectedCharacterID: state.Characters.SelectedCharacterID,
		HighlightShared:     state.Characters.HighlightShared,
		HasIssues:           state.Content.HasIssues,
	}
}

// CreateFilterCacheKey builds a deterministic cache partition key from
// the server-pushable filters. Fields are emitted in a fixed order and
// multi-values are sorted, so two filter objects with identical content
// produce identical keys regardless of construction order.
func CreateFilterCacheKey(f ServerSideFilters) string {
	var parts []string

	appendPart := func(field string, values []string) {
		if len(values) == 0 {
			return
		}
		sorted := make([]string, len(values))
		copy(sorted, values)
		sort.Strings(sorted)
		parts = append(parts, field+":"+strings.Join(sorted, ","))
	}

	// Fixed field order, never input order.
	appendPart("tiers", f.Characters.Tiers)
	if f.Characters.Type != "" {
		parts = append(parts, "type:"+f.Characters.Type)
	}
	appendPart("acts", f.Puzzles.Acts)
	appendPart("status", f.Elements.Status)
	appendPart("basicTypes", f.Elements.BasicTypes)
	if f.Elements.LastEdited != "" {
		parts = append(parts, "lastEdited:"+f.Elements.LastEdited)
	}

	if len(parts) == 0 {
		return NoFilterKey
	}
	return strings.Join(parts, "|")
}

// HasServerSideFilters reports whether any server-pushable predicate is
// active; a refetch is only needed when this changes.
func HasServerSideFilters(f ServerSideFilters) bool {
	return len(f.Characters.Tiers) > 0 ||
		f.Characters.Type != "" ||
		len(f.Puzzles.Acts) > 0 ||
		len(f.Elements.Status) > 0 ||
		len(f.Elements.BasicTypes) > 0 ||
		f.Elements.LastEdited != ""
}

// HasClientSideFilters reports whether a local re-filter pass is needed.
func HasClientSideFilters(f ClientSideFilters) bool {
	return f.Search != "" ||
		(f.CompletionStatus != "" && f.CompletionStatus != "all") ||
		f.SelectedCharacterID != "" ||
		f.HighlightShared ||
		f.HasIssues != nil
}

// selectedAllowed returns the enabled keys of a selection map that pass
// the allowlist, sorted for stable output.
func selectedAllowed(selected map[string]bool, allowed map[string]bool) []string {
	var out []string
	for key, on := range selected {
		if on && allowed[key] {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

// selectedKeys returns all enabled keys of a selection map, sorted.
// Used for fields whose value space is an open enumeration upstream
// (element status and basic type options live in the Notion schema).
func selectedKeys(selected map[string]bool) []string {
	var out []string
	for key, on := range selected {
		if on {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}
