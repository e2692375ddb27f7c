package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractServerSideFilters_Scenario(t *testing.T) {
	state := FilterState{
		Characters: CharacterFilters{
			SelectedTiers: map[string]bool{"Core": true},
		},
		Content: ContentFilters{
			ContentStatus: map[string]bool{},
		},
	}

	out := ExtractServerSideFilters(state.Characters, state.Puzzles, state.Content)

	assert.Equal(t, []string{"Core"}, out.Characters.Tiers)
	assert.Empty(t, out.Characters.Type)
	assert.Empty(t, out.Puzzles.Acts)
	assert.Empty(t, out.Elements.Status)

	assert.Equal(t, "tiers:Core", CreateFilterCacheKey(out))
}

func TestExtractServerSideFilters_AllowlistExclusion(t *testing.T) {
	tests := []struct {
		name  string
		state FilterState
		check func(t *testing.T, out ServerSideFilters)
	}{
		{
			name: "unknown tier dropped",
			state: FilterState{Characters: CharacterFilters{
				SelectedTiers: map[string]bool{"Core": true, "Legendary": true},
			}},
			check: func(t *testing.T, out ServerSideFilters) {
				assert.Equal(t, []string{"Core"}, out.Characters.Tiers)
			},
		},
		{
			name: "character type all not promoted",
			state: FilterState{Characters: CharacterFilters{
				CharacterType: "all",
			}},
			check: func(t *testing.T, out ServerSideFilters) {
				assert.Empty(t, out.Characters.Type)
			},
		},
		{
			name: "unknown act dropped",
			state: FilterState{Puzzles: PuzzleFilters{
				SelectedActs: map[string]bool{"Act 1": true, "Act 99": true},
			}},
			check: func(t *testing.T, out ServerSideFilters) {
				assert.Equal(t, []string{"Act 1"}, out.Puzzles.Acts)
			},
		},
		{
			name: "lastEdited all not promoted",
			state: FilterState{Content: ContentFilters{
				LastEditedRange: "all",
			}},
			check: func(t *testing.T, out ServerSideFilters) {
				assert.Empty(t, out.Elements.LastEdited)
			},
		},
		{
			name: "disabled selections ignored",
			state: FilterState{Characters: CharacterFilters{
				SelectedTiers: map[string]bool{"Core": false, "Secondary": true},
			}},
			check: func(t *testing.T, out ServerSideFilters) {
				assert.Equal(t, []string{"Secondary"}, out.Characters.Tiers)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, ExtractServerSideFilters(tt.state.Characters, tt.state.Puzzles, tt.state.Content))
		})
	}
}

func TestExtractClientSideFilters(t *testing.T) {
	hasIssues := true
	state := FilterState{
		Search: "  safe  ",
		Characters: CharacterFilters{
			SelectedCharacterID: "C1",
			HighlightShared:     true,
		},
		Puzzles: PuzzleFilters{CompletionStatus: "completed"},
		Content: ContentFilters{HasIssues: &hasIssues},
	}

	out := ExtractClientSideFilters(state)

	assert.Equal(t, "safe", out.Search)
	assert.Equal(t, "completed", out.CompletionStatus)
	assert.Equal(t, "C1", out.SelectedCharacterID)
	assert.True(t, out.HighlightShared)
	assert.Equal(t, &hasIssues, out.HasIssues)
}

func TestCreateFilterCacheKey_Deterministic(t *testing.T) {
	a := ServerSideFilters{}
	a.Characters.Tiers = []string{"Secondary", "Core"}
	a.Puzzles.Acts = []string{"Act 2", "Act 1"}

	b := ServerSideFilters{}
	b.Puzzles.Acts = []string{"Act 1", "Act 2"}
	b.Characters.Tiers = []string{"Core", "Secondary"}

	assert.Equal(t, CreateFilterCacheKey(a), CreateFilterCacheKey(b))
	assert.Equal(t, "tiers:Core,Secondary|acts:Act 1,Act 2", CreateFilterCacheKey(a))
}

func TestCreateFilterCacheKey_FixedFieldOrder(t *testing.T) {
	f := ServerSideFilters{}
	f.Elements.LastEdited = "week"
	f.Elements.BasicTypes = []string{"Prop"}
	f.Elements.Status = []string{"Draft"}
	f.Puzzles.Acts = []string{"Act 0"}
	f.Characters.Type = "NPC"
	f.Characters.Tiers = []string{"Tertiary"}

	assert.Equal(t,
		"tiers:Tertiary|type:NPC|acts:Act 0|status:Draft|basicTypes:Prop|lastEdited:week",
		CreateFilterCacheKey(f))
}

func TestCreateFilterCacheKey_NoFilters(t *testing.T) {
	assert.Equal(t, NoFilterKey, CreateFilterCacheKey(ServerSideFilters{}))
}

func TestHasServerSideFilters(t *testing.T) {
	assert.False(t, HasServerSideFilters(ServerSideFilters{}))

	f := ServerSideFilters{}
	f.Elements.LastEdited = "month"
	assert.True(t, HasServerSideFilters(f))
}

func TestHasClientSideFilters(t *testing.T) {
	assert.False(t, HasClientSideFilters(ClientSideFilters{}))
	assert.False(t, HasClientSideFilters(ClientSideFilters{CompletionStatus: "all"}))
	assert.True(t, HasClientSideFilters(ClientSideFilters{Search: "x"}))
	assert.True(t, HasClientSideFilters(ClientSideFilters{CompletionStatus: "completed"}))
}
