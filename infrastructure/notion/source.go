package notion

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"alnretool/application/ports"
	"alnretool/domain/entities"
	"alnretool/domain/filters"
	pkgerrors "alnretool/pkg/errors"
)

// DatabaseIDs holds the four game database identifiers.
type DatabaseIDs struct {
	Characters string
	Elements   string
	Puzzles    string
	Timeline   string
}

// Source implements ports.EntitySource against the Notion API.
type Source struct {
	client    *Client
	databases DatabaseIDs
	logger    *zap.Logger
}

// NewSource creates an entity source.
func NewSource(client *Client, databases DatabaseIDs, logger *zap.Logger) *Source {
	return &Source{
		client:    client,
		databases: databases,
		logger:    logger,
	}
}

// FetchDataset fetches all four collections concurrently and joins the
// results. Each collection is fully paginated before the dataset is
// returned; any single failure fails the whole fetch.
func (s *Source) FetchDataset(ctx context.Context, f filters.ServerSideFilters) (entities.Dataset, error) {
	var (
		wg      sync.WaitGroup
		dataset entities.Dataset
		errs    [4]error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		pages, err := s.client.QueryDatabaseAll(ctx, s.databases.Characters, characterFilter(f.Characters))
		if err != nil {
			errs[0] = err
			return
		}
		dataset.Characters = make([]entities.Character, len(pages))
		for i, p := range pages {
			dataset.Characters[i] = ToCharacter(p)
		}
	}()
	go func() {
		defer wg.Done()
		pages, err := s.client.QueryDatabaseAll(ctx, s.databases.Elements, elementFilter(f.Elements))
		if err != nil {
			errs[1] = err
			return
		}
		dataset.Elements = make([]entities.Element, len(pages))
		for i, p := range pages {
			dataset.Elements[i] = ToElement(p)
		}
	}()
	go func() {
		defer wg.Done()
		pages, err := s.client.QueryDatabaseAll(ctx, s.databases.Puzzles, puzzleFilter(f.Puzzles))
		if err != nil {
			errs[2] = err
			return
		}
		dataset.Puzzles = make([]entities.Puzzle, len(pages))
		for i, p := range pages {
			dataset.Puzzles[i] = ToPuzzle(p)
		}
	}()
	go func() {
		defer wg.Done()
		pages, err := s.client.QueryDatabaseAll(ctx, s.databases.Timeline, nil)
		if err != nil {
			errs[3] = err
			return
		}
		dataset.Timeline = make([]entities.TimelineEvent, len(pages))
		for i, p := range pages {
			dataset.Timeline[i] = ToTimelineEvent(p)
		}
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return entities.Dataset{}, err
		}
	}

	s.logger.Debug("Dataset fetched",
		zap.Int("characters", len(dataset.Characters)),
		zap.Int("elements", len(dataset.Elements)),
		zap.Int("puzzles", len(dataset.Puzzles)),
		zap.Int("timeline", len(dataset.Timeline)),
	)

	return dataset, nil
}

// FetchPage fetches one raw entity page in the cursor contract.
func (s *Source) FetchPage(ctx context.Context, entityType entities.EntityType, limit int, cursor string) (*ports.EntityPage, error) {
	databaseID, transform, err := s.resolve(entityType)
	if err != nil {
		return nil, err
	}

	result, err := s.client.QueryDatabase(ctx, databaseID, QueryParams{
		PageSize:    limit,
		StartCursor: cursor,
	})
	if err != nil {
		return nil, err
	}

	data := make([]interface{}, len(result.Results))
	for i, p := range result.Results {
		data[i] = transform(p)
	}

	return &ports.EntityPage{
		Data:       data,
		HasMore:    result.HasMore,
		NextCursor: result.NextCursor,
	}, nil
}

func (s *Source) resolve(entityType entities.EntityType) (string, func(Page) interface{}, error) {
	switch entityType {
	case entities.TypeCharacter:
		return s.databases.Characters, func(p Page) interface{} { return ToCharacter(p) }, nil
	case entities.TypeElement:
		return s.databases.Elements, func(p Page) interface{} { return ToElement(p) }, nil
	case entities.TypePuzzle:
		return s.databases.Puzzles, func(p Page) interface{} { return ToPuzzle(p) }, nil
	case entities.TypeTimeline:
		return s.databases.Timeline, func(p Page) interface{} { return ToTimelineEvent(p) }, nil
	default:
		return "", nil, pkgerrors.NewValidationErrorf("unknown entity type %q", entityType)
	}
}

// Server-pushable filters compile into Notion compound filter objects.
// Only allowlisted fields ever reach this point.

func characterFilter(f filters.CharacterServerFilters) any {
	var and []any
	if len(f.Tiers) > 0 {
		var or []any
		for _, tier := range f.Tiers {
			or = append(or, map[string]any{
				"property": "Tier",
				"select":   map[string]any{"equals": tier},
			})
		}
		and = append(and, map[string]any{"or": or})
	}
	if f.Type != "" {
		and = append(and, map[string]any{
			"property": "Type",
			"select":   map[string]any{"equals": f.Type},
		})
	}
	return compound(and)
}

func puzzleFilter(f filters.PuzzleServerFilters) any {
	var and []any
	if len(f.Acts) > 0 {
		var or []any
		for _, act := range f.Acts {
			or = append(or, map[string]any{
				"property":     "Timing",
				"multi_select": map[string]any{"contains": act},
			})
		}
		and = append(and, map[string]any{"or": or})
	}
	return compound(and)
}

func elementFilter(f filters.ElementServerFilters) any {
	var and []any
	if len(f.Status) > 0 {
		var or []any
		for _, status := range f.Status {
			or = append(or, map[string]any{
				"property": "Status",
				"status":   map[string]any{"equals": status},
			})
		}
		and = append(and, map[string]any{"or": or})
	}
	if len(f.BasicTypes) > 0 {
		var or []any
		for _, basicType := range f.BasicTypes {
			or = append(or, map[string]any{
				"property": "Basic Type",
				"select":   map[string]any{"equals": basicType},
			})
		}
		and = append(and, map[string]any{"or": or})
	}
	if f.LastEdited != "" {
		and = append(and, map[string]any{
			"timestamp":        "last_edited_time",
			"last_edited_time": map[string]any{"on_or_after": editedSince(f.LastEdited)},
		})
	}
	return compound(and)
}

func compound(and []any) any {
	switch len(and) {
	case 0:
		return nil
	case 1:
		return and[0]
	default:
		return map[string]any{"and": and}
	}
}

func editedSince(rangeName string) string {
	now := time.Now().UTC()
	switch rangeName {
	case "week":
		return now.AddDate(0, 0, -7).Format(time.RFC3339)
	case "month":
		return now.AddDate(0, -1, 0).Format(time.RFC3339)
	}
	return now.Format(time.RFC3339)
}
