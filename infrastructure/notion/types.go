package notion

// Page is a Notion page object with its property map.
type Page struct {
	Object         string              `json:"object"`
	ID             string              `json:"id"`
	CreatedTime    string              `json:"created_time"`
	LastEditedTime string              `json:"last_edited_time"`
	Properties     map[string]Property `json:"properties,omitempty"`
	URL            string              `json:"url,omitempty"`
}

// Property is a Notion property value (simplified to the types the four
// game databases use).
type Property struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Number      *float64       `json:"number,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Status      *SelectOption  `json:"status,omitempty"`
	Date        *DateProperty  `json:"date,omitempty"`
	Checkbox    bool           `json:"checkbox,omitempty"`
	URL         string         `json:"url,omitempty"`
	Relation    []PageRef      `json:"relation,omitempty"`
	HasMore     bool           `json:"has_more,omitempty"`
	Rollup      *RollupValue   `json:"rollup,omitempty"`
}

// RichText is a Notion rich text fragment.
type RichText struct {
	Type      string   `json:"type"`
	PlainText string   `json:"plain_text"`
	Text      *TextObj `json:"text,omitempty"`
}

// TextObj is the editable content of a rich text fragment.
type TextObj struct {
	Content string `json:"content"`
}

// SelectOption is one select/multi-select/status value.
type SelectOption struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// DateProperty is a Notion date value.
type DateProperty struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// PageRef is one target of a relation property.
type PageRef struct {
	ID string `json:"id"`
}

// RollupValue is a rollup property result.
type RollupValue struct {
	Type   string     `json:"type"`
	Array  []Property `json:"array,omitempty"`
	Number *float64   `json:"number,omitempty"`
}

// Property accessors. Absent or differently-typed properties read as
// zero values; the transform layer is tolerant of schema drift.

// PlainText flattens rich text fragments to a single string.
func PlainText(fragments []RichText) string {
	out := ""
	for _, f := range fragments {
		out += f.PlainText
	}
	return out
}

// TitleOf reads the page's title property.
func (p Page) TitleOf(name string) string {
	return PlainText(p.Properties[name].Title)
}

// TextOf reads a rich-text property as a plain string.
func (p Page) TextOf(name string) string {
	return PlainText(p.Properties[name].RichText)
}

// SelectOf reads a select property's option name.
func (p Page) SelectOf(name string) string {
	if s := p.Properties[name].Select; s != nil {
		return s.Name
	}
	return ""
}

// StatusOf reads a status property's option name.
func (p Page) StatusOf(name string) string {
	if s := p.Properties[name].Status; s != nil {
		return s.Name
	}
	return ""
}

// MultiSelectOf reads a multi-select property's option names.
func (p Page) MultiSelectOf(name string) []string {
	options := p.Properties[name].MultiSelect
	if len(options) == 0 {
		return nil
	}
	out := make([]string, len(options))
	for i, o := range options {
		out[i] = o.Name
	}
	return out
}

// RelationOf reads a relation property's target page IDs.
func (p Page) RelationOf(name string) []string {
	refs := p.Properties[name].Relation
	if len(refs) == 0 {
		return nil
	}
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.ID
	}
	return out
}

// FirstRelationOf reads the first target of a relation property, for
// single-valued relations.
func (p Page) FirstRelationOf(name string) string {
	if refs := p.Properties[name].Relation; len(refs) > 0 {
		return refs[0].ID
	}
	return ""
}

// DateOf reads a date property's start value.
func (p Page) DateOf(name string) string {
	if d := p.Properties[name].Date; d != nil {
		return d.Start
	}
	return ""
}
