package wordpress

import (
	"bytes"
	"encoding/json"
)

// Raw REST shapes. WordPress is loose with types: meta comes back as [] when
// empty, custom fields may be strings, numbers or false. Decoding tolerates all
// of these so one odd record never fails a whole listing.

type rendered struct {
	Rendered string `json:"rendered"`
}

type wpPost struct {
	Slug                string      `json:"slug"`
	Title               rendered    `json:"title"`
	Content             rendered    `json:"content"`
	Excerpt             *rendered   `json:"excerpt"`
	FeaturedMediaURL    flexString  `json:"featured_media_url"`
	Date                string      `json:"date"`
	AuthorName          flexString  `json:"author_name"`
	AuthorAvatar        flexString  `json:"author_avatar"`
	CategoriesName      stringList  `json:"categories_name"`
	CategoryDescription flexString  `json:"category_description"`
	LessonCategory      []int       `json:"lesson_category"`
	Meta                postMeta    `json:"meta"`
	Yoast               *SEO        `json:"yoast_head_json"`
	Embedded            *wpEmbedded `json:"_embedded"`
}

type wpEmbedded struct {
	FeaturedMedia []struct {
		SourceURL string `json:"source_url"`
	} `json:"wp:featuredmedia"`
	Author []struct {
		Name       string            `json:"name"`
		AvatarURLs map[string]string `json:"avatar_urls"`
	} `json:"author"`
}

type postMeta struct {
	LessonSections      sectionList `json:"_lesson_sections"`
	AdditionalMaterials sectionList `json:"_additional_materials"`
	TechnologyLabel     flexString  `json:"technology_label"`
}

func (m *postMeta) UnmarshalJSON(b []byte) error {
	if !isObject(b) {
		*m = postMeta{}
		return nil
	}
	type plain postMeta
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*m = postMeta(p)
	return nil
}

type wpCategory struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Count       int          `json:"count"`
	Meta        categoryMeta `json:"meta"`
	SortOrder   flexString   `json:"lesson_category_sort_order"`
	Image       flexString   `json:"lesson_category_image"`
}

type categoryMeta struct {
	SortOrder flexString `json:"lesson_category_sort_order"`
	Image     flexString `json:"lesson_category_image"`
}

func (m *categoryMeta) UnmarshalJSON(b []byte) error {
	if !isObject(b) {
		*m = categoryMeta{}
		return nil
	}
	type plain categoryMeta
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*m = categoryMeta(p)
	return nil
}

type wpSection struct {
	Title      flexString `json:"title"`
	Content    flexString `json:"content"`
	TimeToRead flexString `json:"time_to_read"`
}

// sectionList decodes an array of section objects, skipping anything else.
type sectionList []Section

func (l *sectionList) UnmarshalJSON(b []byte) error {
	*l = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '[' {
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	out := make(sectionList, 0, len(raw))
	for _, item := range raw {
		if !isObject(item) {
			continue
		}
		var s wpSection
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		out = append(out, Section{
			Title:      string(s.Title),
			Content:    string(s.Content),
			TimeToRead: string(s.TimeToRead),
		})
	}
	*l = out
	return nil
}

// stringList decodes an array of strings; any other shape is empty.
type stringList []string

func (l *stringList) UnmarshalJSON(b []byte) error {
	*l = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '[' {
		return nil
	}
	var raw []flexString
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	for _, s := range raw {
		*l = append(*l, string(s))
	}
	return nil
}

// flexString accepts a JSON string, number or boolean. null, false, arrays
// and objects decode to "".
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		*s = ""
		return nil
	}
	switch b[0] {
	case '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
	case '[', '{', 'n', 'f':
		*s = ""
	default:
		*s = flexString(b)
	}
	return nil
}

func isObject(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '{'
}

type wpAdjacent struct {
	Previous *PostLink `json:"previous"`
	Next     *PostLink `json:"next"`
}

type cf7Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
