package wordpress

import "encoding/json"

// PostType names the CMS collection a record was read from.
type PostType string

const (
	PostTypeLesson PostType = "java-lessons"
	PostTypePost   PostType = "posts"
)

// Author is the display author of a post.
type Author struct {
	Name   string
	Avatar string
}

// Section is one lesson section or additional material block.
type Section struct {
	Title      string
	Content    string
	TimeToRead string
}

// Post is a course lesson with everything the lesson page renders.
type Post struct {
	Slug                string
	Title               string
	Content             string
	CoverImage          string
	Date                string
	Author              Author
	Category            string
	CategoryID          int
	CategoryDescription string
	CategoryImage       string
	LessonSections      []Section
	AdditionalMaterials []Section
	SEO                 *SEO
}

// RegularPost is a generic blog article from the posts collection.
type RegularPost struct {
	Slug       string
	Title      string
	Content    string
	CoverImage string
	Date       string
	Author     Author
	SEO        *SEO
}

// Page is a CMS page looked up by slug.
type Page struct {
	Title   string
	Content string
	Date    string
	SEO     *SEO
}

// PostSummary is the listing shape of a lesson.
type PostSummary struct {
	Slug            string
	Title           string
	Excerpt         string
	CoverImage      string
	Date            string
	CategoryID      int
	TechnologyLabel string
}

// PostLink is the minimal slug/title pair used for related and adjacent posts.
type PostLink struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// AdjacentPosts holds the previous and next lessons of a lesson, either may be nil.
type AdjacentPosts struct {
	Previous *PostLink
	Next     *PostLink
}

// Category is a lesson category. SortOrder is SortOrderUnset when the CMS
// carries no usable ordering.
type Category struct {
	ID          int
	Name        string
	Description string
	Count       int
	SortOrder   int
	ImageURL    string
}

// CategoryWithPosts is a category joined to its lessons.
type CategoryWithPosts struct {
	Category
	Posts []PostSummary
}

// SearchResult is a search hit tagged with its origin collection.
type SearchResult struct {
	PostSummary
	PostType PostType
}

// Link returns the site path a search hit is served under.
func (r SearchResult) Link() string {
	if r.PostType == PostTypePost {
		return "/post/" + r.Slug + "/"
	}
	return "/course/" + r.Slug + "/"
}

// SEO is the Yoast metadata block passed through from the CMS.
type SEO struct {
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Robots             Robots          `json:"robots"`
	Canonical          string          `json:"canonical"`
	OGLocale           string          `json:"og_locale"`
	OGType             string          `json:"og_type"`
	OGTitle            string          `json:"og_title"`
	OGDescription      string          `json:"og_description"`
	OGURL              string          `json:"og_url"`
	OGSiteName         string          `json:"og_site_name"`
	OGImage            []OGImage       `json:"og_image,omitempty"`
	TwitterCard        string          `json:"twitter_card"`
	TwitterTitle       string          `json:"twitter_title,omitempty"`
	TwitterDescription string          `json:"twitter_description,omitempty"`
	TwitterImage       string          `json:"twitter_image,omitempty"`
	TwitterSite        string          `json:"twitter_site,omitempty"`
	Schema             json.RawMessage `json:"schema,omitempty"`
}

// Robots carries Yoast robots directives.
type Robots struct {
	Index           string `json:"index"`
	Follow          string `json:"follow"`
	MaxSnippet      string `json:"max-snippet"`
	MaxImagePreview string `json:"max-image-preview"`
	MaxVideoPreview string `json:"max-video-preview"`
}

// OGImage is one Open Graph image.
type OGImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Type   string `json:"type"`
}

// ContactForm is a message submitted through the site's contact form.
type ContactForm struct {
	Email   string
	Subject string
	Message string
}

// ContactResult is the user-facing outcome of a contact form submission.
// Detail carries the failure cause for logs and is never shown to visitors.
type ContactResult struct {
	Success bool
	Message string
	Detail  string
}
