package wikipedia

// Raw MediaWiki action=query response shapes. Every field is optional on the
// wire; absent fields decode to zero values and are treated as "no data".

type queryResponse struct {
	Query *queryBody `json:"query"`
}

type queryBody struct {
	Search          []searchResult      `json:"search"`
	CategoryMembers []categoryMember    `json:"categorymembers"`
	Pages           map[string]pageData `json:"pages"`
}

type searchResult struct {
	PageID int64  `json:"pageid"`
	Title  string `json:"title"`
}

type categoryMember struct {
	PageID int64  `json:"pageid"`
	Title  string `json:"title"`
}

type pageData struct {
	PageID     int64         `json:"pageid"`
	Title      string        `json:"title"`
	Extract    string        `json:"extract"`
	FullURL    string        `json:"fullurl"`
	Categories []categoryRef `json:"categories"`
	Images     []imageRef    `json:"images"`
	Thumbnail  *rawThumbnail `json:"thumbnail"`
	ImageInfo  []imageInfo   `json:"imageinfo"`
	Missing    *string       `json:"missing"`
}

type categoryRef struct {
	Title string `json:"title"`
}

type imageRef struct {
	Title string `json:"title"`
}

type rawThumbnail struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type imageInfo struct {
	URL string `json:"url"`
}

// PageRef identifies a page either by numeric ID (API results) or by title
// (scraper fallback results). Exactly one side is set.
type PageRef struct {
	ID    int64
	Title string
}

// Thumbnail is the lead image of a page as reported by pageimages.
type Thumbnail struct {
	Source string
	Width  int
	Height int
}

// PageInfo is the merged per-page payload the pipeline consumes.
type PageInfo struct {
	PageID     int64
	Title      string
	Extract    string
	URL        string
	Categories []string
	Thumbnail  *Thumbnail
	Images     []string
}
