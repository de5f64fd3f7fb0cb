package entity

// ScrapedPage holds the content extracted from one rendered page.
// When the fetch failed, Error carries a short diagnostic tag and every
// content field is empty; the page still flows through the pipeline so a
// single broken URL cannot abort a run.
type ScrapedPage struct {
	URL             string   `json:"url"`
	Title           string   `json:"title"`
	MetaDescription string   `json:"metaDescription"`
	H1              []string `json:"h1"`
	H2              []string `json:"h2"`
	Links           []string `json:"links"`
	BodyText        string   `json:"bodyText"`
	Error           string   `json:"error,omitempty"`
}

// Failed reports whether the page carries a scrape error instead of content.
func (p *ScrapedPage) Failed() bool {
	return p.Error != ""
}
