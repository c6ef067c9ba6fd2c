package web

// NavLink is one entry of the shared header navigation.
type NavLink struct {
	Label  string
	Href   string
	Active bool
}

// HeaderData is rendered by the shared header partial on every page.
type HeaderData struct {
	SiteName string
	Title    string
	Nav      []NavLink
}

// Page wraps shared Header + page-specific Content.
type Page[T any] struct {
	Header  HeaderData
	Content T
}
