package httpx

// Link is a HATEOAS link. Method is omitted for plain GET self links.
type Link struct {
	Href   string `json:"href"`
	Method string `json:"method,omitempty"`
}

// Links maps a relation name to a link, rendered as "_links".
type Links map[string]Link

// Get, Post, Put and Delete build links for the matching method.
func Get(href string) Link    { return Link{Href: href, Method: "GET"} }
func Post(href string) Link   { return Link{Href: href, Method: "POST"} }
func Put(href string) Link    { return Link{Href: href, Method: "PUT"} }
func Delete(href string) Link { return Link{Href: href, Method: "DELETE"} }

// Self builds a link without a method.
func Self(href string) Link { return Link{Href: href} }

// ErrorLinks are attached to every error body.
func ErrorLinks() Links {
	return Links{
		"home":  Get("/"),
		"login": Post("/login"),
	}
}
