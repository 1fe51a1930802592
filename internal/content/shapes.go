package content

// Image is the resolved form of an image field, which the document may
// hold either as a plain URL string or as an object with url and alt.
type Image struct {
	URL string
	Alt string
}

// ImageFrom resolves an image field. A string becomes an Image with an
// empty alt. An object needs a non-empty url; alt defaults to "".
func ImageFrom(v Value) (Image, bool) {
	switch v.Kind() {
	case KindString:
		s, _ := v.Str()
		if s == "" {
			return Image{}, false
		}
		return Image{URL: s}, true
	case KindObject:
		url := v.Field("url").TextOr("")
		if url == "" {
			return Image{}, false
		}
		return Image{URL: url, Alt: v.Field("alt").TextOr("")}, true
	default:
		return Image{}, false
	}
}

// CTA is a call-to-action link. A plain string in place of the object
// gives a CTA with text only.
type CTA struct {
	Text string
	URL  string
}

// CTAFrom resolves a call-to-action field.
func CTAFrom(v Value) (CTA, bool) {
	switch v.Kind() {
	case KindObject:
		cta := CTA{
			Text: v.Field("text").TextOr(""),
			URL:  v.Field("url").TextOr(""),
		}
		return cta, cta.Text != "" || cta.URL != ""
	case KindString, KindNumber, KindBool:
		s, _ := v.Text()
		return CTA{Text: s}, s != ""
	default:
		return CTA{}, false
	}
}

// NavItem is one navigation entry.
type NavItem struct {
	Label string
	Href  string
}

// Service is one entry of services.items.
type Service struct {
	Title       string
	Description string
	IconSVGPath string
}

// Testimonial is one entry of testimonials.items.
type Testimonial struct {
	Quote  string
	Author string
}

// BlogPost is one entry of blog.posts.
type BlogPost struct {
	ImageURL string
	ImageAlt string
	Title    string
	Excerpt  string
	LinkURL  string
	LinkText string
}

// NavItemFrom decodes a navigation entry. Missing fields are empty.
func NavItemFrom(v Value) NavItem {
	return NavItem{
		Label: v.Field("label").TextOr(""),
		Href:  v.Field("href").TextOr(""),
	}
}

// ServiceFrom decodes a service entry.
func ServiceFrom(v Value) Service {
	return Service{
		Title:       v.Field("title").TextOr(""),
		Description: v.Field("description").TextOr(""),
		IconSVGPath: v.Field("icon_svg_path").TextOr(""),
	}
}

// TestimonialFrom decodes a testimonial entry.
func TestimonialFrom(v Value) Testimonial {
	return Testimonial{
		Quote:  v.Field("quote").TextOr(""),
		Author: v.Field("author").TextOr(""),
	}
}

// BlogPostFrom decodes a blog post entry.
func BlogPostFrom(v Value) BlogPost {
	return BlogPost{
		ImageURL: v.Field("image_url").TextOr(""),
		ImageAlt: v.Field("image_alt").TextOr(""),
		Title:    v.Field("title").TextOr(""),
		Excerpt:  v.Field("excerpt").TextOr(""),
		LinkURL:  v.Field("link_url").TextOr(""),
		LinkText: v.Field("link_text").TextOr(""),
	}
}

// ListOf decodes every element of a list value with fn. ok is false when
// v is not a list.
func ListOf[T any](v Value, fn func(Value) T) (out []T, ok bool) {
	items, ok := v.Items()
	if !ok {
		return nil, false
	}
	out = make([]T, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out, true
}
