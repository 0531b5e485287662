package source

import (
	"strconv"
	"strings"
)

// Provider is one configured streaming provider. URLTemplate may reference
// {id}, {title} and {year}; {id} is the TMDB movie id.
type Provider struct {
	Key         string
	Name        string
	URLTemplate string
	Quality     string
	Type        Type
}

// Resolver turns a movie identity into the ordered source list. Provider
// templates are read-only process-wide configuration; a Resolver is safe for
// concurrent use.
type Resolver struct {
	providers []Provider
}

func NewResolver(providers []Provider) *Resolver {
	configured := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if strings.TrimSpace(p.URLTemplate) == "" {
			continue
		}
		configured = append(configured, p)
	}
	return &Resolver{providers: configured}
}

// DefaultProviders builds the provider set of the original deployment from
// per-provider base URLs. Providers without a base URL are dropped, which
// simply shortens the resolved list.
func DefaultProviders(vidsrcBase, superembedBase, embedsuBase string) []Provider {
	var out []Provider
	if vidsrcBase != "" {
		out = append(out, Provider{
			Key:         "vidsrc",
			Name:        "VidSrc",
			URLTemplate: strings.TrimRight(vidsrcBase, "/") + "/embed/movie/{id}",
			Quality:     "HD",
			Type:        TypeEmbed,
		})
	}
	if superembedBase != "" {
		out = append(out, Provider{
			Key:         "superembed",
			Name:        "SuperEmbed",
			URLTemplate: strings.TrimRight(superembedBase, "/") + "/directstream.php?video_id={id}&tmdb=1",
			Quality:     "HD",
			Type:        TypeEmbed,
		})
	}
	if embedsuBase != "" {
		out = append(out, Provider{
			Key:         "embedsu",
			Name:        "EmbedSu",
			URLTemplate: strings.TrimRight(embedsuBase, "/") + "/embed/movie/{id}",
			Quality:     "HD",
			Type:        TypeEmbed,
		})
	}
	return out
}

// Resolve builds the source list for one movie. The returned slice is never
// nil and its order is the configured priority: the preferred provider key
// first, remaining providers in registration order. An empty preference
// keeps registration order.
func (r *Resolver) Resolve(movieID int, title string, year int, preferred string) []Source {
	sources := make([]Source, 0, len(r.providers))
	for _, p := range r.ordered(preferred) {
		sources = append(sources, Source{
			Name:    p.Name,
			URL:     expand(p.URLTemplate, movieID, title, year),
			Quality: p.Quality,
			Type:    p.Type,
			Server:  p.Name,
		})
	}
	return sources
}

// Lookup returns the provider registered under key.
func (r *Resolver) Lookup(key string) (Provider, bool) {
	for _, p := range r.providers {
		if p.Key == key {
			return p, true
		}
	}
	return Provider{}, false
}

// SourceFor resolves a single provider's source for a movie.
func (r *Resolver) SourceFor(key string, movieID int, title string, year int) (Source, bool) {
	p, ok := r.Lookup(key)
	if !ok {
		return Source{}, false
	}
	return Source{
		Name:    p.Name,
		URL:     expand(p.URLTemplate, movieID, title, year),
		Quality: p.Quality,
		Type:    p.Type,
		Server:  p.Name,
	}, true
}

func (r *Resolver) ordered(preferred string) []Provider {
	if preferred == "" {
		return r.providers
	}
	out := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		if p.Key == preferred {
			out = append(out, p)
			break
		}
	}
	for _, p := range r.providers {
		if p.Key != preferred {
			out = append(out, p)
		}
	}
	return out
}

func expand(template string, movieID int, title string, year int) string {
	s := strings.ReplaceAll(template, "{id}", strconv.Itoa(movieID))
	s = strings.ReplaceAll(s, "{title}", strings.TrimSpace(title))
	if year > 0 {
		s = strings.ReplaceAll(s, "{year}", strconv.Itoa(year))
	} else {
		s = strings.ReplaceAll(s, "{year}", "")
	}
	return s
}
