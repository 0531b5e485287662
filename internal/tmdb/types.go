package tmdb

// Movie is the shared listing shape returned by every list endpoint.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	GenreIDs         []int   `json:"genre_ids"`
	Adult            bool    `json:"adult"`
	OriginalLanguage string  `json:"original_language"`
	OriginalTitle    string  `json:"original_title"`
	Popularity       float64 `json:"popularity"`
	Video            bool    `json:"video"`
}

// MoviePage is one page of a paginated listing.
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// HasNextPage reports whether another page can be requested.
func (p *MoviePage) HasNextPage() bool {
	return p.Page < p.TotalPages
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type GenreList struct {
	Genres []Genre `json:"genres"`
}

type ProductionCompany struct {
	ID            int    `json:"id"`
	LogoPath      string `json:"logo_path"`
	Name          string `json:"name"`
	OriginCountry string `json:"origin_country"`
}

type ProductionCountry struct {
	ISO31661 string `json:"iso_3166_1"`
	Name     string `json:"name"`
}

type SpokenLanguage struct {
	EnglishName string `json:"english_name"`
	ISO6391     string `json:"iso_639_1"`
	Name        string `json:"name"`
}

type Collection struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
}

type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

type CrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

type Video struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Site        string `json:"site"`
	Type        string `json:"type"`
	Official    bool   `json:"official"`
	PublishedAt string `json:"published_at"`
}

type VideoList struct {
	Results []Video `json:"results"`
}

// MovieDetails is the full detail payload including the appended
// credits/videos/similar/recommendations blocks.
type MovieDetails struct {
	Movie
	Runtime             int                 `json:"runtime"`
	Genres              []Genre             `json:"genres"`
	ProductionCompanies []ProductionCompany `json:"production_companies"`
	ProductionCountries []ProductionCountry `json:"production_countries"`
	SpokenLanguages     []SpokenLanguage    `json:"spoken_languages"`
	Status              string              `json:"status"`
	Tagline             string              `json:"tagline"`
	Budget              int64               `json:"budget"`
	Revenue             int64               `json:"revenue"`
	IMDBID              string              `json:"imdb_id"`
	Homepage            string              `json:"homepage"`
	BelongsToCollection *Collection         `json:"belongs_to_collection"`
	Credits             *Credits            `json:"credits,omitempty"`
	Videos              *VideoList          `json:"videos,omitempty"`
	Similar             *MoviePage          `json:"similar,omitempty"`
	Recommendations     *MoviePage          `json:"recommendations,omitempty"`
}

// Director returns the crew member credited as Director, or nil.
func (d *MovieDetails) Director() *CrewMember {
	if d.Credits == nil {
		return nil
	}
	for i := range d.Credits.Crew {
		if d.Credits.Crew[i].Job == "Director" {
			return &d.Credits.Crew[i]
		}
	}
	return nil
}

// Trailer picks the best YouTube trailer: official first, then any trailer.
func (d *MovieDetails) Trailer() *Video {
	if d.Videos == nil {
		return nil
	}
	var fallback *Video
	for i := range d.Videos.Results {
		v := &d.Videos.Results[i]
		if v.Type != "Trailer" || v.Site != "YouTube" {
			continue
		}
		if v.Official {
			return v
		}
		if fallback == nil {
			fallback = v
		}
	}
	return fallback
}
