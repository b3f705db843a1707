package domain

// CREATE TABLE public.wines (
//     wine_id    BIGINT PRIMARY KEY,
//     wine_name  TEXT,
//     type       TEXT,
//     elaborate  TEXT,
//     grapes     TEXT,
//     harmonize  TEXT,
//     abv        NUMERIC,
//     body       TEXT,
//     acidity    TEXT,
//     dryness    TEXT,
//     country    TEXT,
//     region     TEXT,
//     winery     TEXT,
//     vintages   TEXT,
//     summary    TEXT
// );

type Wine struct {
	WineID    int     `gorm:"column:wine_id;primaryKey" json:"wine_id"`
	WineName  string  `gorm:"column:wine_name;type:text" json:"wine_name"`
	Type      string  `gorm:"column:type;type:text" json:"type"`
	Elaborate string  `gorm:"column:elaborate;type:text" json:"elaborate"`
	Grapes    string  `gorm:"column:grapes;type:text" json:"grapes"`
	Harmonize string  `gorm:"column:harmonize;type:text" json:"harmonize"`
	ABV       float64 `gorm:"column:abv;type:numeric" json:"abv"`
	Body      string  `gorm:"column:body;type:text" json:"body"`
	Acidity   string  `gorm:"column:acidity;type:text" json:"acidity"`
	Dryness   string  `gorm:"column:dryness;type:text" json:"dryness"`
	Country   string  `gorm:"column:country;type:text" json:"country"`
	Region    string  `gorm:"column:region;type:text" json:"region"`
	Winery    string  `gorm:"column:winery;type:text" json:"winery"`
	Vintages  string  `gorm:"column:vintages;type:text" json:"vintages"`
	Summary   string  `gorm:"column:summary;type:text" json:"summary,omitempty"`

	// Compatibility score attached per-user by the recommendation
	// service; never persisted.
	Score *float64 `gorm:"-" json:"score,omitempty"`
}

func (Wine) TableName() string {
	return "wines"
}

// WineFilters holds optional attribute filters applied to recommendation
// candidates. String fields match case-insensitively; ABV matches the
// exact value.
type WineFilters struct {
	Type    string
	Body    string
	Dryness string
	Country string
	ABV     *float64
}

// Empty reports whether no filter is set.
func (f WineFilters) Empty() bool {
	return f.Type == "" && f.Body == "" && f.Dryness == "" && f.Country == "" && f.ABV == nil
}

// WineSearchQuery is the catalog search/pagination request.
type WineSearchQuery struct {
	Name       string
	Type       string
	Body       string
	Country    string
	ABVMin     *float64
	ABVMax     *float64
	Page       int
	PageSize   int
	WithScores bool
	UserID     string
}

// WineSearchResult is one page of catalog results.
type WineSearchResult struct {
	Wines    []Wine `json:"wines"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Total    int64  `json:"total"`
}
