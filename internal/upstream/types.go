package upstream

// SiglsEntry is one record of the catalog listing. The first record of a
// listing describes the catalog itself and carries no id.
type SiglsEntry struct {
	ID     string `json:"id,omitempty"`
	Title  string `json:"title,omitempty"`
	SiteID string `json:"siteId,omitempty"`
}

// ProductsResponse is the body returned by the display catalog
type ProductsResponse struct {
	Products []Product `json:"Products"`
}

// Product is a display catalog product. Only the fields read by the mapper
// are decoded.
type Product struct {
	ProductID           string              `json:"ProductId"`
	LocalizedProperties []LocalizedProperty `json:"LocalizedProperties,omitempty"`
	MarketProperties    []MarketProperty    `json:"MarketProperties,omitempty"`
	Properties          *ProductProperties  `json:"Properties,omitempty"`
}

// LocalizedProperty holds the language-specific texts and images of a product
type LocalizedProperty struct {
	ProductTitle       string  `json:"ProductTitle,omitempty"`
	ProductDescription string  `json:"ProductDescription,omitempty"`
	ShortDescription   string  `json:"ShortDescription,omitempty"`
	Images             []Image `json:"Images,omitempty"`
}

// Image purposes recognised when picking a cover
const (
	ImagePurposePoster = "Poster"
	ImagePurposeBoxArt = "BoxArt"
)

// Image is a product image
type Image struct {
	ImagePurpose string `json:"ImagePurpose,omitempty"`
	URI          string `json:"Uri,omitempty"`
	Height       int    `json:"Height,omitempty"`
	Width        int    `json:"Width,omitempty"`
}

// MarketProperty holds market-specific release information
type MarketProperty struct {
	ReleaseDate         string `json:"ReleaseDate,omitempty"`
	OriginalReleaseDate string `json:"OriginalReleaseDate,omitempty"`
}

// ProductProperties holds market-independent product data
type ProductProperties struct {
	Categories  []string    `json:"Categories,omitempty"`
	Attributes  []Attribute `json:"Attributes,omitempty"`
	ReleaseDate string      `json:"ReleaseDate,omitempty"`
}

// Attribute names the mapper derives platforms from
const (
	AttrXboxOne         = "PlatformDependencyXboxOne"
	AttrXboxSeriesX     = "PlatformDependencyXboxSeriesX"
	AttrWindows         = "PlatformDependencyWindows"
	AttrXboxLiveGoldReq = "XboxLiveGoldRequired"
)

// Attribute is a product capability flag
type Attribute struct {
	Name    string   `json:"Name"`
	Minimum *float64 `json:"Minimum,omitempty"`
	Maximum *float64 `json:"Maximum,omitempty"`
}
