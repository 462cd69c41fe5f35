package pod

// provider describes a known print-on-demand fulfillment company and the
// patterns that reveal its involvement in a listing. URL patterns are
// matched against the listing URL, brand patterns against the page text.
type provider struct {
	Name          string
	URLPatterns   []string
	BrandPatterns []string
}

// knownProviders covers the fulfillment companies that actually show up in
// marketplace listings. Matching any URL or brand pattern attributes the
// listing to that provider.
var knownProviders = []provider{
	{
		Name:          "Printful",
		URLPatterns:   []string{"printful.com", "cdn.printful"},
		BrandPatterns: []string{"printful", "fulfilled by printful"},
	},
	{
		Name:          "Printify",
		URLPatterns:   []string{"printify.com", "images.printify"},
		BrandPatterns: []string{"printify"},
	},
	{
		Name:          "Gooten",
		URLPatterns:   []string{"gooten.com"},
		BrandPatterns: []string{"gooten"},
	},
	{
		Name:          "Teespring",
		URLPatterns:   []string{"teespring.com", "spring.com"},
		BrandPatterns: []string{"teespring", "powered by spring"},
	},
	{
		Name:          "Redbubble",
		URLPatterns:   []string{"redbubble.com"},
		BrandPatterns: []string{"redbubble"},
	},
	{
		Name:          "Zazzle",
		URLPatterns:   []string{"zazzle.com"},
		BrandPatterns: []string{"zazzle"},
	},
	{
		Name:          "Society6",
		URLPatterns:   []string{"society6.com"},
		BrandPatterns: []string{"society6"},
	},
	{
		Name:          "CustomCat",
		URLPatterns:   []string{"customcat.com"},
		BrandPatterns: []string{"customcat"},
	},
	{
		Name:          "SPOD",
		URLPatterns:   []string{"spod.com", "spreadshirt.com"},
		BrandPatterns: []string{"spreadshirt"},
	},
	{
		Name:          "Teelaunch",
		URLPatterns:   []string{"teelaunch.com"},
		BrandPatterns: []string{"teelaunch"},
	},
}

// fulfillmentKeywords are production-delay phrases typical of on-demand
// fulfillment. Real inventory ships immediately; POD items are produced
// after the order comes in.
var fulfillmentKeywords = []string{
	"business days processing",
	"5 7 business days",
	"3 5 business days",
	"7 10 business days",
	"processing time",
	"production time",
	"made after you order",
	"produced after purchase",
	"ships after production",
	"allow extra time for production",
}

// descriptionKeywords are the phrases sellers use to describe on-demand
// production itself.
var descriptionKeywords = []string{
	"print on demand",
	"printed on demand",
	"on demand",
	"made to order",
	"printed when you order",
	"custom printed",
	"dtg printed",
	"direct to garment",
	"sublimation printed",
	"each item is printed",
}

// shippingKeywords are fulfillment-network phrases: drop-ship style
// shipping language without a provider name attached.
var shippingKeywords = []string{
	"ships from our fulfillment partner",
	"shipped directly from the manufacturer",
	"ships from multiple locations",
	"fulfillment center",
	"tracking may take a few days",
	"ships separately",
}

// handmadeContradictions are phrases that indicate genuine artisan work and
// count against a POD verdict.
var handmadeContradictions = []string{
	"hand carved",
	"hand painted",
	"hand stitched",
	"hand thrown",
	"handmade by me",
	"made by hand",
	"one of a kind",
	"in my studio",
	"my own design hand",
	"each piece is unique",
}
