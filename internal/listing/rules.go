package listing

import "github.com/shopsleuth/engine/internal/domain"

// productTypeOrder fixes the tie-break order for classification: when two
// categories have the same hit count, the earlier one wins.
var productTypeOrder = []domain.ProductType{
	domain.ProductTypeHandmade,
	domain.ProductTypeMassProduced,
	domain.ProductTypeDropshipped,
	domain.ProductTypePrintOnDemand,
}

// typePatterns maps each production category to its indicator phrases.
type typePatterns map[domain.ProductType][]string

// genericTypePatterns is the fallback table for platforms without a
// dedicated entry.
var genericTypePatterns = typePatterns{
	domain.ProductTypeHandmade: {
		"handmade", "hand made", "hand crafted", "handcrafted", "artisan",
		"hand sewn", "hand stitched", "hand painted", "hand carved",
		"made to order", "one of a kind", "ooak", "small batch",
		"made in my studio", "crafted by", "hand finished", "hand built",
		"hand thrown", "hand woven", "handwoven", "hand dyed",
	},
	domain.ProductTypeMassProduced: {
		"factory sealed", "brand new in box", "nib", "oem", "wholesale",
		"bulk", "retail packaging", "manufacturer warranty", "upc",
		"model number", "sku", "genuine oem", "factory direct",
		"in original packaging", "official licensed",
	},
	domain.ProductTypeDropshipped: {
		"ships from overseas", "ships from china", "allow 2 4 weeks",
		"allow 3 5 weeks", "international shipping only", "epacket",
		"supplier", "unbranded", "generic", "no brand",
		"ships directly from manufacturer", "overseas warehouse",
		"please allow extended delivery",
	},
	domain.ProductTypePrintOnDemand: {
		"printed on demand", "print on demand", "printed when you order",
		"made when you order", "printed just for you", "dtg",
		"direct to garment", "sublimation", "custom printed",
		"printed and shipped", "each item is printed",
	},
}

// platformTypePatterns carries per-marketplace indicator tables. Listing
// conventions differ by platform; these override the generic table wholesale.
var platformTypePatterns = map[string]typePatterns{
	"etsy": {
		domain.ProductTypeHandmade: {
			"handmade", "hand made", "handcrafted", "hand crafted",
			"made to order", "made in my studio", "one of a kind", "ooak",
			"hand sewn", "hand stitched", "hand painted", "hand carved",
			"hand thrown", "hand woven", "hand dyed", "small batch",
			"artisan", "my workshop", "lovingly made", "custom made for you",
		},
		domain.ProductTypeMassProduced: {
			"wholesale", "bulk order", "factory", "imported",
			"retail packaging", "brand new in box",
		},
		domain.ProductTypeDropshipped: {
			"ships from overseas", "allow 2 4 weeks", "allow 3 5 weeks",
			"supplier", "unbranded", "overseas warehouse",
		},
		domain.ProductTypePrintOnDemand: {
			"printed on demand", "print on demand", "printed just for you",
			"dtg", "sublimation", "custom printed", "printed and shipped",
			"production partner", "printed when you order",
		},
	},
	"amazon": {
		domain.ProductTypeHandmade: {
			"handmade", "amazon handmade", "handcrafted", "artisan",
			"hand painted", "made to order",
		},
		domain.ProductTypeMassProduced: {
			"factory sealed", "brand new in box", "oem", "upc",
			"model number", "manufacturer warranty", "retail packaging",
			"sold by amazon", "fulfilled by amazon", "official licensed",
		},
		domain.ProductTypeDropshipped: {
			"ships from overseas", "ships from china", "allow 2 4 weeks",
			"unbranded", "generic", "no brand", "epacket",
		},
		domain.ProductTypePrintOnDemand: {
			"printed on demand", "print on demand", "custom printed",
			"dtg", "direct to garment", "merch on demand",
		},
	},
	"ebay": {
		domain.ProductTypeHandmade: {
			"handmade", "hand made", "handcrafted", "artisan",
			"one of a kind", "ooak", "hand painted",
		},
		domain.ProductTypeMassProduced: {
			"factory sealed", "brand new in box", "nib", "oem", "upc",
			"wholesale", "bulk", "retail packaging", "new with tags", "nwt",
		},
		domain.ProductTypeDropshipped: {
			"ships from overseas", "ships from china", "allow 2 4 weeks",
			"allow 3 5 weeks", "international shipping only", "epacket",
			"unbranded", "generic", "overseas warehouse",
		},
		domain.ProductTypePrintOnDemand: {
			"printed on demand", "print on demand", "custom printed",
			"sublimation", "made when you order",
		},
	},
	"aliexpress": {
		domain.ProductTypeHandmade: {
			"handmade", "hand made", "handcrafted",
		},
		domain.ProductTypeMassProduced: {
			"factory", "wholesale", "bulk", "oem", "pieces per lot",
			"min order", "retail packaging",
		},
		domain.ProductTypeDropshipped: {
			"dropshipping", "drop shipping", "dropship", "supplier",
			"epacket", "ships from china", "overseas warehouse",
			"support dropshipping", "blind dropship",
		},
		domain.ProductTypePrintOnDemand: {
			"print on demand", "custom printed", "sublimation",
			"customized logo",
		},
	},
}

// trustFactorKeywords raise the authenticity score (+8 each).
var trustFactorKeywords = []string{
	"money back guarantee", "free returns", "authenticity guaranteed",
	"certificate of authenticity", "verified seller", "top rated seller",
	"detailed measurements", "care instructions", "process photos",
	"studio photos", "behind the scenes", "shop policies",
	"established", "family business", "locally made", "ships from my home",
	"video of the making", "signed by the artist",
}

// riskFactorKeywords lower the authenticity score (-12 each).
var riskFactorKeywords = []string{
	"stock photo", "stock image", "photo for reference only",
	"color may vary", "style may vary", "random color",
	"no returns accepted", "all sales final", "sold as is",
	"limited time offer", "flash sale", "hurry",
	"90 percent off", "clearance everything must go",
	"replica", "inspired by", "unauthorized", "aaa quality",
	"1 1 quality", "same as original",
}
