package scrape

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/Dekamik/pidgeon/internal/model"
)

// NewHemnet creates the hemnet.se source.
func NewHemnet(fetcher *Fetcher, maxPages int) Source {
	return &siteSource{
		name:     "hemnet",
		fetcher:  fetcher,
		maxPages: maxPages,
		listingLinks: SelectorChain{
			`a[href*="/bostad/"]`,
			`.listing-card a`,
		},
		nextPage: SelectorChain{
			`a[rel="next"]`,
			`.pagination .next`,
		},
		extract: extractHemnet,
	}
}

var (
	hemnetAddress = SelectorChain{
		`h1.property-address`,
		`.property-header h1`,
		`[data-testid="property-address"]`,
		`.address`,
	}
	hemnetPrice = SelectorChain{
		`.property-info__price`,
		`[data-testid="property-price"]`,
		`.price`,
		`.property-price`,
	}
	hemnetFee = SelectorChain{
		`.property-info__fee`,
		`[data-testid="property-fee"]`,
		`.fee`,
		`.monthly-fee`,
	}
	hemnetPricePerM2 = SelectorChain{
		`.property-info__price-per-m2`,
		`[data-testid="price-per-square-meter"]`,
		`.price-per-m2`,
	}
	hemnetRooms = SelectorChain{
		`.property-info__rooms`,
		`[data-testid="property-rooms"]`,
		`.rooms`,
	}
	hemnetYearBuilt = SelectorChain{
		`.property-info__year-built`,
		`[data-testid="construction-year"]`,
		`.year-built`,
	}
	hemnetCooperative = SelectorChain{
		`.property-info__association`,
		`[data-testid="housing-cooperative"]`,
		`.housing-cooperative`,
		`.association`,
	}
	hemnetFloor = SelectorChain{
		`.property-info__floor`,
		`[data-testid="floor"]`,
		`.floor`,
	}
)

func extractHemnet(doc *goquery.Document, pageURL string) model.RawListing {
	r := model.RawListing{
		URL:                pageURL,
		Source:             "hemnet",
		ScrapedAt:          nowStamp(),
		Address:            hemnetAddress.First(doc),
		Price:              hemnetPrice.First(doc),
		Fee:                hemnetFee.First(doc),
		PricePerM2:         hemnetPricePerM2.First(doc),
		Rooms:              hemnetRooms.First(doc),
		YearBuilt:          hemnetYearBuilt.First(doc),
		HousingCooperative: hemnetCooperative.First(doc),
	}

	r.Floor, r.TotalFloors = splitFloor(hemnetFloor.First(doc))

	// Amenities are rarely structured fields; scan the page text instead.
	text := pageText(doc)
	r.HasElevator = boolToken(containsAny(text, "hiss", "elevator", "lift"))
	r.HasBalcony = boolToken(containsAny(text,
		"balkong", "balcony", "terrass", "terrace", "uteplats", "patio"))

	return r
}
