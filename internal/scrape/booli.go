package scrape

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/Dekamik/pidgeon/internal/model"
)

// NewBooli creates the booli.se source.
func NewBooli(fetcher *Fetcher, maxPages int) Source {
	return &siteSource{
		name:     "booli",
		fetcher:  fetcher,
		maxPages: maxPages,
		listingLinks: SelectorChain{
			`a[href*="/bostad/"]`,
			`.search-list-item a`,
		},
		nextPage: SelectorChain{
			`a.next`,
			`.pagination .next-page`,
		},
		extract: extractBooli,
	}
}

var (
	booliAddress = SelectorChain{
		`h1.property-title`,
		`.property-header h1`,
		`[data-testid="property-address"]`,
		`.address h1`,
		`.listing-address`,
	}
	booliPrice = SelectorChain{
		`.property-price .price`,
		`[data-testid="property-price"]`,
		`.sold-price`,
		`.listing-price`,
		`.final-price`,
	}
	booliFee = SelectorChain{
		`.property-fee`,
		`[data-testid="monthly-fee"]`,
		`.monthly-fee`,
		`.avgift`,
	}
	booliPricePerM2 = SelectorChain{
		`.price-per-m2`,
		`[data-testid="price-per-square-meter"]`,
		`.square-meter-price`,
	}
	booliRooms = SelectorChain{
		`.property-rooms`,
		`[data-testid="rooms"]`,
		`.rooms`,
		`.antal-rum`,
	}
	booliYearBuilt = SelectorChain{
		`.construction-year`,
		`[data-testid="construction-year"]`,
		`.year-built`,
	}
	booliCooperative = SelectorChain{
		`.housing-association`,
		`[data-testid="housing-cooperative"]`,
		`.cooperative`,
	}
	booliFloor = SelectorChain{
		`.floor-info`,
		`[data-testid="floor"]`,
		`.floor`,
	}
)

func extractBooli(doc *goquery.Document, pageURL string) model.RawListing {
	r := model.RawListing{
		URL:                pageURL,
		Source:             "booli",
		ScrapedAt:          nowStamp(),
		Address:            booliAddress.First(doc),
		Price:              booliPrice.First(doc),
		Fee:                booliFee.First(doc),
		PricePerM2:         booliPricePerM2.First(doc),
		Rooms:              booliRooms.First(doc),
		YearBuilt:          booliYearBuilt.First(doc),
		HousingCooperative: booliCooperative.First(doc),
	}

	r.Floor, r.TotalFloors = splitFloor(booliFloor.First(doc))

	text := pageText(doc)
	r.HasElevator = boolToken(containsAny(text, "hiss", "elevator", "lift"))
	r.HasBalcony = boolToken(containsAny(text,
		"balkong", "balcony", "terrass", "terrace", "uteplats", "patio"))

	return r
}
