package scraper

// The ss.lv markup is a versionless external contract. Every selector
// and magic string the crawler depends on lives here so that a markup
// drift fix touches one file only.

const (
	selFilterTable  = "#filter_tbl"
	selSearchButton = `input[type="submit"][value="Meklēt"]`
	selResultsRow   = "tr[id^='tr_']"

	// Per-row cells. The results table puts location in the 4th column,
	// rooms in the 5th, area in the 6th and price in the last one.
	selRowTitle    = "td.msg2 div.d1 a.am"
	selRowPrice    = "td.msga2-o.pp6:last-child a.amopt"
	selRowRooms    = "td.msga2-o.pp6:nth-child(5) a.amopt"
	selRowArea     = "td.msga2-o.pp6:nth-child(6) a.amopt"
	selRowLocation = "td.msga2-o.pp6:nth-child(4) a.amopt"
	selRowImage    = "td.msga2:nth-child(2) img"

	// Banner rows share the tr_ prefix but carry bnr_ in the id.
	bannerIDMarker = "bnr_"

	// Price cell placeholders for "wanted to buy" / "wanted to rent"
	// rows. These rows carry no real price and are not listings.
	placeholderBuying  = "pērku"
	placeholderRenting = "vēlos\nīret"

	// Thumbnail handling: the list view serves .th2. thumbnails; the
	// 800px variant is one path segment away. homes.lv.gif is the
	// site's no-image placeholder.
	noImageMarker = "homes.lv.gif"
	thumbSegment  = ".th2."
	largeSegment  = ".800."
)

// Filter form fields, filled only when the criteria bound is set.
const (
	selMinPrice = `input[name="topt[8][min]"]`
	selMaxPrice = `input[name="topt[8][max]"]`
	selMinRooms = `select[name="topt[1][min]"]`
	selMaxRooms = `select[name="topt[1][max]"]`
	selMinArea  = `input[name="topt[3][min]"]`
	selMaxArea  = `input[name="topt[3][max]"]`
)
