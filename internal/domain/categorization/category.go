// Package categorization assigns a primary/detailed category pair to each
// extracted transaction through a priority-ordered rule chain backed by an
// Aho-Corasick dictionary engine with fuzzy fallbacks.
package categorization

// Mapping is the classification output.
type Mapping struct {
	Primary  string
	Detailed string
}

// Primary categories.
const (
	PrimaryIncome         = "income"
	PrimaryPayment        = "payment"
	PrimaryGroceries      = "groceries"
	PrimaryDining         = "dining"
	PrimaryTransportation = "transportation"
	PrimaryUtilities      = "utilities"
	PrimarySubscriptions  = "subscriptions"
	PrimaryHealth         = "health"
	PrimaryShopping       = "shopping"
	PrimaryInvestment     = "investment"
	PrimaryOther          = "other"
)

// Detailed categories.
const (
	DetailSalary     = "salary"
	DetailInterest   = "interest"
	DetailDividend   = "dividend"
	DetailRentIncome = "rentIncome"
	DetailDeposit    = "deposit"

	DetailPayment           = "payment"
	DetailCreditCardPayment = "creditCardPayment"
	DetailLoanEscrow        = "loanEscrow"

	DetailInvestmentFees     = "investmentFees"
	DetailInvestmentPurchase = "investmentPurchase"
	DetailInvestmentTransfer = "investmentTransfer"
	DetailInvestmentDividend = "investmentDividend"
	DetailInvestmentInterest = "investmentInterest"
	DetailInvestmentSale     = "investmentSale"

	DetailGroceries = "groceries"

	DetailRestaurants = "restaurants"
	DetailCoffee      = "coffee"
	DetailFastFood    = "fastFood"

	DetailFuel      = "fuel"
	DetailParking   = "parking"
	DetailTransit   = "transit"
	DetailTolls     = "tolls"
	DetailAirfare   = "airfare"
	DetailRideshare = "rideshare"

	DetailTelecom = "telecom"
	DetailEnergy  = "energy"

	DetailStreaming = "streaming"
	DetailSoftware  = "software"

	DetailPharmacy = "pharmacy"
	DetailMedical  = "medical"

	DetailGeneral = "general"
	DetailOther   = "other"
)

// OtherMapping is the default when no rule resolves.
var OtherMapping = Mapping{Primary: PrimaryOther, Detailed: DetailOther}

// Entry is one dictionary pattern. Exact entries are merchant names and
// outrank keyword entries; among equals the longer pattern wins, which is
// how "COSTCO GAS" beats "COSTCO".
type Entry struct {
	Pattern  string
	Primary  string
	Detailed string
	Exact    bool
}

// Dictionaries returns the built-in merchant and keyword dictionary.
func Dictionaries() []Entry {
	var entries []Entry

	add := func(primary, detailed string, exact bool, patterns ...string) {
		for _, p := range patterns {
			entries = append(entries, Entry{Pattern: p, Primary: primary, Detailed: detailed, Exact: exact})
		}
	}

	// Groceries. COSTCO covers warehouse purchases; the gas pumps bill as
	// COSTCO GAS and belong to transportation below.
	add(PrimaryGroceries, DetailGroceries, true,
		"COSTCO WHSE", "COSTCO", "TRADER JOE", "WHOLE FOODS", "WHOLEFDS",
		"SAFEWAY", "KROGER", "ALBERTSONS", "FRED MEYER", "FRED-MEYER", "QFC",
		"WINCO", "ALDI", "PUBLIX", "WEGMANS", "H MART", "SPROUTS",
		"GROCERY OUTLET", "PCC COMMUNITY", "LIDL",
	)
	add(PrimaryGroceries, DetailGroceries, false, "GROCERY", "SUPERMARKET")

	// Dining: chains plus the point-of-sale prefixes small restaurants
	// bill through.
	add(PrimaryDining, DetailCoffee, true, "STARBUCKS", "DUNKIN", "PEETS COFFEE", "DUTCH BROS")
	add(PrimaryDining, DetailFastFood, true,
		"MCDONALD", "TACO BELL", "BURGER KING", "WENDY'S", "KFC",
		"CHICK-FIL-A", "SUBWAY", "CHIPOTLE", "FIVE GUYS", "PANDA EXPRESS",
		"JACK IN THE BOX", "POPEYES",
	)
	add(PrimaryDining, DetailRestaurants, true,
		"PANERA", "OLIVE GARDEN", "APPLEBEE", "CHEESECAKE FACTORY",
		"DOORDASH", "GRUBHUB", "UBER EATS", "POSTMATES",
		"TST*", "SQ *", "TOAST", "RBL*",
	)
	add(PrimaryDining, DetailRestaurants, false,
		"RESTAURANT", "CAFE", "COFFEE", "BAKERY", "BISTRO", "GRILL",
		"SUSHI", "RAMEN", "PIZZERIA", "PIZZA", "TAQUERIA", "DINER",
	)

	// Transportation: fuel, parking, transit, tolls, airlines.
	add(PrimaryTransportation, DetailFuel, true,
		"COSTCO GAS", "SHELL OIL", "CHEVRON", "EXXON", "MOBIL", "ARCO",
		"TEXACO", "CIRCLE K", "76 - ", "SAFEWAY FUEL",
	)
	add(PrimaryTransportation, DetailFuel, false, "GAS STATION", "FUEL")
	add(PrimaryTransportation, DetailRideshare, true, "UBER TRIP", "UBER *TRIP", "LYFT")
	add(PrimaryTransportation, DetailParking, true, "PARKMOBILE", "PAYBYPHONE", "DIAMOND PARKING")
	add(PrimaryTransportation, DetailParking, false, "PARKING")
	add(PrimaryTransportation, DetailTolls, true, "WSDOT-GOODTOGO", "GOOD TO GO", "E-ZPASS", "EZPASS", "FASTRAK", "SUNPASS")
	add(PrimaryTransportation, DetailTolls, false, "TOLL")
	add(PrimaryTransportation, DetailTransit, true, "AMTRAK", "SOUND TRANSIT", "ORCA", "BART", "MTA")
	add(PrimaryTransportation, DetailTransit, false, "METRO TRANSIT", "TRANSIT")
	add(PrimaryTransportation, DetailAirfare, true,
		"ALASKA AIR", "DELTA AIR", "UNITED AIR", "AMERICAN AIR",
		"SOUTHWEST AIR", "JETBLUE", "SPIRIT AIR",
	)
	add(PrimaryTransportation, DetailAirfare, false, "AIRLINES")

	// Utilities and telecom.
	add(PrimaryUtilities, DetailTelecom, true,
		"COMCAST", "XFINITY", "VERIZON", "AT&T", "T-MOBILE", "TMOBILE",
		"SPECTRUM", "CENTURYLINK", "ZIPLY",
	)
	add(PrimaryUtilities, DetailEnergy, true,
		"PUGET SOUND ENERGY", "PSE BILL", "PG&E", "SEATTLE CITY LIGHT",
		"CON EDISON", "DUKE ENERGY",
	)
	add(PrimaryUtilities, DetailEnergy, false, "ELECTRIC", "WATER UTILITY", "SEWER", "UTILITY")
	add(PrimaryUtilities, DetailTelecom, false, "INTERNET", "WIRELESS")

	// Subscriptions, streaming vs software.
	add(PrimarySubscriptions, DetailStreaming, true,
		"NETFLIX", "HULU", "SPOTIFY", "DISNEY PLUS", "DISNEYPLUS",
		"HBO MAX", "YOUTUBE PREMIUM", "YOUTUBE TV", "PARAMOUNT+",
		"PEACOCK", "AUDIBLE", "PRIME VIDEO", "APPLE.COM/BILL",
	)
	add(PrimarySubscriptions, DetailSoftware, true,
		"ADOBE", "MICROSOFT 365", "MSFT", "GITHUB", "DROPBOX", "ICLOUD",
		"GOOGLE STORAGE", "GOOGLE *", "OPENAI", "CHATGPT", "1PASSWORD",
	)
	add(PrimarySubscriptions, DetailGeneral, false, "SUBSCRIPTION", "MEMBERSHIP FEE")

	// Health and personal care.
	add(PrimaryHealth, DetailPharmacy, true, "CVS", "WALGREENS", "RITE AID", "BARTELL")
	add(PrimaryHealth, DetailPharmacy, false, "PHARMACY")
	add(PrimaryHealth, DetailMedical, false,
		"DENTAL", "CLINIC", "MEDICAL", "HOSPITAL", "URGENT CARE",
		"OPTOMETR", "DERMATOLOG", "PHYSICAL THERAPY",
	)

	// Shopping.
	add(PrimaryShopping, DetailGeneral, true,
		"AMAZON", "AMZN", "TARGET", "WALMART", "WAL-MART", "WMT",
		"BEST BUY", "HOME DEPOT", "LOWES", "IKEA", "NORDSTROM", "MACY",
		"ROSS STORES", "TJ MAXX", "TJMAXX", "MARSHALLS", "EBAY", "ETSY",
		"NIKE", "REI", "DOLLAR TREE", "DOLLAR GENERAL", "FIVE BELOW",
	)

	return entries
}

// issuerBrands are card networks and issuers whose names show up inside
// payment descriptions. A hit on one of these in a payment context cannot
// be resolved to a merchant category.
var issuerBrands = map[string]struct{}{
	"AMEX": {}, "AMERICAN EXPRESS": {}, "DISCOVER": {}, "CHASE": {},
	"CAPITAL ONE": {}, "CITI": {}, "BARCLAYS": {}, "SYNCHRONY": {},
	"VISA": {}, "MASTERCARD": {},
}
