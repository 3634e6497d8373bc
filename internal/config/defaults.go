package config

// DefaultUserAgents provides a list of common user agents
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
}

// Product page template defaults
const (
	DefaultPriceSelector = "span#tp_price_block_total_price_ww"
	DefaultTitleSelector = "span#productTitle"
	DefaultCurrency      = "€"
)

const (
	DefaultHistoryFile = "data.json"
	DefaultURLsEnv     = "URLS"
)

// History store corruption policies
const (
	OnCorruptReset = "reset"
	OnCorruptFail  = "fail"
)
