package params

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type API struct {
	Addr string
	// DefaultDepth is used for book snapshots when the request carries no
	// usable depth parameter.
	DefaultDepth int
	// DefaultTradeLimit bounds GET /trades when no limit is given.
	DefaultTradeLimit int
	AllowedOrigins    []string
}

type Book struct {
	// TradeLogCap bounds the in-memory rolling trade history.
	TradeLogCap int
}

type Journal struct {
	// Path of the pebble trade journal. Empty disables journaling.
	Path string
}

type Config struct {
	API     API
	Book    Book
	Journal Journal
}

func Default() Config {
	return Config{
		API: API{
			Addr:              ":8080",
			DefaultDepth:      10,
			DefaultTradeLimit: 50,
			AllowedOrigins:    []string{"http://localhost:3000"},
		},
		Book: Book{
			TradeLogCap: 1000,
		},
		Journal: Journal{
			Path: "",
		},
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // loads .env from current directory
	}

	if addr := os.Getenv("API_ADDR"); addr != "" {
		cfg.API.Addr = addr
	}
	if depth := os.Getenv("BOOK_DEPTH_DEFAULT"); depth != "" {
		if n, err := strconv.Atoi(depth); err == nil && n >= 0 {
			cfg.API.DefaultDepth = n
		}
	}
	if limit := os.Getenv("TRADE_LIMIT_DEFAULT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n >= 0 {
			cfg.API.DefaultTradeLimit = n
		}
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.API.AllowedOrigins = strings.Split(origins, ",")
	}
	if capStr := os.Getenv("TRADE_LOG_CAP"); capStr != "" {
		if n, err := strconv.Atoi(capStr); err == nil && n > 0 {
			cfg.Book.TradeLogCap = n
		}
	}
	if path := os.Getenv("JOURNAL_PATH"); path != "" {
		cfg.Journal.Path = path
	}

	return cfg
}
