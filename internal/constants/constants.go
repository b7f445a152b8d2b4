package constants

const (
	// admin 後台一次最多列出的訂單數
	DefaultRecentOrderLimit int = 200
	MaxRecentOrderLimit     int = 1000

	// client 端購物車固定 key
	DefaultCartKey = "pkc_cart"

	AdminKeyHeader  = "x-admin-key"
	AdminKeyQuery   = "key"
	RequestIDHeader = "X-Request-Id"
)

// for api context
type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
)

type ENV string

const (
	Debug ENV = "debug"
	Dev   ENV = "development"
	Stag  ENV = "staging"
	Prod  ENV = "production"
)

type DBDriver string

const (
	DriverPostgres DBDriver = "postgres"
	DriverSqlite   DBDriver = "sqlite"
)
