package config

type HTTP struct {
	Port               uint32   `env:"HTTP_PORT" envDefault:"8000"`
	Swagger            bool     `env:"HTTP_SWAGGER" envDefault:"true"`
	CorsAllowedOrigins []string `env:"HTTP_CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// TrustForwardedProto makes links follow X-Forwarded-Proto. Enable only
	// behind a proxy that overwrites the header.
	TrustForwardedProto bool `env:"HTTP_TRUST_FORWARDED_PROTO" envDefault:"false"`

	Pagination Pagination
}

// Pagination configures list endpoints. A PageSize of 0 returns unpaginated
// lists unless the client asks for a page size.
type Pagination struct {
	PageSize    int `env:"HTTP_PAGE_SIZE" envDefault:"10"`
	MaxPageSize int `env:"HTTP_MAX_PAGE_SIZE" envDefault:"100"`
}
