package config

import (
	"time"

	"github.com/GoMediaVault/GoMediaVault/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Auth      Auth
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic        bool    // enable static file browsing (for development purposes only)
	CacheEnabled        bool    // true = enable cache, false = disable cache
	CleanPath           bool    // use clean path middleware to allow multi slash requests
	DisableRecover      bool    // disable recover middleware
	Domain              string  // domain name for the webserver
	Port                int     // listening port for the webserver
	ShutDownTime        int     // wait time for shutdown
	URL                 string  // base url for the webserver
	CookieEncryptionKey string  // encryption key for cookies
	Argon2Salt          string  // salt for argon2 hashing
	Session             Session // session settings
}

// Auth groups the authentication provider settings.
type Auth struct {
	LocalDB LocalDB
	OIDC    OIDC
	LDAP    LDAP
}

// LocalDB holds the local database authentication settings.
type LocalDB struct {
	Enabled bool
}

// OIDC holds the OpenID Connect provider settings.
type OIDC struct {
	Enabled      bool
	ProviderURL  string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	GroupsClaim  string
	RoleClaim    string
}

// LDAP holds the LDAP/Active Directory settings.
type LDAP struct {
	Enabled         bool
	Host            string
	Port            int
	UseSSL          bool
	UseTLS          bool
	SkipVerify      bool
	BindDN          string
	BindPassword    string
	BaseDN          string
	UserFilter      string
	GroupBaseDN     string
	GroupFilter     string
	GroupMemberAttr string
	UsernameAttr    string
	EmailAttr       string
	FirstNameAttr   string
	LastNameAttr    string
	GroupNameAttr   string
	Timeout         int
}
