package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMediaVault/GoMediaVault/internal/auth"
	"github.com/GoMediaVault/GoMediaVault/internal/config"
	"github.com/GoMediaVault/GoMediaVault/internal/db/models"
	"github.com/GoMediaVault/GoMediaVault/internal/web/handler"
	"github.com/GoMediaVault/GoMediaVault/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = "/login"

	authTypeLocal = "local"
	authTypeLDAP  = "ldap"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	localAuth *auth.LocalProvider
	ldapAuth  *auth.LDAPProvider
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New("app or db is nil")
	}

	s.db = db
	s.cfg = cfg

	if cfg.Auth.LocalDB.Enabled {
		s.localAuth = auth.NewLocalProvider(db)
	}

	if cfg.Auth.LDAP.Enabled {
		ldapConfig := &auth.LDAPConfig{
			Enabled:         cfg.Auth.LDAP.Enabled,
			Host:            cfg.Auth.LDAP.Host,
			Port:            cfg.Auth.LDAP.Port,
			UseSSL:          cfg.Auth.LDAP.UseSSL,
			UseTLS:          cfg.Auth.LDAP.UseTLS,
			SkipVerify:      cfg.Auth.LDAP.SkipVerify,
			BindDN:          cfg.Auth.LDAP.BindDN,
			BindPassword:    cfg.Auth.LDAP.BindPassword,
			BaseDN:          cfg.Auth.LDAP.BaseDN,
			UserFilter:      cfg.Auth.LDAP.UserFilter,
			GroupBaseDN:     cfg.Auth.LDAP.GroupBaseDN,
			GroupFilter:     cfg.Auth.LDAP.GroupFilter,
			GroupMemberAttr: cfg.Auth.LDAP.GroupMemberAttr,
			UsernameAttr:    cfg.Auth.LDAP.UsernameAttr,
			EmailAttr:       cfg.Auth.LDAP.EmailAttr,
			FirstNameAttr:   cfg.Auth.LDAP.FirstNameAttr,
			LastNameAttr:    cfg.Auth.LDAP.LastNameAttr,
			GroupNameAttr:   cfg.Auth.LDAP.GroupNameAttr,
			Timeout:         cfg.Auth.LDAP.Timeout,
		}

		ldapAuth, err := auth.NewLDAPProvider(ldapConfig, db)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize LDAP provider - LDAP authentication will be disabled")
		} else {
			s.ldapAuth = ldapAuth
		}
	}

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// renderData builds the common template data for the login page.
func (s *Service) renderData() fiber.Map {
	return fiber.Map{
		"local_db_enabled": s.cfg.Auth.LocalDB.Enabled,
		"ldap_enabled":     s.cfg.Auth.LDAP.Enabled,
		"OIDCEnabled":      s.cfg.Auth.OIDC.Enabled,
	}
}

// renderError renders the login page with an error message.
func (s *Service) renderError(c *fiber.Ctx, message string) error {
	data := s.renderData()
	data["error"] = message

	return c.Render("login", data)
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render("login", s.renderData())
}

// pickAuthType resolves the authentication method for a login attempt. An
// empty request picks the first enabled method; an explicit request must
// name an enabled one.
func (s *Service) pickAuthType(requested string) (string, error) {
	switch requested {
	case "":
		switch {
		case s.cfg.Auth.LocalDB.Enabled:
			return authTypeLocal, nil
		case s.cfg.Auth.LDAP.Enabled:
			return authTypeLDAP, nil
		default:
			return "", ErrNoAuthMethod
		}
	case authTypeLocal:
		if !s.cfg.Auth.LocalDB.Enabled || s.localAuth == nil {
			return "", ErrLocalAuthDisabled
		}

		return authTypeLocal, nil
	case authTypeLDAP:
		if !s.cfg.Auth.LDAP.Enabled || s.ldapAuth == nil {
			return "", ErrLDAPAuthDisabled
		}

		return authTypeLDAP, nil
	default:
		return "", ErrInvalidAuthMethod
	}
}

// authenticate verifies the credentials against the chosen provider.
func (s *Service) authenticate(authType, username, password string) (*models.User, error) {
	switch authType {
	case authTypeLocal:
		if s.localAuth == nil {
			return nil, ErrLocalAuthDisabled
		}

		user, err := s.localAuth.Authenticate(username, password)
		if err != nil {
			return nil, ErrInvalidCredentials
		}

		return user, nil
	case authTypeLDAP:
		if s.ldapAuth == nil {
			return nil, ErrLDAPAuthDisabled
		}

		user, groups, err := s.ldapAuth.Authenticate(username, password)
		if err != nil {
			return nil, ErrInvalidCredentials
		}

		// Sync LDAP groups so group mappings can raise the effective role
		if len(groups) > 0 {
			authService := auth.NewService(s.db)
			if errSync := authService.SyncUserGroups(user.ID, groups, models.GroupSourceLDAP); errSync != nil {
				log.Error().Err(errSync).Uint64("user_id", user.ID).Msg("Failed to sync LDAP groups")
			}
		}

		return user, nil
	default:
		return nil, ErrInvalidAuthMethod
	}
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	var in struct {
		Username string `form:"username"`
		Password string `form:"password"`
		AuthType string `form:"auth_type"`
	}

	if err := c.BodyParser(&in); err != nil {
		return s.renderError(c, ErrInvalidFormData.Error())
	}

	authType, err := s.pickAuthType(in.AuthType)
	if err != nil {
		return s.renderError(c, err.Error())
	}

	user, err := s.authenticate(authType, in.Username, in.Password)
	if err != nil {
		return s.renderError(c, ErrInvalidCredentials.Error())
	}

	// check if user is active
	if !user.Active {
		return s.renderError(c, "Account is inactive")
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")
		return s.renderError(c, "Internal server error")
	}

	userSession := &session.Data{
		User: *user,
	}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return s.renderError(c, "Internal server error")
	}

	// set login cookie
	cookieSettings := &fiber.Cookie{
		Name:     "session",
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax", // TODO: make this configurable
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	return c.Redirect("/library")
}
