package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	msgSessionExpired    = "Your session expired, login again please"
	msgAPISessionExpired = "Your API session expired, login again please"
	msgRegistered        = "User registered. Check your email for activation code"
	msgActivated         = "User activated successfully, login please"

	csrfField = "csrf_token"
)

// API is the subset of the account API the front-end calls.
type API interface {
	Register(ctx context.Context, username, email, password string) error
	Activate(ctx context.Context, code string) error
	Login(ctx context.Context, email, password string) (string, error)
	SessionCheck(ctx context.Context, token string) (string, error)
}

// RegisterForm is the sign-up form.
type RegisterForm struct {
	Username string `form:"username" validate:"required,min=4,max=20"`
	Email    string `form:"email" validate:"required,min=4,max=50"`
	Password string `form:"password" validate:"required,min=8,max=20"`
}

// ActivationForm carries the mailed code.
type ActivationForm struct {
	ActivationCode string `form:"activation_code" validate:"required,min=4,max=1024"`
}

// LoginForm is the sign-in form.
type LoginForm struct {
	Email    string `form:"email" validate:"required,min=4,max=50"`
	Password string `form:"password" validate:"required,min=8,max=20"`
}

type page struct {
	Title    string
	LoggedIn bool
	Email    string
	CSRF     string
	Form     interface{}
	Flashes  []Flash
	Errors   []string
}

// SessionHandler is a page that needs a live API session.
type SessionHandler func(c echo.Context, email, token string) error

// Controller serves the HTML front-end.
type Controller struct {
	api     API
	cookies *CookieManager
	logger  *slog.Logger
}

// NewController creates the front-end controller.
func NewController(api API, cookies *CookieManager, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{api: api, cookies: cookies, logger: logger}
}

// Register wires the front-end routes onto e.
func (ctl *Controller) Register(e *echo.Echo) {
	csrf := middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:" + csrfField,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   ctl.cookies.Secure,
		CookieSameSite: http.SameSiteLaxMode,
	})

	e.GET("/", ctl.Home)
	for path, h := range map[string]echo.HandlerFunc{
		"/login":    ctl.Login,
		"/register": ctl.SignUp,
		"/activate": ctl.Activate,
	} {
		e.GET(path, h, csrf)
		e.POST(path, h, csrf)
	}
	e.GET("/dashboard", ctl.RequireSession(ctl.Dashboard))
	e.GET("/logout", ctl.Logout)
	e.POST("/logout", ctl.Logout)
	e.Any("/admin", ctl.Admin)
}

// RequireSession redirects to /login unless the session cookie holds a token
// the API still accepts.
func (ctl *Controller) RequireSession(h SessionHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := ctl.cookies.Session(c)
		if token == "" {
			ctl.cookies.AddFlash(c, "warning", msgSessionExpired)
			return c.Redirect(http.StatusFound, "/login")
		}
		email, err := ctl.api.SessionCheck(c.Request().Context(), token)
		if err != nil {
			ctl.logger.DebugContext(c.Request().Context(), "session check failed", "err", err)
			ctl.cookies.AddFlash(c, "warning", msgAPISessionExpired)
			return c.Redirect(http.StatusFound, "/login")
		}
		return h(c, email, token)
	}
}

// Home renders the landing page.
func (ctl *Controller) Home(c echo.Context) error {
	return ctl.render(c, "home.html", page{Title: "Home", LoggedIn: ctl.cookies.Session(c) != ""})
}

// Login shows the login form and exchanges credentials for a session cookie.
// A visitor whose cookie is still accepted goes straight to the dashboard.
func (ctl *Controller) Login(c echo.Context) error {
	ctx := c.Request().Context()
	if token := ctl.cookies.Session(c); token != "" {
		if _, err := ctl.api.SessionCheck(ctx, token); err == nil {
			return c.Redirect(http.StatusFound, "/dashboard")
		}
	}

	var form LoginForm
	p := page{Title: "Login", Form: &form}
	if c.Request().Method == http.MethodPost {
		errs, err := bindForm(c, &form)
		if err != nil {
			return err
		}
		if len(errs) == 0 {
			token, err := ctl.api.Login(ctx, form.Email, form.Password)
			if err == nil {
				ctl.cookies.SetSession(c, token)
				return c.Redirect(http.StatusFound, "/dashboard")
			}
			ctl.logger.InfoContext(ctx, "login failed", "email", form.Email, "err", err)
			p.Flashes = append(p.Flashes, Flash{Category: "danger", Message: "Login failed: " + apiMessage(err)})
		}
		p.Errors = errs
	}
	return ctl.render(c, "login.html", p)
}

// SignUp shows the registration form and forwards it to the API.
func (ctl *Controller) SignUp(c echo.Context) error {
	var form RegisterForm
	p := page{Title: "Register", Form: &form}
	if c.Request().Method == http.MethodPost {
		errs, err := bindForm(c, &form)
		if err != nil {
			return err
		}
		if len(errs) == 0 {
			if err := ctl.api.Register(c.Request().Context(), form.Username, form.Email, form.Password); err != nil {
				ctl.cookies.AddFlash(c, "danger", "Error while registering user, please try again: "+apiMessage(err))
				return c.Redirect(http.StatusFound, "/register")
			}
			ctl.cookies.AddFlash(c, "success", msgRegistered)
			return c.Redirect(http.StatusFound, "/activate")
		}
		p.Errors = errs
	}
	return ctl.render(c, "register.html", p)
}

// Activate shows the activation form and forwards the code to the API.
func (ctl *Controller) Activate(c echo.Context) error {
	var form ActivationForm
	p := page{Title: "Activate", Form: &form}
	if c.Request().Method == http.MethodPost {
		errs, err := bindForm(c, &form)
		if err != nil {
			return err
		}
		if len(errs) == 0 {
			if err := ctl.api.Activate(c.Request().Context(), form.ActivationCode); err != nil {
				ctl.cookies.AddFlash(c, "danger", "Error while activating user, please try again: "+apiMessage(err))
				return c.Redirect(http.StatusFound, "/activate")
			}
			ctl.cookies.AddFlash(c, "success", msgActivated)
			return c.Redirect(http.StatusFound, "/login")
		}
		p.Errors = errs
	}
	return ctl.render(c, "activate.html", p)
}

// Dashboard renders the logged in landing page.
func (ctl *Controller) Dashboard(c echo.Context, email, _ string) error {
	return ctl.render(c, "dashboard.html", page{Title: "Dashboard", LoggedIn: true, Email: email})
}

// Logout drops the session cookie.
func (ctl *Controller) Logout(c echo.Context) error {
	ctl.cookies.ClearSession(c)
	return c.Redirect(http.StatusFound, "/login")
}

// Admin is not implemented yet.
func (ctl *Controller) Admin(c echo.Context) error {
	return c.String(http.StatusNotImplemented, "not implemented")
}

func (ctl *Controller) render(c echo.Context, name string, p page) error {
	if token, ok := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string); ok {
		p.CSRF = token
	}
	p.Flashes = append(ctl.cookies.PopFlashes(c), p.Flashes...)
	return c.Render(http.StatusOK, name, p)
}

// bindForm binds and validates a posted form. Validation failures are
// returned as messages, other errors abort the request.
func bindForm(c echo.Context, form interface{}) ([]string, error) {
	if err := c.Bind(form); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	err := c.Validate(form)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return msgs, nil
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is not valid", field)
	}
}

func apiMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "API is unreachable"
}
