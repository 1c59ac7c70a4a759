package schoolpass

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/schoolpass-automations/automations/pkg/logger"
)

const (
	pathFindUserInfo   = "findspruserinfo"
	pathUser           = "User"
	pathAuthToken      = "Auth/token"
	pathBus            = "Bus"
	pathManifestReport = "v2/Reports/BusBoardingManifestReport"
)

// API is the SchoolPass domain facade. It owns one Session; call Init
// before any data operation. An API is not safe for concurrent use.
type API struct {
	cfg         Config
	opts        []Option
	session     *Session
	client      *Client
	homebase    *Client
	logger      *slog.Logger
	initialized bool
}

// NewAPI creates an uninitialized API for cfg. Timeout and rate limit
// settings from cfg apply unless overridden by opts. Config.Validate is
// expected to have rejected negative values.
func NewAPI(cfg Config, opts ...Option) *API {
	all := make([]Option, 0, len(opts)+2)
	all = append(all,
		WithTimeout(cfg.HTTPTimeout),
		WithMaxRateLimitRetries(cfg.MaxRateLimitRetries),
	)
	all = append(all, opts...)

	o := defaultOptions()
	for _, opt := range all {
		opt(o)
	}

	a := &API{
		cfg:     cfg,
		opts:    all,
		session: &Session{},
		logger:  o.logger.With(logger.Component("schoolpass")),
	}
	a.client = NewClient(a.session, a.refreshToken, all...)
	return a
}

// Session returns a copy of the current session state.
func (a *API) Session() Session { return *a.session }

// Init runs the bootstrap handshake. On failure the API stays
// uninitialized and the error wraps ErrInitFailed.
func (a *API) Init(ctx context.Context) error {
	a.initialized = false
	*a.session = Session{}
	a.homebase = nil

	if err := a.handshake(ctx); err != nil {
		a.logger.ErrorContext(ctx, "Error occurred while trying to initialize the SchoolPass API",
			logger.Operation("init"), logger.Error(err))
		return fmt.Errorf("%w: %w", ErrInitFailed, err)
	}

	a.initialized = true
	return nil
}

func (a *API) handshake(ctx context.Context) error {
	var rc RuntimeConfig
	err := a.client.Send(ctx, Request{Method: http.MethodGet, Path: a.cfg.ConfigURL, SkipReauth: true}, &rc)
	if err != nil {
		return fmt.Errorf("fetch runtime config: %w", err)
	}
	if rc.DefaultHomeBaseURL == "" || rc.AuthToken == "" {
		return ErrInvalidRuntimeConfig
	}

	a.homebase = NewClient(&Session{BaseURL: rc.DefaultHomeBaseURL, Token: rc.AuthToken}, nil, a.opts...)

	infos, err := a.FindUserInfo(ctx, a.cfg.Username)
	if err != nil {
		return err
	}
	if len(infos) == 0 || infos[0].SchoolConnection == nil || infos[0].SchoolConnection.APIURL == "" {
		return fmt.Errorf("%w: no school connection for %q", ErrUserNotFound, a.cfg.Username)
	}
	conn := infos[0].SchoolConnection

	a.session.BaseURL = strings.TrimRight(conn.APIURL, "/") + "/api"
	a.session.Token = rc.AuthToken
	a.session.SchoolCode = conn.AppCode

	users, err := a.GetAuthenticatingUser(ctx, conn.AppCode, a.cfg.Username, a.cfg.Password)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return fmt.Errorf("%w: %q is not a user of school %d", ErrUserNotFound, a.cfg.Username, conn.AppCode)
	}
	a.session.User = users[0]

	a.logger.DebugContext(ctx, "Authenticating SchoolPass user",
		logger.Operation("init"), slog.String("password_mode", string(a.cfg.PasswordMode)))
	token, err := a.Authenticate(ctx, conn.AppCode, users[0].UserType, users[0].InternalID, a.cfg.PasswordMode.Apply(a.cfg.Password))
	if err != nil {
		return err
	}
	a.session.Token = token
	return nil
}

// refreshToken is the re-authentication callback of the session client.
func (a *API) refreshToken(ctx context.Context) (string, error) {
	return a.Authenticate(ctx, a.session.SchoolCode, a.session.User.UserType, a.session.User.InternalID,
		a.cfg.PasswordMode.Apply(a.cfg.Password))
}

// FindUserInfo looks up the school connection of a login on the home base.
func (a *API) FindUserInfo(ctx context.Context, email string) ([]UserInfo, error) {
	if a.homebase == nil {
		return nil, ErrNotInitialized
	}

	var infos []UserInfo
	query := url.Values{"emailAddress": {email}}
	if err := a.homebase.Do(ctx, http.MethodGet, pathFindUserInfo, nil, query, &infos); err != nil {
		a.logger.ErrorContext(ctx, "Error fetching user info", logger.Operation("findUserInfo"), logger.Error(err))
		return nil, err
	}
	return infos, nil
}

// GetAuthenticatingUser resolves the user record for a login within a school.
func (a *API) GetAuthenticatingUser(ctx context.Context, schoolCode int, username, password string) ([]User, error) {
	var users []User
	query := url.Values{
		"schoolCode": {strconv.Itoa(schoolCode)},
		"login":      {username},
		"password":   {password},
	}
	err := a.client.Send(ctx, Request{Method: http.MethodGet, Path: pathUser, Query: query, SkipReauth: true}, &users)
	if err != nil {
		a.logger.ErrorContext(ctx, "Error fetching info about authenticating user",
			logger.Operation("getAuthenticatingUser"), logger.Error(err))
		return nil, err
	}
	return users, nil
}

// Authenticate exchanges user credentials for an API token. A 401 from the
// token endpoint is final.
func (a *API) Authenticate(ctx context.Context, schoolCode, userType, userID int, password string) (string, error) {
	var raw []byte
	body := authRequest{SchoolCode: schoolCode, UserType: userType, UserID: userID, Password: password}
	err := a.client.Send(ctx, Request{Method: http.MethodPost, Path: pathAuthToken, Body: body, SkipReauth: true}, &raw)
	if err == nil {
		var token string
		token, err = parseToken(raw)
		if err == nil {
			return token, nil
		}
	}

	a.logger.ErrorContext(ctx, "Error authenticating user", logger.Operation("authenticate"), logger.Error(err))
	return "", err
}

// ListBuses returns every bus of the school.
func (a *API) ListBuses(ctx context.Context) ([]Bus, error) {
	if !a.initialized {
		return nil, ErrNotInitialized
	}

	var buses []Bus
	if err := a.client.Do(ctx, http.MethodGet, pathBus, nil, nil, &buses); err != nil {
		return nil, a.requestFailed(ctx, "listBuses", nil, err)
	}
	return buses, nil
}

// RunBoardingManifestReport runs the Bus Boarding Manifest report.
func (a *API) RunBoardingManifestReport(ctx context.Context, opts ReportOptions) ([]ManifestReportItem, error) {
	if !a.initialized {
		return nil, ErrNotInitialized
	}

	var items []ManifestReportItem
	if err := a.client.Do(ctx, http.MethodPost, pathManifestReport, opts, nil, &items); err != nil {
		return nil, a.requestFailed(ctx, "runBoardingManifestReport", opts, err)
	}
	return items, nil
}

func (a *API) requestFailed(ctx context.Context, op string, input any, err error) error {
	reqErr := newRequestError(op, err)

	attrs := []any{logger.Operation(op), logger.Error(err)}
	if input != nil {
		attrs = append(attrs, logger.Input(input))
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		attrs = append(attrs, logger.StatusCode(apiErr.StatusCode))
	}
	a.logger.DebugContext(ctx, reqErr.Message, attrs...)

	return reqErr
}

// parseToken accepts the token as a JSON string or as plain text.
func parseToken(raw []byte) (string, error) {
	raw = bytes.TrimSpace(raw)
	var token string
	if err := json.Unmarshal(raw, &token); err != nil {
		token = string(raw)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}
