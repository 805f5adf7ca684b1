// Package portal implements the OBIS client: form-based login with a CSRF
// token, cookie-backed sessions and HTML decoding of the two data pages.
package portal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/yoklama/backend/internal/domain/obis"
)

const (
	loginPath      = "/site/login"
	attendancePath = "/vs-ders/taken-lessons"
	gradesPath     = "/vs-ders/taken-grades"
)

// Client implements obis.Portal against the live OBIS site.
type Client struct {
	config Config
	logger *zap.Logger
}

// NewClient creates a portal client.
func NewClient(config Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: config,
		logger: logger,
	}, nil
}

// Login opens a fresh cookie-backed HTTP session, pulls the CSRF token off
// the login form and submits the credentials. A successful login redirects
// away from the login page; landing back on it means the portal rejected
// the credentials.
func (c *Client) Login(ctx context.Context, studentNumber, password string) (obis.PortalSession, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("portal: create cookie jar: %w", err)
	}

	s := &session{
		httpClient: &http.Client{
			Timeout: c.config.Timeout,
			Jar:     jar,
		},
		baseURL:   strings.TrimRight(c.config.BaseURL, "/"),
		userAgent: c.config.UserAgent,
		logger:    c.logger,
	}

	csrfToken, err := s.fetchCSRFToken(ctx)
	if err != nil {
		return nil, err
	}

	form := url.Values{
		"_csrf":                    {csrfToken},
		"LoginForm[username]":      {studentNumber},
		"LoginForm[password_hash]": {password},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("portal: build login request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", obis.ErrPortalUnavailable, err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("portal: read login response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest || landedOnLoginPage(doc) {
		c.logger.Warn("portal login rejected",
			zap.String("student_number", studentNumber),
			zap.Int("status", resp.StatusCode))
		s.Close()
		return nil, obis.ErrAuthenticationFailed
	}

	return s, nil
}

// landedOnLoginPage reports whether the response still shows the login
// form, which the portal serves again on bad credentials.
func landedOnLoginPage(doc *goquery.Document) bool {
	found := false
	doc.Find("form").EachWithBreak(func(_ int, form *goquery.Selection) bool {
		action, _ := form.Attr("action")
		if strings.Contains(action, loginPath) {
			found = true
			return false
		}
		return true
	})
	return found
}

// session is an authenticated portal session. It exists only after a
// successful Login; all fetches ride on the cookie jar filled there.
type session struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *zap.Logger
}

func (s *session) fetchCSRFToken(ctx context.Context) (string, error) {
	doc, err := s.getDocument(ctx, loginPath)
	if err != nil {
		return "", err
	}
	token, ok := doc.Find(`input[name="_csrf"]`).First().Attr("value")
	if !ok || token == "" {
		return "", obis.ErrLoginPageMalformed
	}
	return token, nil
}

// FetchAttendance retrieves and decodes the taken-lessons page.
func (s *session) FetchAttendance(ctx context.Context) ([]obis.AttendanceRecord, error) {
	doc, err := s.getDocument(ctx, attendancePath)
	if err != nil {
		return nil, err
	}
	records := parseAttendancePage(doc)
	if records == nil {
		s.logger.Warn("no attendance table found on page")
	}
	return records, nil
}

// FetchGrades retrieves and decodes the taken-grades page.
func (s *session) FetchGrades(ctx context.Context) ([]obis.LessonExams, error) {
	doc, err := s.getDocument(ctx, gradesPath)
	if err != nil {
		return nil, err
	}
	return parseGradesPage(doc), nil
}

// Close drops the session's idle connections. The server-side session is
// left to expire on its own.
func (s *session) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}

func (s *session) getDocument(ctx context.Context, path string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("portal: build request for %s: %w", path, err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", obis.ErrPortalUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: %s returned status %d",
			obis.ErrPortalUnavailable, path, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("portal: decode %s: %w", path, err)
	}
	return doc, nil
}
