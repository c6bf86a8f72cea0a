// Package search gathers public interview-question material for a candidate's
// tech stack. Results only enrich question generation; every failure degrades
// to an empty context so the interview never depends on the open web.
package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/talentscout/hiring-assistant/internal/logger"
	"github.com/talentscout/hiring-assistant/internal/types"
)

// DefaultTimeout is the per-request HTTP timeout.
const DefaultTimeout = 10 * time.Second

// DefaultUserAgent is the user agent string for search requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; TalentScout/1.0)"

// defaultEndpoint is the HTML (non-JS) DuckDuckGo results page.
const defaultEndpoint = "https://html.duckduckgo.com/html/"

// maxResultsPerQuery caps how many results each query contributes.
const maxResultsPerQuery = 5

// Researcher produces background material for question generation.
type Researcher interface {
	// QuestionContext returns reference text about interview questions for
	// the candidate's stack, or "" when nothing could be gathered.
	QuestionContext(ctx context.Context, profile *types.CandidateProfile) string
}

// Result is a single search hit.
type Result struct {
	Title   string
	Snippet string
}

// Error represents a failure of one search request.
type Error struct {
	Query   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("search error for %q: %s: %v", e.Query, e.Message, e.Cause)
	}
	return fmt.Sprintf("search error for %q: %s", e.Query, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Client queries the DuckDuckGo HTML endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	userAgent  string
}

// NewClient creates a search client with default settings.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		endpoint:   defaultEndpoint,
		userAgent:  DefaultUserAgent,
	}
}

// NewClientWithEndpoint creates a client against a custom endpoint.
func NewClientWithEndpoint(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		userAgent:  DefaultUserAgent,
	}
}

var _ Researcher = (*Client)(nil)

// QuestionContext runs the query shapes for the candidate's stack
// concurrently and merges the results into prompt-ready reference text.
// Failures are logged and skipped.
func (c *Client) QuestionContext(ctx context.Context, profile *types.CandidateProfile) string {
	queries := questionQueries(profile)

	sections := make([]string, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, query := range queries {
		g.Go(func() error {
			results, err := c.Search(gctx, query)
			if err != nil {
				logger.Warn().Err(err).Str("query", query).Msg("question search failed")
				return nil
			}
			sections[i] = renderResults(query, results)
			return nil
		})
	}
	_ = g.Wait()

	var nonEmpty []string
	for _, s := range sections {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	return strings.Join(nonEmpty, "\n\n")
}

// Search executes one query and parses the result list.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	reqURL := c.endpoint + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &Error{Query: query, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Query: query, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Query: query, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &Error{Query: query, Message: "failed to parse HTML", Cause: err}
	}

	var results []Result
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title := strings.TrimSpace(s.Find(".result__a").Text())
		snippet := strings.TrimSpace(s.Find(".result__snippet").Text())
		if title == "" && snippet == "" {
			return true
		}
		results = append(results, Result{Title: title, Snippet: snippet})
		return len(results) < maxResultsPerQuery
	})
	return results, nil
}

// questionQueries builds the query shapes for a candidate.
func questionQueries(profile *types.CandidateProfile) []string {
	primary := profile.PrimaryTechnology()
	stack := strings.Join(profile.TechStack, " ")
	if stack == "" {
		stack = primary
	}
	return []string{
		fmt.Sprintf("%s technical interview questions", primary),
		fmt.Sprintf("%s interview questions %d years experience", stack, profile.YearsExperience),
		fmt.Sprintf("%s interview questions", profile.DesiredPosition),
	}
}

// renderResults flattens hits for one query into prompt text.
func renderResults(query string, results []Result) string {
	if len(results) == 0 {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Search: %s\n", query)
	for _, r := range results {
		if r.Title != "" {
			fmt.Fprintf(&sb, "- %s", r.Title)
			if r.Snippet != "" {
				fmt.Fprintf(&sb, ": %s", r.Snippet)
			}
			sb.WriteString("\n")
		} else {
			fmt.Fprintf(&sb, "- %s\n", r.Snippet)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
