package crawler

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// robotsRules are the parsed robots.txt directives relevant to one host.
type robotsRules struct {
	allow      []string
	disallow   []string
	crawlDelay time.Duration
}

// robotsFilter enforces robots.txt exclusion rules. Rules are fetched once
// per host through the crawl's fetcher and cached for the run. An unreachable
// or unparsable robots.txt means no restrictions.
type robotsFilter struct {
	fetcher Fetcher
	agent   string
	logger  *slog.Logger

	mu     sync.Mutex
	byHost map[string]*robotsRules
}

func newRobotsFilter(f Fetcher, userAgent string, logger *slog.Logger) *robotsFilter {
	return &robotsFilter{
		fetcher: f,
		agent:   agentToken(userAgent),
		logger:  logger,
		byHost:  make(map[string]*robotsRules),
	}
}

// agentToken reduces a User-Agent string to its product name for section
// matching ("Recrafter/1.2" matches a "User-agent: recrafter" group).
func agentToken(userAgent string) string {
	token, _, _ := strings.Cut(userAgent, "/")
	return strings.ToLower(strings.TrimSpace(token))
}

// allowed reports whether the URL may be fetched. Allow rules win over
// disallow rules, longest match is irrelevant: first hit decides, matching
// the order groups appear in the file.
func (rf *robotsFilter) allowed(ctx context.Context, u *url.URL) bool {
	rules := rf.rulesFor(ctx, u)
	if rules == nil {
		return true
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	for _, pattern := range rules.allow {
		if robotsPatternMatch(pattern, path) {
			return true
		}
	}
	for _, pattern := range rules.disallow {
		if robotsPatternMatch(pattern, path) {
			return false
		}
	}
	return true
}

// delay returns the Crawl-delay declared for the URL's host, or zero.
func (rf *robotsFilter) delay(ctx context.Context, u *url.URL) time.Duration {
	if rules := rf.rulesFor(ctx, u); rules != nil {
		return rules.crawlDelay
	}
	return 0
}

func (rf *robotsFilter) rulesFor(ctx context.Context, u *url.URL) *robotsRules {
	host := u.Scheme + "://" + u.Host

	rf.mu.Lock()
	rules, ok := rf.byHost[host]
	rf.mu.Unlock()
	if ok {
		return rules
	}

	body, _, err := rf.fetcher.FetchBytes(ctx, host+"/robots.txt")
	if err != nil {
		rf.logger.Debug("no robots.txt", "host", host, "error", err)
		rules = nil
	} else {
		rules = rf.parse(string(body))
		rf.logger.Debug("robots.txt loaded",
			"host", host,
			"disallow_rules", len(rules.disallow),
			"crawl_delay", rules.crawlDelay,
		)
	}

	rf.mu.Lock()
	rf.byHost[host] = rules
	rf.mu.Unlock()
	return rules
}

// parse extracts the directives from the groups addressed to us, i.e. the
// wildcard group and any group naming our agent token.
func (rf *robotsFilter) parse(content string) *robotsRules {
	rules := &robotsRules{}
	applies := false

	for _, line := range strings.Split(content, "\n") {
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "user-agent":
			agent := strings.ToLower(value)
			applies = agent == "*" || strings.Contains(agent, rf.agent)
		case "allow":
			if applies && value != "" {
				rules.allow = append(rules.allow, value)
			}
		case "disallow":
			if applies && value != "" {
				rules.disallow = append(rules.disallow, value)
			}
		case "crawl-delay":
			if applies {
				if secs, err := strconv.ParseFloat(value, 64); err == nil && secs > 0 {
					rules.crawlDelay = time.Duration(secs * float64(time.Second))
				}
			}
		}
	}
	return rules
}

// robotsPatternMatch matches a path against a robots.txt pattern with
// * (any run) and a trailing $ (end anchor).
func robotsPatternMatch(pattern, path string) bool {
	if pattern == "" {
		return false
	}

	anchored := strings.HasSuffix(pattern, "$")
	if anchored {
		pattern = strings.TrimSuffix(pattern, "$")
	}

	if !strings.Contains(pattern, "*") {
		if anchored {
			return path == pattern
		}
		return strings.HasPrefix(path, pattern)
	}

	segments := strings.Split(pattern, "*")
	pos := 0
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		idx := strings.Index(path[pos:], seg)
		if idx < 0 {
			return false
		}
		if i == 0 && idx != 0 {
			return false
		}
		pos += idx + len(seg)
	}
	if anchored {
		return pos == len(path)
	}
	return true
}
