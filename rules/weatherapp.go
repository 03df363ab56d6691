//go:build ruleguard

// Package gorules holds the project's ruleguard checks, run through
// gocritic's ruleguard checker.
package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

// DateOnlyLayout detects the magic day layout and suggests time.DateOnly.
//
// Old pattern:
//
//	t.Format("2006-01-02")
//
// New pattern:
//
//	t.Format(time.DateOnly)
//
// weatherapi.HistoryDateLayout is the named layout for history requests.
func DateOnlyLayout(m dsl.Matcher) {
	m.Match(
		`$t.Format("2006-01-02")`,
	).
		Report(`use $t.Format(time.DateOnly) instead of magic format string`).
		Suggest(`$t.Format(time.DateOnly)`)

	m.Match(
		`time.Parse("2006-01-02", $s)`,
	).
		Report(`use time.Parse(time.DateOnly, $s) instead of magic format string`).
		Suggest(`time.Parse(time.DateOnly, $s)`)
}

// ModuleLogger keeps log output on the module-scoped loggers so per-module
// levels and file output apply.
func ModuleLogger(m dsl.Matcher) {
	m.Match(
		`slog.Debug($*_)`,
		`slog.Info($*_)`,
		`slog.Warn($*_)`,
		`slog.Error($*_)`,
		`log.Printf($*_)`,
		`log.Println($*_)`,
	).
		Where(!m.File().PkgPath.Matches(`/internal/logger$`)).
		Report(`log through logger.Global().Module(...) instead of a package-level logger`)
}

// UpstreamHTTPClient flags requests that bypass internal/httpclient and so
// lose the per-request timeout, the User-Agent and request metrics.
func UpstreamHTTPClient(m dsl.Matcher) {
	m.Match(
		`http.Get($*_)`,
		`http.Post($*_)`,
		`http.DefaultClient.Do($_)`,
	).
		Where(!m.File().Name.Matches(`_test\.go$`)).
		Report(`use internal/httpclient for outbound requests`)
}

// CredentialInLogField flags log fields named after credentials. The API
// key travels as a query parameter and must never reach a log line.
func CredentialInLogField(m dsl.Matcher) {
	m.Match(
		`logger.String($k, $_)`,
		`logger.Any($k, $_)`,
	).
		Where(m["k"].Text.Matches(`(?i)^"(key|api_?key|apikey|token|password|dsn)"$`)).
		Report(`do not log credentials`)
}

// JoinHostPort detects fmt.Sprintf patterns for host:port.
//
//	addr := fmt.Sprintf("%s:%d", host, port)
//
// Should be:
//
//	addr := net.JoinHostPort(host, strconv.Itoa(port))
func JoinHostPort(m dsl.Matcher) {
	m.Match(
		`fmt.Sprintf("%s:%d", $host, $port)`,
		`fmt.Sprintf("%v:%d", $host, $port)`,
	).
		Report("use net.JoinHostPort($host, strconv.Itoa($port)) instead of fmt.Sprintf for host:port (handles IPv6 correctly)")
}
