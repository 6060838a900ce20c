package jsontoken

import (
	"context"
	"errors"
	"log/slog"
)

// fail makes err the parser's sticky error and reports it
func (p *Parser) fail(op string, err error) {
	p.err = err
	p.recordDocument(false)
	p.logFailure(op, err)
}

// logFailure counts the failure in the stats collector and logs it.
// Malformed numbers are logged at error level, everything else at debug.
func (p *Parser) logFailure(op string, err error) {
	errorType := failureType(err)

	if stats := p.cfg.Stats; stats != nil {
		stats.RecordError(errorType)
		switch {
		case errors.Is(err, ErrNumericOverflow):
			stats.RecordOverflow()
		case errors.Is(err, ErrMalformedNumber):
			stats.RecordMalformedNumber()
		}
	}

	if p.cfg.Logger == nil {
		return
	}

	level := slog.LevelDebug
	if errorType == "malformed_number" {
		level = slog.LevelError
	}

	p.cfg.Logger.LogAttrs(context.Background(), level, "JSON tokenizer failure",
		slog.String("operation", op),
		slog.String("error", sanitizeError(err)),
		slog.String("error_type", errorType),
		slog.String("token", p.cur.String()),
		slog.String("path", truncateString(p.ctx.Path(), maxLoggedPathLength)),
		slog.Int64("offset", p.tokStart.Offset),
		slog.Int("line", p.tokStart.Line),
		slog.Int("column", p.tokStart.Column),
	)
}

const (
	maxLoggedPathLength  = 100
	maxLoggedErrorLength = 200
)

func failureType(err error) string {
	switch {
	case errors.Is(err, ErrNumericOverflow):
		return "numeric_overflow"
	case errors.Is(err, ErrMalformedNumber):
		return "malformed_number"
	case errors.Is(err, ErrUnexpectedEOF):
		return "unexpected_eof"
	case errors.Is(err, ErrInvalidJSON):
		return "invalid_json"
	case errors.Is(err, ErrInvalidBase64):
		return "invalid_base64"
	case errors.Is(err, ErrSizeLimit):
		return "size_limit"
	case errors.Is(err, ErrDepthLimit):
		return "depth_limit"
	default:
		return "read_error"
	}
}

// sanitizeError bounds error text, which may quote document content
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return truncateString(err.Error(), maxLoggedErrorLength)
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
