// Package http provides the JSON API server and its handlers.
//
// This file implements utilities for parsing request bodies. Clients may send
// JSON or form-encoded data; both end up as the same core input types.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"budgetdash/internal/core"
)

// maxBodyBytes bounds every request body.
const maxBodyBytes = 1 << 20

var errBodyTooLarge = errors.New("request body too large")

// RequestBodyParser handles different content types for request body parsing.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body == nil {
		return p
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if p.err == nil && len(p.body) > maxBodyBytes {
		p.err = errBodyTooLarge
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}

	if strings.Contains(p.contentType, "application/json") || trimmed[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal([]byte(trimmed), &p.jsonData); err != nil {
			p.err = fmt.Errorf("invalid JSON body: %w", err)
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(trimmed)
	return p.err
}

// Lookup returns the sanitized value for key and whether the key was sent.
func (p *RequestBodyParser) Lookup(key string) (string, bool) {
	if p.jsonData != nil {
		val, ok := p.jsonData[key]
		if !ok || val == nil {
			return "", false
		}
		return sanitizeInput(stringValue(val)), true
	}
	if p.formData != nil {
		if _, ok := p.formData[key]; ok {
			return sanitizeInput(p.formData.Get(key)), true
		}
	}
	return "", false
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	v, _ := p.Lookup(key)
	return v
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func (p *RequestBodyParser) ptr(key string) *string {
	if v, ok := p.Lookup(key); ok {
		return &v
	}
	return nil
}

// TransactionInput maps the body onto a new transaction.
func (p *RequestBodyParser) TransactionInput() core.TransactionInput {
	return core.TransactionInput{
		Amount:      p.Get("amount"),
		Category:    p.Get("category"),
		Description: p.Get("description"),
		Date:        p.Get("date"),
		Type:        p.Get("type"),
	}
}

// TransactionPatch keeps only the fields that were sent.
func (p *RequestBodyParser) TransactionPatch() core.TransactionPatch {
	return core.TransactionPatch{
		Amount:      p.ptr("amount"),
		Category:    p.ptr("category"),
		Description: p.ptr("description"),
		Date:        p.ptr("date"),
		Type:        p.ptr("type"),
	}
}

func (p *RequestBodyParser) CategoryInput() core.CategoryInput {
	return core.CategoryInput{
		Name:   p.Get("name"),
		Icon:   p.Get("icon"),
		Color:  p.Get("color"),
		Budget: p.Get("budget"),
	}
}

// Amount parses a required money field.
func (p *RequestBodyParser) Amount(key string) (core.Money, error) {
	v, ok := p.Lookup(key)
	if !ok || v == "" {
		return core.Money{}, core.NewValidationError(key, core.ErrInvalidAmount)
	}
	m, err := core.ParseAmount(v)
	if err != nil {
		return core.Money{}, core.NewValidationError(key, err)
	}
	return m, nil
}

// stringValue converts a decoded JSON value to string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	default:
		return ""
	}
}
